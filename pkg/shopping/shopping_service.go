package shopping

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// ShoppingList keeps totals keyed by "{name} ({unit})" plus the
	// first-seen key order, since map iteration alone is not reproducible.
	ShoppingList struct {
		Totals map[string]decimal.Decimal
		Keys   []string
	}

	ShoppingService interface {
		AggregateShoppingList(ctx context.Context, userID string) (ShoppingList, error)
		RenderShoppingList(list ShoppingList) string
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository) ShoppingService {
	return &shoppingService{shoppingRepository: shoppingRepository}
}

// AggregateShoppingList merges ingredient amounts across every recipe in the
// user's cart. The same ingredient+unit pair recurring anywhere, even under
// distinct ingredient records, accumulates into one total. Amounts are
// decimal so fractional quantities sum exactly.
func (s *shoppingService) AggregateShoppingList(ctx context.Context, userID string) (ShoppingList, error) {
	items, err := s.shoppingRepository.GetCartItems(ctx, userID)
	if err != nil {
		return ShoppingList{}, err
	}

	list := ShoppingList{Totals: make(map[string]decimal.Decimal)}
	for _, cartItem := range items {
		if cartItem.Recipe == nil {
			continue
		}
		for _, item := range cartItem.Recipe.Ingredients {
			if item.Ingredient == nil {
				continue
			}
			key := fmt.Sprintf("%s (%s)", item.Ingredient.Name, item.Ingredient.MeasurementUnit)
			if total, ok := list.Totals[key]; ok {
				list.Totals[key] = total.Add(item.Amount)
			} else {
				list.Totals[key] = item.Amount
				list.Keys = append(list.Keys, key)
			}
		}
	}
	return list, nil
}

// RenderShoppingList writes one "{name} ({unit}) — {amount}" line per
// ingredient. Clients parse this format, keep it stable.
func (s *shoppingService) RenderShoppingList(list ShoppingList) string {
	lines := make([]string, 0, len(list.Keys))
	for _, key := range list.Keys {
		lines = append(lines, fmt.Sprintf("%s — %s", key, list.Totals[key].String()))
	}
	return strings.Join(lines, "\n")
}
