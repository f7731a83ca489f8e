package shopping_test

import (
	"context"
	"testing"

	"foodgram-backend/entities"
	"foodgram-backend/pkg/shopping"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShoppingRepository struct {
	mock.Mock
}

func (m *MockShoppingRepository) GetCartItems(ctx context.Context, userID string) ([]entities.ShoppingCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ShoppingCart), args.Error(1)
}

func cartItem(ingredients ...entities.RecipeIngredient) entities.ShoppingCart {
	return entities.ShoppingCart{
		ID:     uuid.New(),
		Recipe: &entities.Recipe{ID: uuid.New(), Ingredients: ingredients},
	}
}

func ingredientAmount(name, unit string, amount decimal.Decimal) entities.RecipeIngredient {
	return entities.RecipeIngredient{
		ID:         uuid.New(),
		Ingredient: &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit},
		Amount:     amount,
	}
}

func TestAggregateShoppingList_MergesByNameAndUnit(t *testing.T) {
	repo := new(MockShoppingRepository)
	service := shopping.NewShoppingService(repo)
	userID := uuid.NewString()

	repo.On("GetCartItems", mock.Anything, userID).Return([]entities.ShoppingCart{
		cartItem(
			ingredientAmount("Salt", "g", decimal.NewFromInt(5)),
			ingredientAmount("Milk", "ml", decimal.NewFromInt(200)),
		),
		cartItem(
			ingredientAmount("Salt", "g", decimal.NewFromInt(3)),
		),
	}, nil)

	list, err := service.AggregateShoppingList(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Salt (g)", "Milk (ml)"}, list.Keys)
	assert.True(t, list.Totals["Salt (g)"].Equal(decimal.NewFromInt(8)), "got %s", list.Totals["Salt (g)"])
	assert.True(t, list.Totals["Milk (ml)"].Equal(decimal.NewFromInt(200)))
	repo.AssertExpectations(t)
}

func TestAggregateShoppingList_SameNameDifferentUnitStaysSeparate(t *testing.T) {
	repo := new(MockShoppingRepository)
	service := shopping.NewShoppingService(repo)
	userID := uuid.NewString()

	repo.On("GetCartItems", mock.Anything, userID).Return([]entities.ShoppingCart{
		cartItem(
			ingredientAmount("Sugar", "g", decimal.NewFromInt(100)),
			ingredientAmount("Sugar", "kg", decimal.NewFromInt(1)),
		),
	}, nil)

	list, err := service.AggregateShoppingList(context.Background(), userID)
	require.NoError(t, err)

	assert.Len(t, list.Totals, 2)
	assert.True(t, list.Totals["Sugar (g)"].Equal(decimal.NewFromInt(100)))
	assert.True(t, list.Totals["Sugar (kg)"].Equal(decimal.NewFromInt(1)))
}

func TestAggregateShoppingList_FractionalAmountsSumExactly(t *testing.T) {
	repo := new(MockShoppingRepository)
	service := shopping.NewShoppingService(repo)
	userID := uuid.NewString()

	repo.On("GetCartItems", mock.Anything, userID).Return([]entities.ShoppingCart{
		cartItem(ingredientAmount("Vanilla", "tsp", decimal.RequireFromString("0.1"))),
		cartItem(ingredientAmount("Vanilla", "tsp", decimal.RequireFromString("0.2"))),
	}, nil)

	list, err := service.AggregateShoppingList(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "0.3", list.Totals["Vanilla (tsp)"].String())
}

func TestAggregateShoppingList_EmptyCart(t *testing.T) {
	repo := new(MockShoppingRepository)
	service := shopping.NewShoppingService(repo)
	userID := uuid.NewString()

	repo.On("GetCartItems", mock.Anything, userID).Return([]entities.ShoppingCart{}, nil)

	list, err := service.AggregateShoppingList(context.Background(), userID)
	require.NoError(t, err)

	assert.Empty(t, list.Totals)
	assert.Empty(t, list.Keys)
	assert.Equal(t, "", service.RenderShoppingList(list))
}

func TestRenderShoppingList_LineFormat(t *testing.T) {
	service := shopping.NewShoppingService(new(MockShoppingRepository))

	list := shopping.ShoppingList{
		Totals: map[string]decimal.Decimal{
			"Salt (g)":   decimal.NewFromInt(8),
			"Sugar (kg)": decimal.RequireFromString("0.5"),
		},
		Keys: []string{"Salt (g)", "Sugar (kg)"},
	}

	assert.Equal(t, "Salt (g) — 8\nSugar (kg) — 0.5", service.RenderShoppingList(list))
}

func TestRenderShoppingList_KeepsFirstSeenOrder(t *testing.T) {
	repo := new(MockShoppingRepository)
	service := shopping.NewShoppingService(repo)
	userID := uuid.NewString()

	repo.On("GetCartItems", mock.Anything, userID).Return([]entities.ShoppingCart{
		cartItem(ingredientAmount("Zucchini", "pc", decimal.NewFromInt(2))),
		cartItem(ingredientAmount("Apple", "pc", decimal.NewFromInt(4))),
		cartItem(ingredientAmount("Zucchini", "pc", decimal.NewFromInt(1))),
	}, nil)

	list, err := service.AggregateShoppingList(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Zucchini (pc) — 3\nApple (pc) — 4", service.RenderShoppingList(list))
}
