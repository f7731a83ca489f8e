package shopping

import (
	"context"

	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		GetCartItems(ctx context.Context, userID string) ([]entities.ShoppingCart, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// GetCartItems loads the user's cart with each recipe's full ingredient set.
// Ordering is fixed so the aggregated report is reproducible for the same
// cart contents.
func (r *shoppingRepository) GetCartItems(ctx context.Context, userID string) ([]entities.ShoppingCart, error) {
	var items []entities.ShoppingCart
	if err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Recipe.Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.ingredient_id")
		}).
		Preload("Recipe.Ingredients.Ingredient").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
