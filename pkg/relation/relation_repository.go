package relation

import (
	"context"
	"errors"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind selects which join table a guarded operation works on.
type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
	KindSubscription Kind = "subscription"
)

type (
	RelationRepository interface {
		Exists(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) (bool, error)
		Create(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error
		Delete(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error
		RecipeAuthor(ctx context.Context, recipeID uuid.UUID) (uuid.UUID, error)
		UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) model(kind Kind) (interface{}, string) {
	switch kind {
	case KindSubscription:
		return &entities.Subscription{}, "author_id"
	case KindShoppingCart:
		return &entities.ShoppingCart{}, "recipe_id"
	default:
		return &entities.Favorite{}, "recipe_id"
	}
}

func (r *relationRepository) Exists(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) (bool, error) {
	model, targetColumn := r.model(kind)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+targetColumn+" = ?", actorID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) Create(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error {
	var row interface{}
	switch kind {
	case KindSubscription:
		row = &entities.Subscription{ID: uuid.New(), UserID: actorID, AuthorID: targetID, CreatedAt: time.Now()}
	case KindShoppingCart:
		row = &entities.ShoppingCart{ID: uuid.New(), UserID: actorID, RecipeID: targetID, CreatedAt: time.Now()}
	default:
		row = &entities.Favorite{ID: uuid.New(), UserID: actorID, RecipeID: targetID, CreatedAt: time.Now()}
	}

	// The unique index wins over any racing pre-check, so a constraint
	// violation here is the canonical duplicate signal.
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *relationRepository) Delete(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error {
	model, targetColumn := r.model(kind)
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND "+targetColumn+" = ?", actorID, targetID).
		Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *relationRepository) RecipeAuthor(ctx context.Context, recipeID uuid.UUID) (uuid.UUID, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Select("id", "author_id").
		Where("id = ?", recipeID).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, domain.ErrRecipeNotFound
		}
		return uuid.Nil, err
	}
	return recipe.AuthorID, nil
}

func (r *relationRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
