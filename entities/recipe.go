package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"index" json:"author_id"`
	Name        string    `json:"name"`
	Text        string    `gorm:"type:text" json:"text"`
	ImageURL    string    `json:"image_url,omitempty"`
	CookingTime int       `json:"cooking_time"`

	Author      *User              `gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`

	Timestamp
}

// RecipeIngredient rows are never updated in place. A recipe write drops the
// whole set and recreates it from the submitted payload.
type RecipeIngredient struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID       `gorm:"uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID       `gorm:"uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}
