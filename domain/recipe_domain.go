package domain

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
)

// MaxCookingTime caps cooking_time at three days in minutes.
const MaxCookingTime = 4320

var (
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessSaveRecipe       = "recipe saved successfully"
	MessageSuccessDeleteRecipe     = "recipe deleted successfully"
	MessageSuccessFavoriteRecipe   = "recipe added to favorites"
	MessageSuccessUnfavoriteRecipe = "recipe removed from favorites"
	MessageSuccessAddToCart        = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart   = "recipe removed from shopping cart"
	MessageSuccessUploadImage      = "recipe image uploaded successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSaveRecipe      = "failed to save recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavoriteRecipe  = "failed to update favorites"
	MessageFailedUpdateCart      = "failed to update shopping cart"
	MessageFailedUploadImage     = "failed to upload recipe image"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrNoIngredients            = errors.New("recipe must contain at least one ingredient")
	ErrDuplicateIngredient      = errors.New("duplicate ingredient in recipe")
	ErrNonPositiveAmount        = errors.New("ingredient amount must be greater than zero")
	ErrNoTags                   = errors.New("recipe must carry at least one tag")
	ErrDuplicateTag             = errors.New("duplicate tag in recipe")
	ErrCookingTimeOutOfRange    = errors.New("cooking time out of range")
	ErrInvalidImageFormat       = errors.New("invalid image format")
)

type (
	IngredientAmountRequest struct {
		ID     string          `json:"id" validate:"required,uuid"`
		Amount decimal.Decimal `json:"amount" validate:"required"`
	}

	RecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,dive"`
		Tags        []string                  `json:"tags" validate:"required,dive,uuid"`
	}

	UploadRecipeImageRequest struct {
		RecipeID string                `json:"recipe_id" form:"recipe_id" validate:"required,uuid"`
		Image    *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	RecipeFilter struct {
		AuthorID           string
		TagSlugs           []string
		OnlyFavorited      bool
		OnlyInShoppingCart bool
	}

	IngredientInRecipeResponse struct {
		ID              string          `json:"id"`
		Name            string          `json:"name"`
		MeasurementUnit string          `json:"measurement_unit"`
		Amount          decimal.Decimal `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                       `json:"id"`
		Author           UserResponse                 `json:"author"`
		Name             string                       `json:"name"`
		Text             string                       `json:"text"`
		ImageURL         string                       `json:"image_url,omitempty"`
		CookingTime      int                          `json:"cooking_time"`
		Tags             []TagResponse                `json:"tags"`
		Ingredients      []IngredientInRecipeResponse `json:"ingredients"`
		IsFavorited      bool                         `json:"is_favorited"`
		IsInShoppingCart bool                         `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                    `json:"created_at"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image_url,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}
)
