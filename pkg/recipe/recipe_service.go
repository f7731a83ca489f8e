package recipe

import (
	"context"
	"fmt"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID, userID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, userID string) ([]domain.RecipeResponse, int64, error)
		DeleteRecipe(ctx context.Context, recipeID, userID string) error
		UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest, userID string) (string, error)
		FavoriteRecipe(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error)
		UnfavoriteRecipe(ctx context.Context, recipeID, userID string) error
		AddToShoppingCart(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID, userID string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		guard            relation.GuardService
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, guard relation.GuardService, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		guard:            guard,
		s3:               s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	return s.saveRecipe(ctx, "", req, userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	return s.saveRecipe(ctx, recipeID, req, userID)
}

func (s *recipeService) saveRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if err := validateComposition(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrParseUUID
		}
		ingredientIDs = append(ingredientIDs, id)
	}
	ingredients, err := s.recipeRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if len(ingredients) != len(ingredientIDs) {
		return domain.RecipeResponse{}, domain.ErrIngredientNotFound
	}

	tagIDs := make([]uuid.UUID, 0, len(req.Tags))
	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrParseUUID
		}
		tagIDs = append(tagIDs, id)
	}
	tags, err := s.recipeRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if len(tags) != len(tagIDs) {
		return domain.RecipeResponse{}, domain.ErrTagNotFound
	}

	isNew := recipeID == ""
	recipe := &entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if isNew {
		recipe.ID = uuid.New()
		recipe.CreatedAt = time.Now()
	} else {
		existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if existing.AuthorID.String() != userID {
			return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
		}
		recipe.ID = existing.ID
		recipe.ImageURL = existing.ImageURL
		recipe.CreatedAt = existing.CreatedAt
	}
	recipe.UpdatedAt = time.Now()

	items := make([]entities.RecipeIngredient, 0, len(req.Ingredients))
	for i, item := range req.Ingredients {
		items = append(items, entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipe.ID,
			IngredientID: ingredientIDs[i],
			Amount:       item.Amount,
		})
	}

	if err := s.recipeRepository.SaveComposition(ctx, recipe, items, tags, isNew); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

// validateComposition rejects a recipe payload before anything touches the
// database, so a failed submission leaves the join tables untouched.
func validateComposition(req domain.RecipeRequest) error {
	if len(req.Ingredients) == 0 {
		return domain.ErrNoIngredients
	}
	seenIngredients := make(map[string]struct{}, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if _, ok := seenIngredients[item.ID]; ok {
			return domain.ErrDuplicateIngredient
		}
		seenIngredients[item.ID] = struct{}{}
		if !item.Amount.IsPositive() {
			return domain.ErrNonPositiveAmount
		}
	}

	if len(req.Tags) == 0 {
		return domain.ErrNoTags
	}
	seenTags := make(map[string]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		if _, ok := seenTags[id]; ok {
			return domain.ErrDuplicateTag
		}
		seenTags[id] = struct{}{}
	}

	if req.CookingTime <= 0 || req.CookingTime > domain.MaxCookingTime {
		return domain.ErrCookingTimeOutOfRange
	}
	return nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, userID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, userID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.toRecipeResponse(ctx, recipe, userID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, res)
	}
	return responses, count, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if recipe.ImageURL != "" {
		if objectKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL); objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest, userID string) (string, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, req.RecipeID)
	if err != nil {
		return "", err
	}
	if recipe.AuthorID.String() != userID {
		return "", domain.ErrUnauthorizedRecipeAccess
	}

	fileName := fmt.Sprintf("recipe-%s", recipe.ID.String())
	var objectKey string
	var uploadErr error

	if recipe.ImageURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "recipes", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "recipes", storage.AllowImage...)
	}
	if uploadErr != nil {
		return "", uploadErr
	}

	imageURL := s.s3.GetPublicLinkKey(objectKey)
	if err := s.recipeRepository.UpdateRecipeImage(ctx, req.RecipeID, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *recipeService) FavoriteRecipe(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error) {
	if err := s.guard.Add(ctx, relation.KindFavorite, userID, recipeID); err != nil {
		return domain.RecipeShortResponse{}, err
	}
	return s.shortResponse(ctx, recipeID)
}

func (s *recipeService) UnfavoriteRecipe(ctx context.Context, recipeID, userID string) error {
	return s.guard.Remove(ctx, relation.KindFavorite, userID, recipeID)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error) {
	if err := s.guard.Add(ctx, relation.KindShoppingCart, userID, recipeID); err != nil {
		return domain.RecipeShortResponse{}, err
	}
	return s.shortResponse(ctx, recipeID)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID, userID string) error {
	return s.guard.Remove(ctx, relation.KindShoppingCart, userID, recipeID)
}

func (s *recipeService) shortResponse(ctx context.Context, recipeID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	return domain.RecipeShortResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, userID string) (domain.RecipeResponse, error) {
	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Text:        recipe.Text,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
	}

	if recipe.Author != nil {
		res.Author = domain.UserResponse{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
		}
	}

	res.Tags = make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		res.Tags = append(res.Tags, domain.TagResponse{
			ID:    tag.ID.String(),
			Name:  tag.Name,
			Color: tag.Color,
			Slug:  tag.Slug,
		})
	}

	res.Ingredients = make([]domain.IngredientInRecipeResponse, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ingredient := domain.IngredientInRecipeResponse{
			ID:     item.IngredientID.String(),
			Amount: item.Amount,
		}
		if item.Ingredient != nil {
			ingredient.Name = item.Ingredient.Name
			ingredient.MeasurementUnit = item.Ingredient.MeasurementUnit
		}
		res.Ingredients = append(res.Ingredients, ingredient)
	}

	// Flags stay false for unauthenticated callers.
	if userID != "" {
		isFavorited, err := s.guard.Exists(ctx, relation.KindFavorite, userID, recipe.ID.String())
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsFavorited = isFavorited

		inCart, err := s.guard.Exists(ctx, relation.KindShoppingCart, userID, recipe.ID.String())
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsInShoppingCart = inCart

		if recipe.Author != nil {
			isSubscribed, err := s.guard.Exists(ctx, relation.KindSubscription, userID, recipe.AuthorID.String())
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			res.Author.IsSubscribed = isSubscribed
		}
	}

	return res, nil
}
