package catalog

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type (
	CatalogService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagDetail(ctx context.Context, id string) (domain.TagResponse, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredientDetail(ctx context.Context, id string) (domain.IngredientResponse, error)
		SeedTags(ctx context.Context, seeds []domain.TagSeed) error
		SeedIngredients(ctx context.Context, seeds []domain.IngredientSeed) error
	}

	catalogService struct {
		catalogRepository CatalogRepository
		validate          *validator.Validate
	}
)

func NewCatalogService(catalogRepository CatalogRepository, validate *validator.Validate) CatalogService {
	return &catalogService{
		catalogRepository: catalogRepository,
		validate:          validate,
	}
}

func (s *catalogService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.catalogRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, toTagResponse(tag))
	}
	return responses, nil
}

func (s *catalogService) GetTagDetail(ctx context.Context, id string) (domain.TagResponse, error) {
	tag, err := s.catalogRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return toTagResponse(*tag), nil
}

func (s *catalogService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.catalogRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, toIngredientResponse(ingredient))
	}
	return responses, nil
}

func (s *catalogService) GetIngredientDetail(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return toIngredientResponse(*ingredient), nil
}

// SeedTags loads reference tags, skipping ones already present. Every seed
// is validated first, a malformed color anywhere aborts the whole run before
// a single row is written.
func (s *catalogService) SeedTags(ctx context.Context, seeds []domain.TagSeed) error {
	for _, seed := range seeds {
		if err := s.validate.Struct(seed); err != nil {
			return err
		}
	}
	for _, seed := range seeds {
		tag := &entities.Tag{
			ID:    uuid.New(),
			Name:  seed.Name,
			Color: seed.Color,
			Slug:  seed.Slug,
		}
		if err := s.catalogRepository.CreateTag(ctx, tag); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *catalogService) SeedIngredients(ctx context.Context, seeds []domain.IngredientSeed) error {
	for _, seed := range seeds {
		if err := s.validate.Struct(seed); err != nil {
			return err
		}
	}
	for _, seed := range seeds {
		ingredient := &entities.Ingredient{
			ID:              uuid.New(),
			Name:            seed.Name,
			MeasurementUnit: seed.MeasurementUnit,
		}
		if err := s.catalogRepository.CreateIngredient(ctx, ingredient); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return err
		}
	}
	return nil
}

func toTagResponse(tag entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

func toIngredientResponse(ingredient entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}
