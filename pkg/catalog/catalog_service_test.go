package catalog_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, catalog.CatalogService) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.Tag{}, &entities.Ingredient{}))
	return db, catalog.NewCatalogService(catalog.NewCatalogRepository(db), validator.New())
}

func TestSeedTags_SkipsExistingRows(t *testing.T) {
	db, service := setup(t)
	ctx := context.Background()

	seeds := []domain.TagSeed{
		{Name: "breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "dinner", Color: "#49B64E", Slug: "dinner"},
	}
	require.NoError(t, service.SeedTags(ctx, seeds))
	// Second run over the same file must be a no-op.
	require.NoError(t, service.SeedTags(ctx, seeds))

	var count int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSeedTags_RejectsMalformedColor(t *testing.T) {
	db, service := setup(t)
	ctx := context.Background()

	err := service.SeedTags(ctx, []domain.TagSeed{
		{Name: "breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "bad", Color: "notacolor", Slug: "bad"},
	})
	require.Error(t, err)
	assert.IsType(t, validator.ValidationErrors{}, err)

	// One bad seed keeps the whole batch out, including the valid rows.
	var count int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSeedIngredients_RejectsIncompleteSeed(t *testing.T) {
	db, service := setup(t)

	err := service.SeedIngredients(context.Background(), []domain.IngredientSeed{
		{Name: "salt", MeasurementUnit: ""},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSeedIngredients_SameNameDifferentUnitAllowed(t *testing.T) {
	db, service := setup(t)
	ctx := context.Background()

	seeds := []domain.IngredientSeed{
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "kg"},
		{Name: "sugar", MeasurementUnit: "g"},
	}
	require.NoError(t, service.SeedIngredients(ctx, seeds))

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestGetIngredients_PrefixSearch(t *testing.T) {
	db, service := setup(t)
	ctx := context.Background()

	for _, row := range [][2]string{{"salt", "g"}, {"salmon", "g"}, {"pepper", "g"}} {
		require.NoError(t, db.Create(&entities.Ingredient{
			ID:              uuid.New(),
			Name:            row[0],
			MeasurementUnit: row[1],
		}).Error)
	}

	matched, err := service.GetIngredients(ctx, "sal")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "salmon", matched[0].Name)
	assert.Equal(t, "salt", matched[1].Name)

	all, err := service.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetTagDetail_NotFound(t *testing.T) {
	_, service := setup(t)

	_, err := service.GetTagDetail(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	_, err = service.GetIngredientDetail(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestLoadSeeds(t *testing.T) {
	dir := t.TempDir()

	tagsPath := filepath.Join(dir, "tags.json")
	require.NoError(t, os.WriteFile(tagsPath, []byte(`[{"name":"lunch","color":"#7FFF00","slug":"lunch"}]`), 0o644))
	tags, err := catalog.LoadTagSeeds(tagsPath)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "lunch", tags[0].Name)
	assert.Equal(t, "#7FFF00", tags[0].Color)

	ingredientsPath := filepath.Join(dir, "ingredients.json")
	require.NoError(t, os.WriteFile(ingredientsPath, []byte(`[{"name":"salt","measurement_unit":"g"}]`), 0o644))
	ingredients, err := catalog.LoadIngredientSeeds(ingredientsPath)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "g", ingredients[0].MeasurementUnit)

	_, err = catalog.LoadTagSeeds(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
