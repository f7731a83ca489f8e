package relation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
		&entities.Subscription{},
	)
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	user := &entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string) *entities.Recipe {
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "instructions",
		CookingTime: 30,
		Timestamp:   entities.Timestamp{CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func TestGuard_FavoriteOwnRecipeRejected(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	author := createUser(t, db, "author")
	recipe := createRecipe(t, db, author, "borscht")

	err := guard.Add(context.Background(), relation.KindFavorite, author.ID.String(), recipe.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfReference)
}

func TestGuard_FavoriteDuplicateRejected(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	recipe := createRecipe(t, db, author, "borscht")

	err := guard.Add(context.Background(), relation.KindFavorite, reader.ID.String(), recipe.ID.String())
	assert.NoError(t, err)

	err = guard.Add(context.Background(), relation.KindFavorite, reader.ID.String(), recipe.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGuard_UniqueIndexCatchesRacingInsert(t *testing.T) {
	db := setupDB(t)
	repo := relation.NewRelationRepository(db)

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	recipe := createRecipe(t, db, author, "borscht")

	// Bypass the guard's pre-check: the second direct insert must still be
	// reported as a duplicate by the constraint itself.
	require.NoError(t, repo.Create(context.Background(), relation.KindFavorite, reader.ID, recipe.ID))
	err := repo.Create(context.Background(), relation.KindFavorite, reader.ID, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestGuard_OwnRecipeInCartAllowed(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	author := createUser(t, db, "author")
	recipe := createRecipe(t, db, author, "borscht")

	err := guard.Add(context.Background(), relation.KindShoppingCart, author.ID.String(), recipe.ID.String())
	assert.NoError(t, err)
}

func TestGuard_SelfSubscriptionRejected(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	user := createUser(t, db, "loner")

	err := guard.Add(context.Background(), relation.KindSubscription, user.ID.String(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfReference)
}

func TestGuard_SubscriptionLifecycle(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	err := guard.Add(context.Background(), relation.KindSubscription, reader.ID.String(), author.ID.String())
	assert.NoError(t, err)

	exists, err := guard.Exists(context.Background(), relation.KindSubscription, reader.ID.String(), author.ID.String())
	assert.NoError(t, err)
	assert.True(t, exists)

	err = guard.Add(context.Background(), relation.KindSubscription, reader.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	err = guard.Remove(context.Background(), relation.KindSubscription, reader.ID.String(), author.ID.String())
	assert.NoError(t, err)

	// Deleting again is not a silent success.
	err = guard.Remove(context.Background(), relation.KindSubscription, reader.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGuard_MissingTargets(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	user := createUser(t, db, "reader")

	err := guard.Add(context.Background(), relation.KindFavorite, user.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	err = guard.Add(context.Background(), relation.KindShoppingCart, user.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	err = guard.Add(context.Background(), relation.KindSubscription, user.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGuard_BadIdentifiers(t *testing.T) {
	db := setupDB(t)
	guard := relation.NewGuardService(relation.NewRelationRepository(db))

	err := guard.Add(context.Background(), relation.KindFavorite, "not-a-uuid", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
