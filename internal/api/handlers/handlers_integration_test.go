package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram-backend/entities"
	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/api/routes"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/catalog"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/relation"
	"foodgram-backend/pkg/shopping"
	"foodgram-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubS3 struct{}

func (stubS3) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	return dir + "/" + fileName, nil
}
func (stubS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error) {
	return objectKey, nil
}
func (stubS3) DeleteFile(objectKey string) error        { return nil }
func (stubS3) GetPublicLinkKey(objectKey string) string { return "https://storage.test/" + objectKey }
func (stubS3) GetObjectKeyFromLink(link string) string  { return "" }

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
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

	utils.InitValidator()

	guard := relation.NewGuardService(relation.NewRelationRepository(db))
	recipeRepository := recipe.NewRecipeRepository(db)
	recipeService := recipe.NewRecipeService(recipeRepository, guard, stubS3{})
	userService := user.NewUserService(user.NewUserRepository(db), recipeRepository, guard, jwt.NewJWTService())
	catalogService := catalog.NewCatalogService(catalog.NewCatalogRepository(db), utils.Validate)
	shoppingService := shopping.NewShoppingService(shopping.NewShoppingRepository(db))

	app := fiber.New()
	routeConfig := routes.Config{
		App:             app,
		UserHandler:     handlers.NewUserHandler(userService, utils.Validate),
		RecipeHandler:   handlers.NewRecipeHandler(recipeService, utils.Validate),
		CatalogHandler:  handlers.NewCatalogHandler(catalogService),
		ShoppingHandler: handlers.NewShoppingHandler(shoppingService),
		Middleware:      middleware.NewMiddleware(),
		JWTService:      jwt.NewJWTService(),
	}
	routeConfig.Setup()

	return &testEnv{app: app, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeData(t *testing.T, res *http.Response) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	return envelope.Data
}

func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	res := e.request(t, fiber.MethodPost, "/api/v1/users/register", "", fiber.Map{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "supersecret",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = e.request(t, fiber.MethodPost, "/api/v1/users/login", "", fiber.Map{
		"email":    username + "@example.com",
		"password": "supersecret",
	})
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	token, _ := decodeData(t, res)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) seedCatalog(t *testing.T) (tagID string, ingredientIDs []string) {
	tag := &entities.Tag{ID: uuid.New(), Name: "dinner", Color: "#49B64E", Slug: "dinner"}
	require.NoError(t, e.db.Create(tag).Error)

	for _, row := range [][2]string{{"Salt", "g"}, {"Rice", "g"}} {
		ingredient := &entities.Ingredient{ID: uuid.New(), Name: row[0], MeasurementUnit: row[1]}
		require.NoError(t, e.db.Create(ingredient).Error)
		ingredientIDs = append(ingredientIDs, ingredient.ID.String())
	}
	return tag.ID.String(), ingredientIDs
}

func (e *testEnv) createRecipe(t *testing.T, token, name, tagID string, ingredients []fiber.Map) string {
	res := e.request(t, fiber.MethodPost, "/api/v1/recipes", token, fiber.Map{
		"name":         name,
		"text":         "cook it well",
		"cooking_time": 30,
		"ingredients":  ingredients,
		"tags":         []string{tagID},
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	id, _ := decodeData(t, res)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestShoppingCartFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "cook")
	tagID, ingredientIDs := env.seedCatalog(t)

	first := env.createRecipe(t, token, "plov", tagID, []fiber.Map{
		{"id": ingredientIDs[0], "amount": "5"},
		{"id": ingredientIDs[1], "amount": "200"},
	})
	second := env.createRecipe(t, token, "soup", tagID, []fiber.Map{
		{"id": ingredientIDs[0], "amount": "3"},
	})

	for _, id := range []string{first, second} {
		res := env.request(t, fiber.MethodPost, "/api/v1/recipes/"+id+"/shopping_cart", token, nil)
		require.Equal(t, fiber.StatusCreated, res.StatusCode)
	}

	res := env.request(t, fiber.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), "shopping_list.txt")

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	lines := strings.Split(string(body), "\n")
	assert.Contains(t, lines, "Salt (g) — 8")
	assert.Contains(t, lines, "Rice (g) — 200")
}

func TestShoppingCartDownload_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	res := env.request(t, fiber.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newTestEnv(t)
	authorToken := env.registerAndLogin(t, "author")
	readerToken := env.registerAndLogin(t, "reader")
	tagID, ingredientIDs := env.seedCatalog(t)

	recipeID := env.createRecipe(t, authorToken, "plov", tagID, []fiber.Map{
		{"id": ingredientIDs[0], "amount": "5"},
	})

	// Favoriting one's own recipe is a client error.
	res := env.request(t, fiber.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", authorToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = env.request(t, fiber.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", readerToken, nil)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = env.request(t, fiber.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", readerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = env.request(t, fiber.MethodDelete, "/api/v1/recipes/"+recipeID+"/favorite", readerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res = env.request(t, fiber.MethodDelete, "/api/v1/recipes/"+recipeID+"/favorite", readerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestSubscribeEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_ = env.registerAndLogin(t, "author")
	readerToken := env.registerAndLogin(t, "reader")

	var author entities.User
	require.NoError(t, env.db.Where("username = ?", "author").First(&author).Error)
	var reader entities.User
	require.NoError(t, env.db.Where("username = ?", "reader").First(&reader).Error)

	res := env.request(t, fiber.MethodPost, "/api/v1/users/"+reader.ID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = env.request(t, fiber.MethodPost, "/api/v1/users/"+author.ID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = env.request(t, fiber.MethodGet, "/api/v1/users/subscriptions", readerToken, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res = env.request(t, fiber.MethodDelete, "/api/v1/users/"+author.ID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestRecipeValidationOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "cook")
	tagID, ingredientIDs := env.seedCatalog(t)

	res := env.request(t, fiber.MethodPost, "/api/v1/recipes", token, fiber.Map{
		"name":         "broken",
		"text":         "no ingredients",
		"cooking_time": 10,
		"ingredients":  []fiber.Map{},
		"tags":         []string{tagID},
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = env.request(t, fiber.MethodPost, "/api/v1/recipes", token, fiber.Map{
		"name":         "broken",
		"text":         "too long to cook",
		"cooking_time": 4321,
		"ingredients":  []fiber.Map{{"id": ingredientIDs[0], "amount": "5"}},
		"tags":         []string{tagID},
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}
