package main

import (
	"context"
	"log"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/catalog"

	"gorm.io/gorm"
)

func main() {
	utils.LoadConfig()
	utils.InitValidator()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := seedCatalog(db); err != nil {
		log.Fatalf("failed to seed catalog data: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = ":8080"
	}
	if err := app.Listen(port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// seedCatalog loads reference tags and ingredients when seed files are
// configured. Rows already present are left alone.
func seedCatalog(db *gorm.DB) error {
	catalogService := catalog.NewCatalogService(catalog.NewCatalogRepository(db), utils.Validate)
	ctx := context.Background()

	if path := utils.GetConfig("TAGS_FILE"); path != "" {
		seeds, err := catalog.LoadTagSeeds(path)
		if err != nil {
			return err
		}
		if err := catalogService.SeedTags(ctx, seeds); err != nil {
			return err
		}
	}

	if path := utils.GetConfig("INGREDIENTS_FILE"); path != "" {
		seeds, err := catalog.LoadIngredientSeeds(path)
		if err != nil {
			return err
		}
		if err := catalogService.SeedIngredients(ctx, seeds); err != nil {
			return err
		}
	}

	return nil
}
