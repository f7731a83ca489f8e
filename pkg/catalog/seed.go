package catalog

import (
	"encoding/json"
	"os"

	"foodgram-backend/domain"
)

// LoadIngredientSeeds reads reference ingredients from a JSON file shaped
// like [{"name": "salt", "measurement_unit": "g"}, ...].
func LoadIngredientSeeds(path string) ([]domain.IngredientSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seeds []domain.IngredientSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}

func LoadTagSeeds(path string) ([]domain.TagSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seeds []domain.TagSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}
