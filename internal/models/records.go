package models

import (
	"encoding/json"

	"github.com/jinzhu/gorm"
)

// CatalogDocument is the raw, unresolved catalog as authored in a YAML file, the three
// XML files or the catalog tables.
type CatalogDocument struct {
	Ingredients []IngredientRecord `yaml:"ingredients" validate:"dive"`
	Recipes     []RecipeRecord     `yaml:"recipes" validate:"dive"`
	Foods       []FoodRecord       `yaml:"foods" validate:"dive"`
}

// IngredientRecord is one authored ingredient.
type IngredientRecord struct {
	gorm.Model        `yaml:"-" xml:"-"`
	IngredientID      string `gorm:"column:ingredient_id;unique_index" yaml:"id" xml:"ID,attr" validate:"required"`
	Name              string `yaml:"name" xml:"Name" validate:"required"`
	Type              string `yaml:"type" xml:"Type" validate:"required"`
	Station           string `yaml:"station" xml:"Station" validate:"required"`
	Keybind           string `yaml:"keybind" xml:"Keybind"`
	MutuallyExclusive bool   `yaml:"mutually_exclusive" xml:"MutuallyExclusive"`
	MaxPerOrder       int    `yaml:"max_per_order" xml:"MaxPerOrder" validate:"gte=0"`
}

// TableName sets the table name for IngredientRecord
func (IngredientRecord) TableName() string {
	return "catalog_ingredients"
}

// RecipeIngredientRecord is one (ingredient, amount, occurrence) line of a recipe.
type RecipeIngredientRecord struct {
	IngredientID string  `json:"ingredient_id" yaml:"ingredient_id" xml:"IngredientID" validate:"required"`
	Amount       int     `json:"amount" yaml:"amount" xml:"Amount" validate:"gte=0"`
	Occurrence   float64 `json:"occurrence" yaml:"occurrence" xml:"Occurrence" validate:"gte=0,lte=1"`
}

// RecipeRecord is one authored recipe. Its ingredient lines are stored as JSON text.
type RecipeRecord struct {
	gorm.Model      `yaml:"-" xml:"-"`
	RecipeID        string `gorm:"column:recipe_id;unique_index" yaml:"id" xml:"ID,attr" validate:"required"`
	Name            string `yaml:"name" xml:"Name" validate:"required"`
	Type            string `yaml:"type" xml:"Type" validate:"required"`
	IngredientsJSON string `gorm:"type:text" yaml:"-" xml:"-"`
	// Transient field (ignored by GORM)
	Ingredients []RecipeIngredientRecord `gorm:"-" yaml:"ingredients" xml:"Ingredients>Ingredient" validate:"dive"`
}

// TableName sets the table name for RecipeRecord
func (RecipeRecord) TableName() string {
	return "catalog_recipes"
}

// GetIngredients returns the deserialized ingredient lines
func (r *RecipeRecord) GetIngredients() ([]RecipeIngredientRecord, error) {
	if len(r.Ingredients) > 0 {
		return r.Ingredients, nil
	}
	var lines []RecipeIngredientRecord
	if r.IngredientsJSON == "" {
		return lines, nil
	}
	if err := json.Unmarshal([]byte(r.IngredientsJSON), &lines); err != nil {
		return nil, err
	}
	r.Ingredients = lines
	return lines, nil
}

// SetIngredients serializes the ingredient lines for storage
func (r *RecipeRecord) SetIngredients(lines []RecipeIngredientRecord) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	r.IngredientsJSON = string(data)
	r.Ingredients = lines
	return nil
}

// FoodRecord is one authored food group.
type FoodRecord struct {
	gorm.Model      `yaml:"-" xml:"-"`
	FoodID          string      `gorm:"column:food_id;unique_index" yaml:"id" xml:"ID,attr" validate:"required"`
	Type            string      `yaml:"type" xml:"Type" validate:"required,oneof=ENTREE SIDE DRINK"`
	IngredientTypes StringSlice `gorm:"type:text" yaml:"ingredients" xml:"Ingredients>Ingredient"`
	RecipeIDs       StringSlice `gorm:"type:text" yaml:"recipes" xml:"Recipes>RecipeID" validate:"min=1"`
}

// TableName sets the table name for FoodRecord
func (FoodRecord) TableName() string {
	return "catalog_foods"
}
