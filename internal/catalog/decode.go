package catalog

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shortorder/internal/models"
)

// Supported on-disk formats.
const (
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// File names of the three-file XML catalog.
const (
	IngredientsFile = "Ingredients.xml"
	RecipesFile     = "Recipes.xml"
	FoodsFile       = "Food.xml"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// The XML roots carry no XMLName so any root element name is accepted.
type xmlIngredients struct {
	Items []models.IngredientRecord `xml:"Ingredient"`
}

type xmlRecipes struct {
	Items []models.RecipeRecord `xml:"Recipe"`
}

type xmlFoods struct {
	Items []models.FoodRecord `xml:"Food"`
}

// DecodeYAML reads a single-document YAML catalog.
func DecodeYAML(r io.Reader) (*models.CatalogDocument, error) {
	var doc models.CatalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidRecord, err)
	}
	return &doc, nil
}

// DecodeXML reads the three XML catalog files.
func DecodeXML(ingredients, recipes, foods io.Reader) (*models.CatalogDocument, error) {
	var (
		ings xmlIngredients
		recs xmlRecipes
		fds  xmlFoods
	)
	parts := []struct {
		name string
		r    io.Reader
		v    interface{}
	}{
		{IngredientsFile, ingredients, &ings},
		{RecipesFile, recipes, &recs},
		{FoodsFile, foods, &fds},
	}
	for _, p := range parts {
		if err := xml.NewDecoder(p.r).Decode(p.v); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidRecord, p.name, err)
		}
	}

	doc := &models.CatalogDocument{
		Ingredients: ings.Items,
		Recipes:     recs.Items,
		Foods:       fds.Items,
	}
	for i := range doc.Ingredients {
		trimIngredient(&doc.Ingredients[i])
	}
	for i := range doc.Recipes {
		rec := &doc.Recipes[i]
		rec.RecipeID = strings.TrimSpace(rec.RecipeID)
		rec.Name = strings.TrimSpace(rec.Name)
		rec.Type = strings.TrimSpace(rec.Type)
		for j := range rec.Ingredients {
			rec.Ingredients[j].IngredientID = strings.TrimSpace(rec.Ingredients[j].IngredientID)
		}
	}
	for i := range doc.Foods {
		food := &doc.Foods[i]
		food.FoodID = strings.TrimSpace(food.FoodID)
		food.Type = strings.TrimSpace(food.Type)
		trimAll(food.IngredientTypes)
		trimAll(food.RecipeIDs)
	}
	return doc, nil
}

func trimAll(values []string) {
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
}

func trimIngredient(rec *models.IngredientRecord) {
	rec.IngredientID = strings.TrimSpace(rec.IngredientID)
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Type = strings.TrimSpace(rec.Type)
	rec.Station = strings.TrimSpace(rec.Station)
	rec.Keybind = strings.TrimSpace(rec.Keybind)
}

// LoadFile reads a catalog document from disk. For FormatYAML path names the file;
// for FormatXML it names the directory holding Ingredients.xml, Recipes.xml and Food.xml.
func LoadFile(path, format string) (*models.CatalogDocument, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return DecodeYAML(f)
	case FormatXML:
		var readers []io.Reader
		for _, name := range []string{IngredientsFile, RecipesFile, FoodsFile} {
			data, err := os.ReadFile(filepath.Join(path, name))
			if err != nil {
				return nil, fmt.Errorf("open catalog: %w", err)
			}
			readers = append(readers, bytes.NewReader(data))
		}
		return DecodeXML(readers[0], readers[1], readers[2])
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// DefaultDocument returns a fresh copy of the embedded sample catalog.
func DefaultDocument() (*models.CatalogDocument, error) {
	return DecodeYAML(bytes.NewReader(defaultCatalog))
}

// Default builds the embedded sample catalog.
func Default() (*Catalog, error) {
	doc, err := DefaultDocument()
	if err != nil {
		return nil, err
	}
	return Build(doc)
}
