// Package catalog resolves authored ingredient, recipe and food records into the
// read-only reference data that order generation and validation run against.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"shortorder/internal/models"
)

// Configuration errors. Any of these aborts startup.
var (
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrUnknownRecipe     = errors.New("unknown recipe")
	ErrUnknownFood       = errors.New("unknown food")
	ErrNoFoodForCourse   = errors.New("no food group for course")
	ErrInvalidRecord     = errors.New("invalid catalog record")
)

type stationKey struct {
	station string
	typ     string
}

// Catalog is fully resolved reference data. It is immutable after Build and safe
// for concurrent readers.
type Catalog struct {
	ingredients     map[string]models.Ingredient
	ingredientOrder []string
	recipes         map[string]*models.Recipe
	recipeOrder     []string
	foods           map[string]*models.Food
	foodOrder       []string
	types           map[string]struct{}
	byStation       map[stationKey][]models.Ingredient
}

// Build validates a document and resolves every cross reference. A recipe line
// referencing a missing ingredient, a food group referencing a missing recipe or a
// recipe whose type names no food group is a configuration error.
func Build(doc *models.CatalogDocument) (*Catalog, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	c := &Catalog{
		ingredients: make(map[string]models.Ingredient, len(doc.Ingredients)),
		recipes:     make(map[string]*models.Recipe, len(doc.Recipes)),
		foods:       make(map[string]*models.Food, len(doc.Foods)),
		types:       make(map[string]struct{}),
		byStation:   make(map[stationKey][]models.Ingredient),
	}

	for _, rec := range doc.Ingredients {
		if _, dup := c.ingredients[rec.IngredientID]; dup {
			return nil, fmt.Errorf("%w: duplicate ingredient %q", ErrInvalidRecord, rec.IngredientID)
		}
		ing := models.Ingredient{
			ID:                rec.IngredientID,
			Name:              rec.Name,
			Type:              rec.Type,
			Station:           rec.Station,
			Keybind:           rec.Keybind,
			MutuallyExclusive: rec.MutuallyExclusive,
			MaxPerOrder:       rec.MaxPerOrder,
		}
		c.ingredients[ing.ID] = ing
		c.ingredientOrder = append(c.ingredientOrder, ing.ID)
		c.types[ing.Type] = struct{}{}

		key := stationKey{station: ing.Station, typ: ing.Type}
		c.byStation[key] = append(c.byStation[key], ing)
	}
	for key := range c.byStation {
		list := c.byStation[key]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}

	for i := range doc.Recipes {
		rec := &doc.Recipes[i]
		if _, dup := c.recipes[rec.RecipeID]; dup {
			return nil, fmt.Errorf("%w: duplicate recipe %q", ErrInvalidRecord, rec.RecipeID)
		}
		lines, err := rec.GetIngredients()
		if err != nil {
			return nil, fmt.Errorf("%w: recipe %q ingredients: %v", ErrInvalidRecord, rec.RecipeID, err)
		}

		recipe := &models.Recipe{ID: rec.RecipeID, Name: rec.Name, Type: rec.Type}
		for _, line := range lines {
			base, ok := c.ingredients[line.IngredientID]
			if !ok {
				return nil, fmt.Errorf("%w: %q in recipe %q", ErrUnknownIngredient, line.IngredientID, rec.RecipeID)
			}
			// Recipe lines inherit every catalog attribute and carry their own quantity and occurrence.
			base.Amount = line.Amount
			base.Occurrence = line.Occurrence
			recipe.Ingredients = append(recipe.Ingredients, base)
		}
		c.recipes[recipe.ID] = recipe
		c.recipeOrder = append(c.recipeOrder, recipe.ID)
	}

	for _, rec := range doc.Foods {
		if _, dup := c.foods[rec.FoodID]; dup {
			return nil, fmt.Errorf("%w: duplicate food %q", ErrInvalidRecord, rec.FoodID)
		}
		course, err := models.ParseCourse(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: food %q: %v", ErrInvalidRecord, rec.FoodID, err)
		}
		food := &models.Food{
			ID:              rec.FoodID,
			Course:          course,
			IngredientTypes: append([]string(nil), rec.IngredientTypes...),
		}
		for _, id := range rec.RecipeIDs {
			recipe, ok := c.recipes[id]
			if !ok {
				return nil, fmt.Errorf("%w: %q in food %q", ErrUnknownRecipe, id, rec.FoodID)
			}
			food.Recipes = append(food.Recipes, recipe)
		}
		c.foods[food.ID] = food
		c.foodOrder = append(c.foodOrder, food.ID)
	}

	for _, id := range c.recipeOrder {
		recipe := c.recipes[id]
		if _, ok := c.foods[recipe.Type]; !ok {
			return nil, fmt.Errorf("%w: %q is the type of recipe %q", ErrUnknownFood, recipe.Type, recipe.ID)
		}
	}

	return c, nil
}

// Ingredient returns the catalog ingredient with the given ID.
func (c *Catalog) Ingredient(id string) (models.Ingredient, error) {
	ing, ok := c.ingredients[id]
	if !ok {
		return models.Ingredient{}, fmt.Errorf("%w: %q", ErrUnknownIngredient, id)
	}
	return ing, nil
}

// Ingredients returns all catalog ingredients in authored order.
func (c *Catalog) Ingredients() []models.Ingredient {
	out := make([]models.Ingredient, 0, len(c.ingredientOrder))
	for _, id := range c.ingredientOrder {
		out = append(out, c.ingredients[id])
	}
	return out
}

// Recipe returns the recipe with the given ID. The returned recipe must not be modified.
func (c *Catalog) Recipe(id string) (*models.Recipe, error) {
	r, ok := c.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecipe, id)
	}
	return r, nil
}

// Food returns the food group with the given ID.
func (c *Catalog) Food(id string) (*models.Food, error) {
	f, ok := c.foods[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFood, id)
	}
	return f, nil
}

// Foods returns every food group in authored order.
func (c *Catalog) Foods() []*models.Food {
	out := make([]*models.Food, 0, len(c.foodOrder))
	for _, id := range c.foodOrder {
		out = append(out, c.foods[id])
	}
	return out
}

// FoodsByCourse returns the food groups serving the course, in authored order.
func (c *Catalog) FoodsByCourse(course models.Course) []*models.Food {
	var out []*models.Food
	for _, id := range c.foodOrder {
		if f := c.foods[id]; f.Course == course {
			out = append(out, f)
		}
	}
	return out
}

// IngredientTypes returns every ingredient type in the catalog, sorted.
func (c *Catalog) IngredientTypes() []string {
	out := make([]string, 0, len(c.types))
	for t := range c.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IngredientsAt returns the ingredients of one type placed at a station, sorted by name.
func (c *Catalog) IngredientsAt(station, ingredientType string) []models.Ingredient {
	list := c.byStation[stationKey{station: station, typ: ingredientType}]
	return append([]models.Ingredient(nil), list...)
}

// FoodForRecipe returns the food group named by the recipe's type.
func (c *Catalog) FoodForRecipe(recipe *models.Recipe) (*models.Food, error) {
	return c.Food(recipe.Type)
}

// RequireCourses checks that every course has at least one food group to pick from.
func (c *Catalog) RequireCourses() error {
	for _, course := range models.Courses {
		if len(c.FoodsByCourse(course)) == 0 {
			return fmt.Errorf("%w: %s", ErrNoFoodForCourse, course)
		}
	}
	return nil
}

// RecipeCard renders a recipe as instruction lines, one per ingredient type, in the
// order the recipe's food group lists its types. Ingredients of a type the group
// does not list follow on their own lines.
func (c *Catalog) RecipeCard(recipe *models.Recipe) ([]string, error) {
	food, err := c.FoodForRecipe(recipe)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, ingredientType := range food.IngredientTypes {
		var parts []string
		for _, ing := range recipe.Ingredients {
			if ing.Type == ingredientType {
				parts = append(parts, cardPart(ing))
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, ", "))
		}
	}
	for _, ing := range recipe.Ingredients {
		if !food.HasIngredientType(ing.Type) {
			lines = append(lines, cardPart(ing))
		}
	}
	return lines, nil
}

func cardPart(ing models.Ingredient) string {
	name := strings.ToUpper(ing.Name)
	switch {
	case ing.Type == "BUN":
		return "SANDWICHED BETWEEN A " + name
	case ing.Amount > 1:
		return "(" + strconv.Itoa(ing.Amount) + ") " + name
	default:
		return name
	}
}
