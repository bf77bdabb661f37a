package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Ingredient is immutable reference data describing one thing a player can add to a course.
// Inside a Recipe, Amount and Occurrence carry the recipe's authored values.
type Ingredient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Station string `json:"station"`
	Keybind string `json:"keybind"`
	// Amount is how many units a recipe requires.
	Amount int `json:"amount"`
	// Occurrence is the 0.0-1.0 chance the ingredient is left in a generated order unmodified.
	Occurrence float64 `json:"occurrence"`
	// MutuallyExclusive allows at most one ingredient of this Type per order.
	MutuallyExclusive bool `json:"mutually_exclusive"`
	// MaxPerOrder caps how many units of this ingredient name a single course may hold.
	MaxPerOrder int `json:"max_per_order"`
}

// Recipe is an ordered list of ingredient quantities.
type Recipe struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Type names the Food group the recipe belongs to.
	Type        string       `json:"type"`
	Ingredients []Ingredient `json:"ingredients"`
}

// ExpandedLen returns the number of units the recipe requires across all ingredients.
func (r *Recipe) ExpandedLen() int {
	n := 0
	for _, ing := range r.Ingredients {
		n += ing.Amount
	}
	return n
}
