package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCourse is returned when a course value falls outside Entree, Side and Drink.
var ErrInvalidCourse = errors.New("invalid course")

// Course identifies one segment of an order. The zero value is not a valid course.
type Course int

const (
	CourseEntree Course = iota + 1
	CourseSide
	CourseDrink
)

// Courses lists every course in generation and validation order.
var Courses = []Course{CourseEntree, CourseSide, CourseDrink}

// String returns the catalog spelling of the course.
func (c Course) String() string {
	switch c {
	case CourseEntree:
		return "ENTREE"
	case CourseSide:
		return "SIDE"
	case CourseDrink:
		return "DRINK"
	default:
		return fmt.Sprintf("Course(%d)", int(c))
	}
}

// Valid reports whether c is one of the three courses.
func (c Course) Valid() bool {
	return c == CourseEntree || c == CourseSide || c == CourseDrink
}

// ParseCourse converts catalog text (ENTREE, SIDE, DRINK) into a Course.
// Matching is case-insensitive.
func ParseCourse(s string) (Course, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ENTREE":
		return CourseEntree, nil
	case "SIDE":
		return CourseSide, nil
	case "DRINK":
		return CourseDrink, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCourse, s)
}

// MarshalText implements encoding.TextMarshaler so courses serialize by name.
func (c Course) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCourse, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Course) UnmarshalText(text []byte) error {
	parsed, err := ParseCourse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Food is a group of recipes served as one course, e.g. burgers or fries.
type Food struct {
	ID     string
	Course Course
	// IngredientTypes controls the order ingredient types are listed on recipe cards
	// and ingredient pages.
	IngredientTypes []string
	Recipes         []*Recipe
}

// HasIngredientType checks if the food group lists the given ingredient type
func (f *Food) HasIngredientType(ingredientType string) bool {
	for _, t := range f.IngredientTypes {
		if t == ingredientType {
			return true
		}
	}
	return false
}
