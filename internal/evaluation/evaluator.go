// Package evaluation checks a player-assembled order against what the customer asked for
// and exports verdict metrics.
package evaluation

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"shortorder/internal/models"
)

// ErrCourseNotPopulated is returned when a wanted course has no request entry or no recipe.
var ErrCourseNotPopulated = errors.New("course not populated")

// Validator compares orders to their expanded recipes. It holds no per-order state and
// is safe for concurrent use.
type Validator struct {
	log zerolog.Logger
	now func() time.Time
}

// NewValidator creates a validator.
func NewValidator(log zerolog.Logger) *Validator {
	return &Validator{log: log, now: time.Now}
}

// Check reports per-course correctness. The entree is always checked; side and drink
// only when wanted. A mismatch is reported in the verdict, never as an error.
func (v *Validator) Check(order *models.Order) (*Verdict, error) {
	verdict := &Verdict{
		OrderID:   order.ID,
		Courses:   make([]CourseResult, 0, len(models.Courses)),
		CheckedAt: v.now(),
	}

	for _, course := range models.Courses {
		if !order.Wants(course) {
			verdict.Courses = append(verdict.Courses, CourseResult{Course: course, Correct: true})
			continue
		}

		result, err := CheckCourse(order, course)
		if err != nil {
			return nil, fmt.Errorf("check order %s: %w", order.ID, err)
		}
		verdict.Courses = append(verdict.Courses, result)
	}

	v.log.Debug().
		Str("order", order.ID).
		Bool("entree", verdict.EntreeCorrect()).
		Bool("side", verdict.SideCorrect()).
		Bool("drink", verdict.DrinkCorrect()).
		Msg("Checked order")
	return verdict, nil
}

// CheckCourse checks a single course regardless of whether the customer wanted it.
func CheckCourse(order *models.Order, course models.Course) (CourseResult, error) {
	if !course.Valid() {
		return CourseResult{}, fmt.Errorf("%w: %d", models.ErrInvalidCourse, int(course))
	}
	requests, ok := order.RequestsFor(course)
	if !ok {
		return CourseResult{}, fmt.Errorf("%w: no requests for %s", ErrCourseNotPopulated, course)
	}
	recipe := order.Recipe(course)
	if recipe == nil {
		return CourseResult{}, fmt.Errorf("%w: no recipe for %s", ErrCourseNotPopulated, course)
	}

	expected := ExpectedIngredients(recipe, requests)
	actual := order.Ingredients(course)
	missing, extra := Diff(expected, actual)

	return CourseResult{
		Course:     course,
		Applicable: true,
		Correct:    MatchIngredients(expected, actual),
		Missing:    missing,
		Extra:      extra,
	}, nil
}

// ExpectedIngredients expands the recipe by amount and removes the requested exclusions.
func ExpectedIngredients(recipe *models.Recipe, requests []models.Ingredient) []models.Ingredient {
	expanded := appendExpanded(make([]models.Ingredient, 0, recipe.ExpandedLen()), recipe.Ingredients)
	return ExcludeRequests(expanded, requests)
}

// ExpandIngredients repeats each ingredient Amount times.
func ExpandIngredients(ingredients []models.Ingredient) []models.Ingredient {
	return appendExpanded(nil, ingredients)
}

func appendExpanded(out, ingredients []models.Ingredient) []models.Ingredient {
	for _, ing := range ingredients {
		for i := 0; i < ing.Amount; i++ {
			out = append(out, ing)
		}
	}
	return out
}

// ExcludeRequests drops every entry whose ID appears in requests.
func ExcludeRequests(ingredients, requests []models.Ingredient) []models.Ingredient {
	excluded := make(map[string]struct{}, len(requests))
	for _, r := range requests {
		excluded[r.ID] = struct{}{}
	}
	out := make([]models.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := excluded[ing.ID]; !ok {
			out = append(out, ing)
		}
	}
	return out
}

// SortByType returns a copy sorted by ingredient type, then by ID within a type.
func SortByType(ingredients []models.Ingredient) []models.Ingredient {
	out := make([]models.Ingredient, len(ingredients))
	copy(out, ingredients)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MatchIngredients reports whether both lists hold the same IDs position by position
// once sorted by type.
func MatchIngredients(expected, actual []models.Ingredient) bool {
	if len(expected) != len(actual) {
		return false
	}
	want, got := SortByType(expected), SortByType(actual)
	for i := range want {
		if want[i].ID != got[i].ID {
			return false
		}
	}
	return true
}

// Diff returns the IDs expected but not added and the IDs added but not expected,
// counted as multisets and sorted.
func Diff(expected, actual []models.Ingredient) (missing, extra []string) {
	counts := make(map[string]int)
	for _, ing := range expected {
		counts[ing.ID]++
	}
	for _, ing := range actual {
		counts[ing.ID]--
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := counts[id]
		for ; n > 0; n-- {
			missing = append(missing, id)
		}
		for ; n < 0; n++ {
			extra = append(extra, id)
		}
	}
	return missing, extra
}
