package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Order is one customer's order and the ingredients the player has assembled for it.
//
// The addition counters and the added-type set are derived from the per-course
// ingredient lists. They only grow, and only through AddIngredient, so they always
// agree with the lists they summarize (see DeriveTracking).
type Order struct {
	ID     string
	Entree *Recipe
	Side   *Recipe
	Drink  *Recipe

	// Requests maps each course to the ingredients the customer wants left out.
	Requests map[Course][]Ingredient

	IsRead     bool
	WantsSide  bool
	WantsDrink bool

	courses    map[Course]*courseState
	addedTypes map[string]struct{}
}

type courseState struct {
	ingredients []Ingredient
	additions   map[string]int
}

// NewOrder creates an order for the three recipes. Side and drink are wanted by default.
func NewOrder(entree, side, drink *Recipe) *Order {
	o := &Order{
		ID:         uuid.NewString(),
		Entree:     entree,
		Side:       side,
		Drink:      drink,
		Requests:   make(map[Course][]Ingredient),
		WantsSide:  true,
		WantsDrink: true,
		courses:    make(map[Course]*courseState, len(Courses)),
		addedTypes: make(map[string]struct{}),
	}
	for _, c := range Courses {
		o.courses[c] = &courseState{additions: make(map[string]int)}
	}
	return o
}

// Recipe returns the recipe chosen for the course, or nil for an invalid course.
func (o *Order) Recipe(course Course) *Recipe {
	switch course {
	case CourseEntree:
		return o.Entree
	case CourseSide:
		return o.Side
	case CourseDrink:
		return o.Drink
	}
	return nil
}

// Wants reports whether the customer asked for the course. The entree is always wanted.
func (o *Order) Wants(course Course) bool {
	switch course {
	case CourseEntree:
		return true
	case CourseSide:
		return o.WantsSide
	case CourseDrink:
		return o.WantsDrink
	}
	return false
}

// RequestsFor returns the exclusion requests for a course and whether the course was populated.
func (o *Order) RequestsFor(course Course) ([]Ingredient, bool) {
	reqs, ok := o.Requests[course]
	return reqs, ok
}

// AddIngredient appends the ingredient to the course and updates the derived counters.
// The addition counter for the ingredient name saturates at MaxPerOrder; callers are
// expected to consult IngredientAtMax or CanAdd first.
func (o *Order) AddIngredient(ingredient Ingredient, course Course) error {
	state, ok := o.courses[course]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidCourse, int(course))
	}

	state.ingredients = append(state.ingredients, ingredient)
	incrementAddition(state.additions, ingredient)
	o.addedTypes[ingredient.Type] = struct{}{}
	return nil
}

func incrementAddition(additions map[string]int, ingredient Ingredient) {
	count, ok := additions[ingredient.Name]
	if !ok {
		additions[ingredient.Name] = 1
		return
	}
	if count < ingredient.MaxPerOrder {
		additions[ingredient.Name] = count + 1
	}
}

// IngredientAtMax reports whether the course already holds MaxPerOrder units of the ingredient name.
func (o *Order) IngredientAtMax(ingredient Ingredient, course Course) bool {
	state, ok := o.courses[course]
	if !ok {
		return false
	}
	count, ok := state.additions[ingredient.Name]
	return ok && count >= ingredient.MaxPerOrder
}

// HasType reports whether any course of the order holds an ingredient of the given type.
func (o *Order) HasType(ingredientType string) bool {
	_, ok := o.addedTypes[ingredientType]
	return ok
}

// ContainsIngredient reports whether the ingredient name was ever added to the course.
func (o *Order) ContainsIngredient(ingredient Ingredient, course Course) bool {
	state, ok := o.courses[course]
	if !ok {
		return false
	}
	_, ok = state.additions[ingredient.Name]
	return ok
}

// CanAdd reports whether the ingredient may still be offered for the course: a mutually
// exclusive ingredient whose type is already in the order is unavailable, and so is one
// at its per-course cap.
func (o *Order) CanAdd(ingredient Ingredient, course Course) bool {
	if ingredient.MutuallyExclusive && o.HasType(ingredient.Type) {
		return false
	}
	return !o.IngredientAtMax(ingredient, course)
}

// Ingredients returns a copy of the ingredients added to the course in insertion order.
func (o *Order) Ingredients(course Course) []Ingredient {
	state, ok := o.courses[course]
	if !ok {
		return nil
	}
	out := make([]Ingredient, len(state.ingredients))
	copy(out, state.ingredients)
	return out
}

// Additions returns a copy of the per-name addition counters for the course.
func (o *Order) Additions(course Course) map[string]int {
	out := make(map[string]int)
	state, ok := o.courses[course]
	if !ok {
		return out
	}
	for name, n := range state.additions {
		out[name] = n
	}
	return out
}

// AddedTypes returns the ingredient types added anywhere in the order, sorted.
func (o *Order) AddedTypes() []string {
	types := make([]string, 0, len(o.addedTypes))
	for t := range o.addedTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Tracking is the derived view of an order's ingredient lists.
type Tracking struct {
	Additions  map[Course]map[string]int
	AddedTypes map[string]struct{}
}

// DeriveTracking recomputes addition counters and added types from per-course ingredient
// lists, replaying them in insertion order with the same saturation rule AddIngredient uses.
func DeriveTracking(lists map[Course][]Ingredient) Tracking {
	t := Tracking{
		Additions:  make(map[Course]map[string]int, len(Courses)),
		AddedTypes: make(map[string]struct{}),
	}
	for _, c := range Courses {
		additions := make(map[string]int)
		for _, ing := range lists[c] {
			incrementAddition(additions, ing)
			t.AddedTypes[ing.Type] = struct{}{}
		}
		t.Additions[c] = additions
	}
	return t
}

// Consistent reports whether the cached counters and types match a fresh derivation.
func (o *Order) Consistent() bool {
	lists := make(map[Course][]Ingredient, len(Courses))
	for _, c := range Courses {
		lists[c] = o.courses[c].ingredients
	}
	derived := DeriveTracking(lists)

	if len(derived.AddedTypes) != len(o.addedTypes) {
		return false
	}
	for t := range derived.AddedTypes {
		if _, ok := o.addedTypes[t]; !ok {
			return false
		}
	}
	for _, c := range Courses {
		want, got := derived.Additions[c], o.courses[c].additions
		if len(want) != len(got) {
			return false
		}
		for name, n := range want {
			if got[name] != n {
				return false
			}
		}
	}
	return true
}

// Ticket is the text shown for one course of an order once it has been read.
type Ticket struct {
	Course   Course `json:"course"`
	Recipe   string `json:"recipe"`
	Requests string `json:"requests"`
	Wanted   bool   `json:"wanted"`
}

// Ticket builds the ticket for a course. Unwanted courses read NO SIDE / NO DRINK.
func (o *Order) Ticket(course Course) Ticket {
	t := Ticket{Course: course, Wanted: o.Wants(course)}
	if !t.Wanted {
		t.Recipe = "NO " + course.String()
		return t
	}
	if r := o.Recipe(course); r != nil {
		t.Recipe = r.Name
	}

	reqs := o.Requests[course]
	if len(reqs) == 0 {
		return t
	}
	names := make([]string, len(reqs))
	for i, ing := range reqs {
		names[i] = strings.ToUpper(ing.Name)
	}
	t.Requests = "NO " + strings.Join(names, ", ")
	return t
}

// Tickets returns the ticket of every course in course order.
func (o *Order) Tickets() []Ticket {
	out := make([]Ticket, 0, len(Courses))
	for _, c := range Courses {
		out = append(out, o.Ticket(c))
	}
	return out
}
