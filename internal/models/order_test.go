package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ketchup = Ingredient{ID: "ketchup", Name: "Ketchup", Type: "SAUCE", Station: StationTopping, MutuallyExclusive: true, MaxPerOrder: 1}
	mustard = Ingredient{ID: "mustard", Name: "Mustard", Type: "SAUCE", Station: StationTopping, MutuallyExclusive: true, MaxPerOrder: 1}
	pickle  = Ingredient{ID: "pickle", Name: "Pickle", Type: "TOPPING", Station: StationTopping, MaxPerOrder: 3}
	ice     = Ingredient{ID: "ice", Name: "Ice", Type: "ICE", Station: StationDrink, MaxPerOrder: 2}
)

func newTestOrder() *Order {
	return NewOrder(&Recipe{ID: "burger"}, &Recipe{ID: "fries"}, &Recipe{ID: "cola"})
}

func TestNewOrderDefaults(t *testing.T) {
	o := newTestOrder()

	assert.NotEmpty(t, o.ID)
	assert.True(t, o.WantsSide)
	assert.True(t, o.WantsDrink)
	assert.False(t, o.IsRead)
	assert.Empty(t, o.Requests)
	for _, c := range Courses {
		assert.Empty(t, o.Ingredients(c))
		assert.Empty(t, o.Additions(c))
	}
	assert.Equal(t, "burger", o.Recipe(CourseEntree).ID)
	assert.Equal(t, "fries", o.Recipe(CourseSide).ID)
	assert.Equal(t, "cola", o.Recipe(CourseDrink).ID)
	assert.Nil(t, o.Recipe(Course(0)))
}

func TestAddIngredientTracksListCounterAndType(t *testing.T) {
	o := newTestOrder()

	require.NoError(t, o.AddIngredient(pickle, CourseEntree))
	require.NoError(t, o.AddIngredient(pickle, CourseEntree))

	assert.Equal(t, []Ingredient{pickle, pickle}, o.Ingredients(CourseEntree))
	assert.Equal(t, map[string]int{"Pickle": 2}, o.Additions(CourseEntree))
	assert.True(t, o.HasType("TOPPING"))
	assert.True(t, o.ContainsIngredient(pickle, CourseEntree))
	assert.False(t, o.ContainsIngredient(pickle, CourseSide))
	assert.True(t, o.Consistent())
}

func TestAddIngredientRejectsInvalidCourse(t *testing.T) {
	o := newTestOrder()

	err := o.AddIngredient(pickle, Course(7))
	assert.ErrorIs(t, err, ErrInvalidCourse)
	assert.False(t, o.HasType("TOPPING"))
}

func TestCounterSaturatesAtMaxPerOrder(t *testing.T) {
	o := newTestOrder()

	for i := 0; i < pickle.MaxPerOrder; i++ {
		assert.False(t, o.IngredientAtMax(pickle, CourseEntree), "addition %d", i)
		require.NoError(t, o.AddIngredient(pickle, CourseEntree))
	}
	assert.True(t, o.IngredientAtMax(pickle, CourseEntree))

	require.NoError(t, o.AddIngredient(pickle, CourseEntree))
	assert.Equal(t, pickle.MaxPerOrder, o.Additions(CourseEntree)["Pickle"])
	assert.Len(t, o.Ingredients(CourseEntree), pickle.MaxPerOrder+1)
	assert.True(t, o.Consistent())
}

func TestIngredientAtMaxIsIdempotent(t *testing.T) {
	o := newTestOrder()
	require.NoError(t, o.AddIngredient(ice, CourseDrink))

	first := o.IngredientAtMax(ice, CourseDrink)
	second := o.IngredientAtMax(ice, CourseDrink)
	assert.Equal(t, first, second)
	assert.False(t, first)
}

func TestCountersArePerCourse(t *testing.T) {
	o := newTestOrder()
	require.NoError(t, o.AddIngredient(ice, CourseDrink))
	require.NoError(t, o.AddIngredient(ice, CourseDrink))

	assert.True(t, o.IngredientAtMax(ice, CourseDrink))
	assert.False(t, o.IngredientAtMax(ice, CourseSide))
}

func TestHasTypeIsGlobalAcrossCourses(t *testing.T) {
	o := newTestOrder()
	require.NoError(t, o.AddIngredient(ketchup, CourseSide))

	assert.True(t, o.HasType("SAUCE"))
	assert.False(t, o.CanAdd(mustard, CourseEntree))
	assert.False(t, o.CanAdd(ketchup, CourseDrink))
	assert.True(t, o.CanAdd(pickle, CourseEntree))

	require.NoError(t, o.AddIngredient(ice, CourseDrink))
	assert.True(t, o.HasType("SAUCE"))
}

func TestCanAddHonorsCap(t *testing.T) {
	o := newTestOrder()
	require.NoError(t, o.AddIngredient(ice, CourseDrink))
	assert.True(t, o.CanAdd(ice, CourseDrink))

	require.NoError(t, o.AddIngredient(ice, CourseDrink))
	assert.False(t, o.CanAdd(ice, CourseDrink))
}

func TestDeriveTrackingMatchesReplay(t *testing.T) {
	lists := map[Course][]Ingredient{
		CourseEntree: {pickle, pickle, pickle, pickle, ketchup},
		CourseDrink:  {ice},
	}

	tracking := DeriveTracking(lists)

	assert.Equal(t, map[string]int{"Pickle": 3, "Ketchup": 1}, tracking.Additions[CourseEntree])
	assert.Empty(t, tracking.Additions[CourseSide])
	assert.Equal(t, map[string]int{"Ice": 1}, tracking.Additions[CourseDrink])
	assert.Len(t, tracking.AddedTypes, 3)
}

func TestZeroCapStillRecordsFirstAddition(t *testing.T) {
	o := newTestOrder()
	capped := Ingredient{ID: "x", Name: "X", Type: "T", MaxPerOrder: 0}

	require.NoError(t, o.AddIngredient(capped, CourseEntree))
	require.NoError(t, o.AddIngredient(capped, CourseEntree))

	assert.Equal(t, 1, o.Additions(CourseEntree)["X"])
	assert.True(t, o.IngredientAtMax(capped, CourseEntree))
	assert.True(t, o.Consistent())
}

func TestTicket(t *testing.T) {
	o := NewOrder(&Recipe{Name: "Classic Burger"}, &Recipe{Name: "Fries"}, &Recipe{Name: "Cola"})
	o.Requests[CourseEntree] = []Ingredient{pickle, ketchup}
	o.Requests[CourseSide] = nil
	o.WantsDrink = false

	assert.Equal(t, Ticket{Course: CourseEntree, Recipe: "Classic Burger", Requests: "NO PICKLE, KETCHUP", Wanted: true}, o.Ticket(CourseEntree))
	assert.Equal(t, Ticket{Course: CourseSide, Recipe: "Fries", Wanted: true}, o.Ticket(CourseSide))
	assert.Equal(t, Ticket{Course: CourseDrink, Recipe: "NO DRINK"}, o.Ticket(CourseDrink))

	all := o.Tickets()
	require.Len(t, all, 3)
	for i, c := range Courses {
		assert.Equal(t, o.Ticket(c), all[i])
	}
}

func TestRecipeExpandedLen(t *testing.T) {
	r := &Recipe{Ingredients: []Ingredient{
		{ID: "patty", Amount: 2},
		{ID: "bun", Amount: 1},
		{ID: "onion", Amount: 0},
	}}
	assert.Equal(t, 3, r.ExpandedLen())
	assert.Zero(t, (&Recipe{}).ExpandedLen())
}

func TestFoodHasIngredientType(t *testing.T) {
	f := &Food{IngredientTypes: []string{"BUN", "PATTY"}}
	assert.True(t, f.HasIngredientType("PATTY"))
	assert.False(t, f.HasIngredientType("SAUCE"))
}

func TestParseCourse(t *testing.T) {
	tests := []struct {
		in      string
		want    Course
		wantErr bool
	}{
		{"ENTREE", CourseEntree, false},
		{"side", CourseSide, false},
		{" Drink ", CourseDrink, false},
		{"DESSERT", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseCourse(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidCourse, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestCourseForStation(t *testing.T) {
	c, ok := CourseForStation(StationTopping)
	assert.True(t, ok)
	assert.Equal(t, CourseEntree, c)

	c, ok = CourseForStation(StationSides)
	assert.True(t, ok)
	assert.Equal(t, CourseSide, c)

	_, ok = CourseForStation(StationPrep)
	assert.False(t, ok)
}
