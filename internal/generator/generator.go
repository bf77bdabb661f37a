// Package generator builds a simulated day's queue of customer orders from the catalog.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"shortorder/internal/catalog"
	"shortorder/internal/models"
)

// Rand is the random source used for every draw. *rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// Intn returns a uniform value in [0,n).
	Intn(n int) int
}

// FoodSource is the part of the catalog generation reads.
type FoodSource interface {
	FoodsByCourse(course models.Course) []*models.Food
}

// Config holds the generation constants.
type Config struct {
	MaxOrdersPerDay int
	MaxRequests     int
	SideChance      float64
	DrinkChance     float64
}

// DefaultConfig returns the stock day settings.
func DefaultConfig() Config {
	return Config{
		MaxOrdersPerDay: 100,
		MaxRequests:     3,
		SideChance:      0.85,
		DrinkChance:     0.85,
	}
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithSeed seeds a private math/rand source. Zero keeps the clock-seeded default.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// WithLogger sets the logger used for the per-day summary.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// Generator produces orders. It is not safe for concurrent use because the
// random source is not.
type Generator struct {
	foods FoodSource
	cfg   Config
	rand  Rand
	log   zerolog.Logger
}

// New creates a generator over the given foods.
func New(foods FoodSource, cfg Config, opts ...Option) *Generator {
	g := &Generator{
		foods: foods,
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateDayQueue returns exactly MaxOrdersPerDay orders in generation order. It fails
// before generating anything when a course has no food group to pick from.
func (g *Generator) GenerateDayQueue() ([]*models.Order, error) {
	for _, course := range models.Courses {
		if len(g.foods.FoodsByCourse(course)) == 0 {
			return nil, fmt.Errorf("generate day: %w: %s", catalog.ErrNoFoodForCourse, course)
		}
	}

	queue := make([]*models.Order, 0, g.cfg.MaxOrdersPerDay)
	var sides, drinks, requests int
	for i := 0; i < g.cfg.MaxOrdersPerDay; i++ {
		order, err := g.GenerateOrder()
		if err != nil {
			return nil, fmt.Errorf("generate order %d: %w", i, err)
		}
		if order.WantsSide {
			sides++
		}
		if order.WantsDrink {
			drinks++
		}
		for _, reqs := range order.Requests {
			requests += len(reqs)
		}
		queue = append(queue, order)
	}

	g.log.Info().
		Int("orders", len(queue)).
		Int("sides", sides).
		Int("drinks", drinks).
		Int("requests", requests).
		Msg("Generated day queue")
	return queue, nil
}

// GenerateOrder builds one order: a recipe per course, the side and drink want-flags,
// then the exclusion requests for every course.
func (g *Generator) GenerateOrder() (*models.Order, error) {
	picked := make(map[models.Course]*models.Recipe, len(models.Courses))
	for _, course := range models.Courses {
		recipe, err := g.pickRecipe(course)
		if err != nil {
			return nil, err
		}
		picked[course] = recipe
	}

	order := models.NewOrder(picked[models.CourseEntree], picked[models.CourseSide], picked[models.CourseDrink])

	sideValue := g.rand.Float64()
	drinkValue := g.rand.Float64()
	if sideValue > g.cfg.SideChance {
		order.WantsSide = false
	}
	if drinkValue > g.cfg.DrinkChance {
		order.WantsDrink = false
	}

	// Unwanted courses still draw requests from their nominal recipe.
	for _, course := range models.Courses {
		order.Requests[course] = g.pickRequests(picked[course])
	}
	return order, nil
}

// pickRecipe chooses a food group uniformly, then a recipe within it uniformly.
func (g *Generator) pickRecipe(course models.Course) (*models.Recipe, error) {
	foods := g.foods.FoodsByCourse(course)
	if len(foods) == 0 {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNoFoodForCourse, course)
	}
	food := foods[g.rand.Intn(len(foods))]
	if len(food.Recipes) == 0 {
		return nil, fmt.Errorf("%w: food %q has no recipes", catalog.ErrInvalidRecord, food.ID)
	}
	return food.Recipes[g.rand.Intn(len(food.Recipes))], nil
}

// pickRequests walks the recipe in authored order and flags each ingredient with
// probability 1-occurrence, keeping the first MaxRequests flagged.
func (g *Generator) pickRequests(recipe *models.Recipe) []models.Ingredient {
	requests := make([]models.Ingredient, 0, g.cfg.MaxRequests)
	for _, ing := range recipe.Ingredients {
		if len(requests) >= g.cfg.MaxRequests {
			break
		}
		if g.rand.Float64() > ing.Occurrence {
			requests = append(requests, ing)
		}
	}
	return requests
}
