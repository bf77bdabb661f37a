// Package api exposes the kitchen over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shortorder/internal/evaluation"
	"shortorder/internal/kitchen"
	"shortorder/internal/models"
	"shortorder/internal/monitoring"
)

// Catalog is the read side of the catalog served under /api/v1/catalog.
type Catalog interface {
	Ingredients() []models.Ingredient
	Recipe(id string) (*models.Recipe, error)
	Foods() []*models.Food
	RecipeCard(recipe *models.Recipe) ([]string, error)
}

// Kitchen is the kitchen floor the station routes drive.
type Kitchen interface {
	Stations() []kitchen.StationView
	Station(number int) (kitchen.StationView, error)
	Reveal(number int) ([]models.Ticket, error)
	Menu(number int, course models.Course) ([]kitchen.Availability, error)
	AddIngredient(number int, course models.Course, ingredientID string) error
	Serve(number int) (*evaluation.Verdict, error)
	Pending() int
	Available() []int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and websocket logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithJWTSecret protects /api/v1 with HS256 bearer tokens signed by secret.
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		s.jwtSecret = secret
	}
}

// WithMonitor serves the monitor's scoreboard on /api/v1/scoreboard.
func WithMonitor(m *monitoring.Monitor) Option {
	return func(s *Server) {
		s.monitor = m
	}
}

// WithHub streams kitchen events on /ws.
func WithHub(h *Hub) Option {
	return func(s *Server) {
		s.hub = h
	}
}

// Server handles the kitchen API
type Server struct {
	router    *gin.Engine
	catalog   Catalog
	kitchen   Kitchen
	monitor   *monitoring.Monitor
	hub       *Hub
	jwtSecret string
	log       zerolog.Logger
}

// NewServer creates a new API server instance
func NewServer(cat Catalog, k Kitchen, opts ...Option) *Server {
	s := &Server{
		catalog: cat,
		kitchen: k,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.monitor == nil {
		s.monitor = monitoring.NewMonitor()
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), RequestLogger(s.log))
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "pending": s.kitchen.Pending()})
	})

	if s.hub != nil {
		s.router.GET("/ws", s.hub.ServeWS)
	}

	v1 := s.router.Group("/api/v1")
	if s.jwtSecret != "" {
		v1.Use(AuthMiddleware(s.jwtSecret))
	}
	{
		// Catalog
		v1.GET("/catalog/ingredients", s.listIngredients)
		v1.GET("/catalog/recipes/:id", s.getRecipe)
		v1.GET("/catalog/foods", s.listFoods)

		// Kitchen floor
		v1.GET("/stations", s.listStations)
		v1.GET("/stations/:number", s.getStation)
		v1.POST("/stations/:number/reveal", s.revealOrder)
		v1.GET("/stations/:number/ingredients", s.stationMenu)
		v1.POST("/stations/:number/ingredients", s.addIngredient)
		v1.POST("/stations/:number/serve", s.serveOrder)

		v1.GET("/queue", s.getQueue)
		v1.GET("/scoreboard", s.getScoreboard)
		v1.GET("/metrics", s.getMetrics)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
