package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortorder/internal/models"
)

type foodView struct {
	ID              string        `json:"id"`
	Course          models.Course `json:"course"`
	IngredientTypes []string      `json:"ingredient_types"`
	Recipes         []string      `json:"recipes"`
}

type recipeView struct {
	*models.Recipe
	Card []string `json:"card"`
}

type addIngredientRequest struct {
	Course       models.Course `json:"course" binding:"required"`
	IngredientID string        `json:"ingredient_id" binding:"required"`
}

// Catalog handlers

func (s *Server) listIngredients(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Ingredients())
}

func (s *Server) getRecipe(c *gin.Context) {
	recipe, err := s.catalog.Recipe(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	card, err := s.catalog.RecipeCard(recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeView{Recipe: recipe, Card: card})
}

func (s *Server) listFoods(c *gin.Context) {
	foods := s.catalog.Foods()
	out := make([]foodView, 0, len(foods))
	for _, f := range foods {
		v := foodView{ID: f.ID, Course: f.Course, IngredientTypes: f.IngredientTypes}
		for _, r := range f.Recipes {
			v.Recipes = append(v.Recipes, r.ID)
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, out)
}

// Station handlers

func (s *Server) listStations(c *gin.Context) {
	c.JSON(http.StatusOK, s.kitchen.Stations())
}

func (s *Server) getStation(c *gin.Context) {
	number, ok := stationNumber(c)
	if !ok {
		return
	}
	view, err := s.kitchen.Station(number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) revealOrder(c *gin.Context) {
	number, ok := stationNumber(c)
	if !ok {
		return
	}
	tickets, err := s.kitchen.Reveal(number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": number, "tickets": tickets})
}

func (s *Server) stationMenu(c *gin.Context) {
	number, ok := stationNumber(c)
	if !ok {
		return
	}
	course, err := models.ParseCourse(c.DefaultQuery("course", "ENTREE"))
	if err != nil {
		respondError(c, err)
		return
	}
	menu, err := s.kitchen.Menu(number, course)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (s *Server) addIngredient(c *gin.Context) {
	number, ok := stationNumber(c)
	if !ok {
		return
	}
	var req addIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.kitchen.AddIngredient(number, req.Course, req.IngredientID); err != nil {
		respondError(c, err)
		return
	}
	view, err := s.kitchen.Station(number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) serveOrder(c *gin.Context) {
	number, ok := stationNumber(c)
	if !ok {
		return
	}
	verdict, err := s.kitchen.Serve(number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"verdict":        verdict,
		"all_correct":    verdict.AllCorrect(),
		"entree_correct": verdict.EntreeCorrect(),
		"side_correct":   verdict.SideCorrect(),
		"drink_correct":  verdict.DrinkCorrect(),
	})
}

// Day handlers

func (s *Server) getQueue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pending": s.kitchen.Pending(), "available": s.kitchen.Available()})
}

func (s *Server) getScoreboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Scoreboard())
}

func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}

func stationNumber(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid station number %q", c.Param("number"))})
		return 0, false
	}
	return number, true
}
