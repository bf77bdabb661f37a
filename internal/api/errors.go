package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortorder/internal/catalog"
	"shortorder/internal/evaluation"
	"shortorder/internal/kitchen"
	"shortorder/internal/models"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, kitchen.ErrNoSuchStation),
		errors.Is(err, catalog.ErrUnknownIngredient),
		errors.Is(err, catalog.ErrUnknownRecipe),
		errors.Is(err, catalog.ErrUnknownFood):
		return http.StatusNotFound
	case errors.Is(err, kitchen.ErrStationEmpty),
		errors.Is(err, kitchen.ErrOrderNotRead),
		errors.Is(err, kitchen.ErrCourseNotWanted),
		errors.Is(err, kitchen.ErrIngredientUnavailable):
		return http.StatusConflict
	case errors.Is(err, kitchen.ErrIngredientWrongStation),
		errors.Is(err, models.ErrInvalidCourse):
		return http.StatusBadRequest
	case errors.Is(err, evaluation.ErrCourseNotPopulated):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
