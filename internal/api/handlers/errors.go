package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dam-price-predictor/internal/api/models"
	"dam-price-predictor/internal/config"
	"dam-price-predictor/internal/forecast"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/simulation"
	"dam-price-predictor/internal/store"
	"dam-price-predictor/internal/strategy"
)

// classify maps pipeline errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrEmptyHistory):
		return http.StatusBadRequest, "EMPTY_HISTORY"
	case errors.Is(err, model.ErrUnordered):
		return http.StatusBadRequest, "UNORDERED_HISTORY"
	case errors.Is(err, model.ErrInvalidPrice):
		return http.StatusBadRequest, "INVALID_PRICE"
	case errors.Is(err, forecast.ErrInvalidDays), errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest, "INVALID_CONFIG"
	case errors.Is(err, strategy.ErrNoForecasts):
		return http.StatusBadRequest, "NO_FORECASTS"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "CANCELED"
	case errors.Is(err, simulation.ErrNonFinite):
		return http.StatusUnprocessableEntity, "NON_FINITE_RESULT"
	default:
		return http.StatusInternalServerError, "SIMULATION_ERROR"
	}
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
