package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dam-price-predictor/internal/api/models"
	"dam-price-predictor/internal/strategy"
)

// StrategyHandler builds procurement strategies from arbitrary forecasts
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// BuildStrategy handles POST /api/v1/strategy
func (h *StrategyHandler) BuildStrategy(c *gin.Context) {
	var req models.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	s, err := strategy.Build(req.Forecasts)
	if err != nil {
		status, code := classify(err)
		respondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusOK, models.StrategyResponse{Strategy: s})
}
