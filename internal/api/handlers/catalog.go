package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dam-price-predictor/internal/api/models"
	"dam-price-predictor/internal/scoring"
)

// ListModels handles GET /api/v1/models
func ListModels(c *gin.Context) {
	catalog := scoring.Catalog()
	out := make([]models.ModelInfo, len(catalog))
	for i, m := range catalog {
		out[i] = models.ModelInfo{Name: m.Name, Color: m.Color, Category: m.Category}
	}
	c.JSON(http.StatusOK, models.ModelsResponse{
		Models:      out,
		BasePenalty: scoring.BasePenalty,
		MinPenalty:  scoring.PenaltyFloor,
	})
}
