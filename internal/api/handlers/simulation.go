package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dam-price-predictor/internal/api/models"
	"dam-price-predictor/internal/backtest"
	"dam-price-predictor/internal/config"
	"dam-price-predictor/internal/data"
	"dam-price-predictor/internal/forecast"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/simulation"
	"dam-price-predictor/internal/store"
)

// SimulationHandler handles simulation runs and stored results
type SimulationHandler struct {
	runner   *simulation.Runner
	store    store.Store
	defaults config.SimulationConfig
	log      zerolog.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(runner *simulation.Runner, st store.Store, defaults config.SimulationConfig, log zerolog.Logger) *SimulationHandler {
	return &SimulationHandler{
		runner:   runner,
		store:    st,
		defaults: defaults,
		log:      log.With().Str("handler", "simulation").Logger(),
	}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg := config.MergeSimulation(h.defaults, config.SimulationConfig{
		ForecastDays:    req.Config.ForecastDays,
		ConfidenceLevel: req.Config.ConfidenceLevel,
		PlotInterval:    req.Config.PlotInterval,
	})
	if err := cfg.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	history, err := data.Normalize(req.Observations)
	if err != nil {
		status, code := classify(err)
		if status == http.StatusInternalServerError {
			status, code = http.StatusBadRequest, "INVALID_OBSERVATIONS"
		}
		respondError(c, status, code, err)
		return
	}

	res, err := h.runner.Run(c.Request.Context(), history, simulation.Options{
		ForecastDays:    cfg.ForecastDays,
		ConfidenceLevel: cfg.ConfidenceLevel,
	})
	if err != nil {
		status, code := classify(err)
		respondError(c, status, code, err)
		return
	}

	rec := &store.Record{
		ID:           store.NewID(),
		CreatedAt:    time.Now().UTC(),
		PlotInterval: cfg.PlotInterval,
		Result:       res,
	}
	if err := h.store.Save(c.Request.Context(), rec); err != nil {
		h.log.Error().Err(err).Str("id", rec.ID).Msg("failed to store run")
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", err)
		return
	}

	c.JSON(http.StatusOK, buildSimulationResponse(rec, req.Options))
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.RunResponse{
		ID:           rec.ID,
		CreatedAt:    rec.CreatedAt,
		PlotInterval: rec.PlotInterval,
		Result:       rec.Result,
	})
}

// GetForecast handles GET /api/v1/simulations/:id/forecast
// ?format=csv returns the forecast as a CSV download.
func (h *SimulationHandler) GetForecast(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="forecast-`+rec.ID+`.csv"`)
		c.Status(http.StatusOK)
		if err := forecast.EncodeCSV(c.Writer, rec.Result.Forecasts); err != nil {
			h.log.Warn().Err(err).Str("id", rec.ID).Msg("forecast csv write failed")
		}
		return
	}
	c.JSON(http.StatusOK, models.ForecastResponse{
		ID:              rec.ID,
		BestModel:       rec.Result.BestModel,
		ConfidenceLevel: rec.Result.ConfidenceLevel,
		Forecasts:       rec.Result.Forecasts,
	})
}

func (h *SimulationHandler) lookup(c *gin.Context) (*store.Record, bool) {
	id := c.Param("id")
	if !store.ValidID(id) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_ID",
				Message: "run id must be a UUID",
				Details: map[string]interface{}{"id": id},
			},
		})
		return nil, false
	}
	rec, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		status, code := classify(err)
		if status != http.StatusNotFound {
			status, code = http.StatusInternalServerError, "STORE_ERROR"
			h.log.Error().Err(err).Str("id", id).Msg("failed to load run")
		}
		respondError(c, status, code, err)
		return nil, false
	}
	return rec, true
}

func buildSimulationResponse(rec *store.Record, opts models.SimulationOptions) models.SimulationResponse {
	res := rec.Result
	resp := models.SimulationResponse{
		ID:                  rec.ID,
		Status:              "completed",
		CreatedAt:           rec.CreatedAt,
		Fingerprint:         res.Fingerprint,
		ForecastDays:        res.ForecastDays,
		ConfidenceLevel:     res.ConfidenceLevel,
		PlotInterval:        rec.PlotInterval,
		BestModel:           res.BestModel,
		Leaderboard:         buildLeaderboard(res),
		DataCharacteristics: res.DataCharacteristics,
		Profile:             res.Profile,
		Strategy:            res.Strategy,
		ForecastPoints:      len(res.Forecasts),
	}
	if opts.IncludePredictions {
		resp.ModelResults = res.ModelResults
	}
	if opts.IncludeForecasts {
		resp.Forecasts = res.Forecasts
	}
	return resp
}

func buildLeaderboard(res *model.RunResult) []models.ModelSummary {
	ranked := backtest.Leaderboard(res.ModelResults)
	out := make([]models.ModelSummary, len(ranked))
	for i, r := range ranked {
		out[i] = models.ModelSummary{
			Rank:      r.Rank,
			ModelName: r.ModelName,
			Color:     r.Color,
			Category:  r.Category,
			Penalty:   r.Penalty,
			Metrics:   r.Metrics,
			Winner:    r.ModelName == res.BestModel,
		}
	}
	return out
}
