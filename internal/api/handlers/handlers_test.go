package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dam-price-predictor/internal/api/models"
	"dam-price-predictor/internal/config"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/scoring"
	"dam-price-predictor/internal/simulation"
	"dam-price-predictor/internal/store"
	"dam-price-predictor/internal/strategy"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore(time.Hour)
	t.Cleanup(st.Close)

	runner := simulation.NewRunner(zerolog.Nop(), simulation.WithDelay(0))
	sim := NewSimulationHandler(runner, st, config.Default().Simulation, zerolog.Nop())
	strat := NewStrategyHandler()

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/simulations", sim.RunSimulation)
	api.GET("/simulations/:id", sim.GetSimulation)
	api.GET("/simulations/:id/forecast", sim.GetForecast)
	api.POST("/strategy", strat.BuildStrategy)
	api.GET("/models", ListModels)
	return r
}

func observations(n int) []model.Observation {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Observation, n)
	for i := range out {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		price := 4000 + 1500*math.Sin(float64(i)/9)
		out[i] = model.NewObservation(ts.Format("02-01-2006"), ts, ts.Format("15:04"), price)
	}
	return out
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func runSimulation(t *testing.T, r *gin.Engine, req models.SimulationRequest) models.SimulationResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/simulations", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SimulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRunSimulation(t *testing.T) {
	r := newRouter(t)
	resp := runSimulation(t, r, models.SimulationRequest{Observations: observations(300)})

	assert.True(t, store.ValidID(resp.ID))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 7, resp.ForecastDays)
	assert.Equal(t, 95, resp.ConfidenceLevel)
	assert.Equal(t, 7, resp.PlotInterval)
	assert.Equal(t, 7*96, resp.ForecastPoints)
	assert.Equal(t, 300, resp.DataCharacteristics.DataLength)
	assert.Empty(t, resp.ModelResults)
	assert.Empty(t, resp.Forecasts)

	require.Len(t, resp.Leaderboard, len(scoring.Catalog()))
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.True(t, resp.Leaderboard[0].Winner)
	assert.Equal(t, resp.BestModel, resp.Leaderboard[0].ModelName)
	for i := 1; i < len(resp.Leaderboard); i++ {
		assert.LessOrEqual(t, resp.Leaderboard[i-1].Metrics.RMSE, resp.Leaderboard[i].Metrics.RMSE)
		assert.False(t, resp.Leaderboard[i].Winner)
	}
	assert.Len(t, resp.Strategy.OptimalBuyWindows, strategy.WindowCount)
}

func TestRunSimulation_OverridesAndOptions(t *testing.T) {
	r := newRouter(t)
	resp := runSimulation(t, r, models.SimulationRequest{
		Observations: observations(200),
		Config:       models.SimulationConfig{ForecastDays: 2, ConfidenceLevel: 99, PlotInterval: 3},
		Options:      models.SimulationOptions{IncludePredictions: true, IncludeForecasts: true},
	})
	assert.Equal(t, 2, resp.ForecastDays)
	assert.Equal(t, 99, resp.ConfidenceLevel)
	assert.Equal(t, 3, resp.PlotInterval)
	require.Len(t, resp.ModelResults, len(scoring.Catalog()))
	assert.Len(t, resp.ModelResults[0].Predictions, 200)
	assert.Len(t, resp.Forecasts, 2*96)
}

func TestRunSimulation_Deterministic(t *testing.T) {
	r := newRouter(t)
	req := models.SimulationRequest{Observations: observations(150)}
	a := runSimulation(t, r, req)
	b := runSimulation(t, r, req)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Leaderboard, b.Leaderboard)
	assert.Equal(t, a.Strategy, b.Strategy)
}

func TestRunSimulation_Errors(t *testing.T) {
	r := newRouter(t)

	unordered := observations(10)
	unordered[2], unordered[5] = unordered[5], unordered[2]
	negative := observations(10)
	negative[4].MCPKWh = -1

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed", `{"observations": [`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing", `{}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty", `{"observations": []}`, http.StatusBadRequest, "EMPTY_HISTORY"},
		{"unordered", models.SimulationRequest{Observations: unordered}, http.StatusBadRequest, "UNORDERED_HISTORY"},
		{"negative", models.SimulationRequest{Observations: negative}, http.StatusBadRequest, "INVALID_PRICE"},
		{"days", models.SimulationRequest{
			Observations: observations(10),
			Config:       models.SimulationConfig{ForecastDays: config.MaxForecastDays + 1},
		}, http.StatusBadRequest, "INVALID_CONFIG"},
		{"no_time", `{"observations": [{"mcp_kwh": 4}]}`, http.StatusBadRequest, "INVALID_OBSERVATIONS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/simulations", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestGetSimulationAndForecast(t *testing.T) {
	r := newRouter(t)
	resp := runSimulation(t, r, models.SimulationRequest{
		Observations: observations(120),
		Config:       models.SimulationConfig{ForecastDays: 1},
	})

	w := do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var run models.RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, resp.ID, run.ID)
	require.NotNil(t, run.Result)
	assert.Equal(t, resp.BestModel, run.Result.BestModel)
	assert.Len(t, run.Result.ProcessedData, 120)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fc models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Len(t, fc.Forecasts, 96)
	// 120 blocks end on 02-04-2024 05:45.
	assert.Equal(t, "03-04-2024", fc.Forecasts[0].DateStr)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/forecast?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 97)
	assert.Equal(t, "date,time_block,price,upper_bound,lower_bound", lines[0])
}

func TestGetSimulation_NotFound(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/simulations/"+store.NewID(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/nope/forecast", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, w).Code)
}

func TestBuildStrategy(t *testing.T) {
	r := newRouter(t)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var points []model.ForecastPoint
	for i, p := range []float64{5, 3, 8, 1, 9} {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		points = append(points, model.ForecastPoint{Date: ts, DateStr: "01-05-2024", TimeBlock: ts.Format("15:04"), Price: p})
	}

	w := do(t, r, http.MethodPost, "/api/v1/strategy", models.StrategyRequest{Forecasts: points})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.StrategyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "01-05-2024 00:45", resp.Strategy.OptimalBuyWindows[0].Time)
	assert.Equal(t, 9.0, resp.Strategy.PeakShavingAlerts[0].Price)
	assert.InDelta(t, 5.2, resp.Strategy.AverageForecastedPrice, 1e-12)

	w = do(t, r, http.MethodPost, "/api/v1/strategy", `{"forecasts": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_FORECASTS", decodeError(t, w).Code)
}

func TestListModels(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodGet, "/api/v1/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 6)
	assert.Equal(t, "SARIMAX", resp.Models[0].Name)
	assert.Equal(t, "#3b82f6", resp.Models[0].Color)
	assert.Equal(t, "deep_learning", resp.Models[5].Category)
	assert.Equal(t, 0.04, resp.BasePenalty)
	assert.Equal(t, 0.002, resp.MinPenalty)
}
