package models

import (
	"time"

	"dam-price-predictor/internal/model"
)

// SimulationResponse is the summary returned when a run completes
type SimulationResponse struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	Fingerprint     int64     `json:"fingerprint"`
	ForecastDays    int       `json:"forecast_days"`
	ConfidenceLevel int       `json:"confidence_level"`
	PlotInterval    int       `json:"plot_interval"`

	BestModel           string                    `json:"best_model"`
	Leaderboard         []ModelSummary            `json:"leaderboard"`
	DataCharacteristics model.DataCharacteristics `json:"data_characteristics"`
	Profile             model.PriceProfile        `json:"profile"`
	Strategy            model.Strategy            `json:"strategy"`
	ForecastPoints      int                       `json:"forecast_points"`

	ModelResults []model.PredictionResult `json:"model_results,omitempty"`
	Forecasts    []model.ForecastPoint    `json:"forecasts,omitempty"`
}

// ModelSummary is one leaderboard row, ranked by RMSE
type ModelSummary struct {
	Rank      int           `json:"rank"`
	ModelName string        `json:"model_name"`
	Color     string        `json:"color"`
	Category  string        `json:"category"`
	Penalty   float64       `json:"penalty"`
	Metrics   model.Metrics `json:"metrics"`
	Winner    bool          `json:"winner"`
}

// RunResponse is a stored run in full
type RunResponse struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	PlotInterval int              `json:"plot_interval"`
	Result       *model.RunResult `json:"result"`
}

// ForecastResponse carries the forecast of a stored run
type ForecastResponse struct {
	ID              string                `json:"id"`
	BestModel       string                `json:"best_model"`
	ConfidenceLevel int                   `json:"confidence_level"`
	Forecasts       []model.ForecastPoint `json:"forecasts"`
}

// StrategyResponse wraps a standalone strategy build
type StrategyResponse struct {
	Strategy model.Strategy `json:"strategy"`
}

// ModelInfo describes one model candidate in the catalog
type ModelInfo struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

// ModelsResponse lists the catalog in evaluation order
type ModelsResponse struct {
	Models      []ModelInfo `json:"models"`
	BasePenalty float64     `json:"base_penalty"`
	MinPenalty  float64     `json:"min_penalty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
