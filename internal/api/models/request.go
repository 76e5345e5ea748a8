package models

import "dam-price-predictor/internal/model"

// SimulationRequest represents the request body for running a simulation
type SimulationRequest struct {
	Observations []model.Observation `json:"observations" binding:"required"`
	Config       SimulationConfig    `json:"config,omitempty"`
	Options      SimulationOptions   `json:"options,omitempty"`
}

// SimulationConfig overrides the server defaults for one run. Zero values
// keep the default.
type SimulationConfig struct {
	ForecastDays    int `json:"forecast_days,omitempty"`
	ConfidenceLevel int `json:"confidence_level,omitempty"`
	PlotInterval    int `json:"plot_interval,omitempty"`
}

// SimulationOptions contains optional response parameters
type SimulationOptions struct {
	IncludePredictions bool `json:"include_predictions,omitempty"` // default: false
	IncludeForecasts   bool `json:"include_forecasts,omitempty"`   // default: false
}

// StrategyRequest builds a strategy from a caller-supplied forecast
type StrategyRequest struct {
	Forecasts []model.ForecastPoint `json:"forecasts" binding:"required"`
}
