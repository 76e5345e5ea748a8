package model

import "time"

// Metrics is the accuracy bundle of one backtested candidate.
// MAPE and DirectionalAccuracy are percentages.
type Metrics struct {
	RMSE                float64 `json:"rmse"`
	MAE                 float64 `json:"mae"`
	MAPE                float64 `json:"mape"`
	R2                  float64 `json:"r2"`
	DirectionalAccuracy float64 `json:"directional_accuracy"`
}

// PredictionResult is the synthesized backtest of one model candidate.
// Predictions and Errors are aligned with the historical observations.
type PredictionResult struct {
	ModelName   string    `json:"model_name"`
	Color       string    `json:"color"`
	Category    string    `json:"category"`
	Penalty     float64   `json:"penalty"`
	Predictions []float64 `json:"predictions"`
	Errors      []float64 `json:"errors"`
	Metrics     Metrics   `json:"metrics"`
}

// DataCharacteristics summarizes the historical signal used for scoring.
type DataCharacteristics struct {
	Volatility float64 `json:"volatility"`
	Trend      float64 `json:"trend"`
	DataLength int     `json:"data_length"`
}

// PriceProfile is a distribution summary of the historical prices.
type PriceProfile struct {
	Count        int       `json:"count"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Mean         float64   `json:"mean"`
	P05          float64   `json:"p05"`
	P95          float64   `json:"p95"`
	SpreadP95P05 float64   `json:"spread_p95_p05"`
}

// RunResult is everything one simulation produces. It is built once and
// must be treated as read-only by consumers.
type RunResult struct {
	Fingerprint     int64 `json:"fingerprint"`
	ForecastDays    int   `json:"forecast_days"`
	ConfidenceLevel int   `json:"confidence_level"`

	ProcessedData []Observation `json:"processed_data"`

	// ModelResults is in catalog order.
	ModelResults []PredictionResult `json:"model_results"`
	BestModel    string             `json:"best_model"`

	Forecasts []ForecastPoint `json:"forecasts"`

	DataCharacteristics DataCharacteristics `json:"data_characteristics"`
	Profile             PriceProfile        `json:"profile"`
	Strategy            Strategy            `json:"strategy"`
}

// Result looks up a candidate's backtest by name.
func (r *RunResult) Result(name string) (PredictionResult, bool) {
	for _, res := range r.ModelResults {
		if res.ModelName == name {
			return res, true
		}
	}
	return PredictionResult{}, false
}

// Winner returns the backtest of BestModel.
func (r *RunResult) Winner() PredictionResult {
	res, _ := r.Result(r.BestModel)
	return res
}
