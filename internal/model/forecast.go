package model

import "time"

// ForecastPoint is one future 15-minute block.
// Date is the block's start time; DateStr is "DD-MM-YYYY" and TimeBlock "HH:MM".
type ForecastPoint struct {
	Date       time.Time `json:"date"`
	DateStr    string    `json:"date_str"`
	TimeBlock  string    `json:"time_block"`
	Price      float64   `json:"price"`
	UpperBound float64   `json:"upper_bound"`
	LowerBound float64   `json:"lower_bound"`
}

// Label is the human-facing "DD-MM-YYYY HH:MM" slot name.
func (p ForecastPoint) Label() string {
	return p.DateStr + " " + p.TimeBlock
}

// PriceWindow is a single ranked slot in a strategy.
type PriceWindow struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// Strategy is the procurement summary derived from a forecast.
type Strategy struct {
	OptimalBuyWindows       []PriceWindow `json:"optimal_buy_windows"`
	PeakShavingAlerts       []PriceWindow `json:"peak_shaving_alerts"`
	AverageForecastedPrice  float64       `json:"average_forecasted_price"`
	ProjectedSavingsPercent float64       `json:"projected_savings_percent"`
	VolatilityRisk          Risk          `json:"volatility_risk"`
}
