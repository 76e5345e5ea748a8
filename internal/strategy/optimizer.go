// Package strategy turns a price forecast into a procurement summary:
// cheapest slots to buy in, priciest slots to avoid, and a volatility grade.
package strategy

import (
	"errors"
	"math"
	"sort"

	"dam-price-predictor/internal/model"
)

const (
	// WindowCount is how many slots each ranked list holds.
	WindowCount = 8
	// LoadShiftPercent is the share of demand assumed movable to the cheapest slot.
	LoadShiftPercent = 30.0

	HighRiskCV     = 0.25
	ModerateRiskCV = 0.12
)

var ErrNoForecasts = errors.New("no forecast points")

// Build ranks the forecast and derives the strategy summary. The input is
// not modified.
func Build(forecasts []model.ForecastPoint) (model.Strategy, error) {
	if len(forecasts) == 0 {
		return model.Strategy{}, ErrNoForecasts
	}

	sorted := make([]model.ForecastPoint, len(forecasts))
	copy(sorted, forecasts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	k := min(WindowCount, len(sorted))
	buy := make([]model.PriceWindow, 0, k)
	for _, p := range sorted[:k] {
		buy = append(buy, window(p))
	}
	peaks := make([]model.PriceWindow, 0, k)
	for i := len(sorted) - 1; i >= len(sorted)-k; i-- {
		peaks = append(peaks, window(sorted[i]))
	}

	avg, cv := meanCV(forecasts)
	savings := 0.0
	if avg != 0 {
		savings = math.Max(0, (avg-sorted[0].Price)/avg*LoadShiftPercent)
	}

	return model.Strategy{
		OptimalBuyWindows:       buy,
		PeakShavingAlerts:       peaks,
		AverageForecastedPrice:  avg,
		ProjectedSavingsPercent: savings,
		VolatilityRisk:          model.RiskFromCV(cv, HighRiskCV, ModerateRiskCV),
	}, nil
}

func window(p model.ForecastPoint) model.PriceWindow {
	return model.PriceWindow{Time: p.Label(), Price: p.Price}
}

// meanCV returns the mean price and the population coefficient of
// variation. CV is 0 when the mean is 0.
func meanCV(forecasts []model.ForecastPoint) (mean, cv float64) {
	sum := 0.0
	for _, f := range forecasts {
		sum += f.Price
	}
	mean = sum / float64(len(forecasts))
	if mean == 0 {
		return 0, 0
	}
	ss := 0.0
	for _, f := range forecasts {
		d := f.Price - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss/float64(len(forecasts))) / mean
}
