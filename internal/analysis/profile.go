package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dam-price-predictor/internal/model"
)

// ComputeProfile summarizes the distribution of historical clearing prices.
// It is informational only and plays no part in seeding or scoring.
func ComputeProfile(history []model.Observation) model.PriceProfile {
	p := model.PriceProfile{}
	if len(history) == 0 {
		return p
	}
	p.Count = len(history)
	p.Start = history[0].Time
	p.End = history[len(history)-1].Time

	vals := model.Prices(history)
	sort.Float64s(vals)
	p.Min = floats.Min(vals)
	p.Max = floats.Max(vals)
	p.Mean = stat.Mean(vals, nil)
	p.P05 = stat.Quantile(0.05, stat.LinInterp, vals, nil)
	p.P95 = stat.Quantile(0.95, stat.LinInterp, vals, nil)
	p.SpreadP95P05 = p.P95 - p.P05
	return p
}
