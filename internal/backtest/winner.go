package backtest

import (
	"math"
	"sort"

	"dam-price-predictor/internal/model"
)

// SelectWinner returns the name of the result with the lowest RMSE. Only a
// strictly lower RMSE replaces the current pick, so ties go to the earlier
// entry and the first entry wins if nothing beats +Inf.
func SelectWinner(results []model.PredictionResult) string {
	if len(results) == 0 {
		return ""
	}
	best := results[0].ModelName
	minRMSE := math.Inf(1)
	for _, r := range results {
		if r.Metrics.RMSE < minRMSE {
			minRMSE = r.Metrics.RMSE
			best = r.ModelName
		}
	}
	return best
}

// Ranked is one leaderboard row.
type Ranked struct {
	Rank int
	model.PredictionResult
}

// Leaderboard orders results by ascending RMSE, keeping catalog order on ties.
func Leaderboard(results []model.PredictionResult) []Ranked {
	sorted := make([]model.PredictionResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metrics.RMSE < sorted[j].Metrics.RMSE
	})
	out := make([]Ranked, len(sorted))
	for i, r := range sorted {
		out[i] = Ranked{Rank: i + 1, PredictionResult: r}
	}
	return out
}
