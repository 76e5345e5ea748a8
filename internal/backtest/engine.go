package backtest

import (
	"fmt"
	"math"

	"dam-price-predictor/internal/analysis"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/rng"
	"dam-price-predictor/internal/scoring"
)

// Hours that are harder to predict get their relative error scaled up.
var (
	EveningPeak = model.MustWindow("18:00", "23:00")
	MorningRamp = model.MustWindow("08:00", "12:00")
)

const (
	EveningDifficulty  = 1.4
	MorningDifficulty  = 1.2
	BaselineDifficulty = 1.0
)

// Difficulty is the time-of-day error multiplier for an observation.
func Difficulty(hour, minute int) float64 {
	switch {
	case EveningPeak.Contains(hour, minute):
		return EveningDifficulty
	case MorningRamp.Contains(hour, minute):
		return MorningDifficulty
	default:
		return BaselineDifficulty
	}
}

// CandidateSeed gives each candidate its own reproducible noise stream.
func CandidateSeed(seed int64, name string) int64 {
	return seed + analysis.CodeUnitSum(name)
}

type Engine struct {
	candidates []scoring.Candidate
}

// New builds an engine over the given catalog; nil means the default catalog.
func New(candidates []scoring.Candidate) *Engine {
	if candidates == nil {
		candidates = scoring.Catalog()
	}
	return &Engine{candidates: candidates}
}

func (e *Engine) Candidates() []scoring.Candidate {
	out := make([]scoring.Candidate, len(e.candidates))
	copy(out, e.candidates)
	return out
}

// Run backtests every candidate against history with its resolved penalty.
// Results come back in catalog order.
func (e *Engine) Run(history []model.Observation, penalties map[string]float64, seed int64) ([]model.PredictionResult, error) {
	if len(history) == 0 {
		return nil, analysis.ErrEmptyHistory
	}
	mean := analysis.ComputeSignal(model.Prices(history)).Mean
	ssTot := analysis.SumSquaredDeviation(model.Prices(history), mean)

	out := make([]model.PredictionResult, 0, len(e.candidates))
	for _, c := range e.candidates {
		penalty, ok := penalties[c.Name]
		if !ok {
			return nil, fmt.Errorf("no penalty for model %q", c.Name)
		}
		out = append(out, Simulate(history, c, penalty, seed, ssTot))
	}
	return out, nil
}

// Simulate synthesizes one candidate's predictions over history. ssTot is
// the total sum of squares of the historical prices around their mean.
func Simulate(history []model.Observation, c scoring.Candidate, penalty float64, seed int64, ssTot float64) model.PredictionResult {
	g := rng.New(CandidateSeed(seed, c.Name))
	predictions := make([]float64, len(history))
	errs := make([]float64, len(history))

	t := tally{}
	for i, o := range history {
		actual := o.MCPKWh
		rel := penalty * Difficulty(o.Hour, o.Minute) * g.Symmetric()
		pred := math.Max(0, actual+actual*rel)
		absErr := math.Abs(actual - pred)

		predictions[i] = pred
		errs[i] = absErr
		if i == 0 {
			t = t.add(actual, absErr)
		} else {
			t = t.add(actual, absErr).direction(history[i-1].MCPKWh, actual, pred)
		}
	}

	return model.PredictionResult{
		ModelName:   c.Name,
		Color:       c.Color,
		Category:    c.Category,
		Penalty:     penalty,
		Predictions: predictions,
		Errors:      errs,
		Metrics:     t.metrics(ssTot),
	}
}
