// Package simulation wires the pipeline together: fingerprint the history,
// score and backtest every model candidate, pick a winner, forecast forward
// and derive a procurement strategy.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"dam-price-predictor/internal/analysis"
	"dam-price-predictor/internal/backtest"
	"dam-price-predictor/internal/forecast"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/scoring"
	"dam-price-predictor/internal/strategy"
)

// DefaultDelay is the pause taken before computing, mirroring the
// "processing" step users see in the dashboard.
const DefaultDelay = 1200 * time.Millisecond

const (
	DefaultForecastDays    = 7
	DefaultConfidenceLevel = 95
)

var ErrNonFinite = errors.New("simulation produced a non-finite value")

// Options are the per-run knobs. ConfidenceLevel values other than 90, 95
// and 99 use the 95% band.
type Options struct {
	ForecastDays    int `json:"forecast_days" yaml:"forecast_days"`
	ConfidenceLevel int `json:"confidence_level" yaml:"confidence_level"`
}

// Observer is notified once per run. status is "ok", "invalid",
// "canceled" or "failed".
type Observer interface {
	RunFinished(status, winner string, elapsed time.Duration)
}

type Runner struct {
	log      zerolog.Logger
	engine   *backtest.Engine
	delay    time.Duration
	observer Observer
}

type Option func(*Runner)

func WithDelay(d time.Duration) Option { return func(r *Runner) { r.delay = d } }

func WithEngine(e *backtest.Engine) Option { return func(r *Runner) { r.engine = e } }

func WithObserver(o Observer) Option { return func(r *Runner) { r.observer = o } }

func NewRunner(log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		log:    log.With().Str("component", "simulation").Logger(),
		engine: backtest.New(nil),
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full pipeline. ctx is only consulted during the initial
// delay; once computation starts it runs to completion. On failure no
// partial result is returned.
func (r *Runner) Run(ctx context.Context, history []model.Observation, opts Options) (*model.RunResult, error) {
	start := time.Now()
	res, err := r.run(ctx, history, opts)
	elapsed := time.Since(start)

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "canceled"
	case isInvalid(err):
		status = "invalid"
	default:
		status = "failed"
	}
	if r.observer != nil {
		winner := ""
		if res != nil {
			winner = res.BestModel
		}
		r.observer.RunFinished(status, winner, elapsed)
	}

	if err != nil {
		r.log.Warn().Err(err).Str("status", status).Dur("elapsed", elapsed).Msg("simulation failed")
		return nil, err
	}
	r.log.Info().
		Int64("fingerprint", res.Fingerprint).
		Int("observations", len(history)).
		Str("winner", res.BestModel).
		Float64("winner_rmse", res.Winner().Metrics.RMSE).
		Int("forecast_points", len(res.Forecasts)).
		Dur("elapsed", elapsed).
		Msg("simulation complete")
	return res, nil
}

func isInvalid(err error) bool {
	return errors.Is(err, model.ErrEmptyHistory) ||
		errors.Is(err, model.ErrUnordered) ||
		errors.Is(err, model.ErrInvalidPrice) ||
		errors.Is(err, forecast.ErrInvalidDays)
}

func (r *Runner) run(ctx context.Context, history []model.Observation, opts Options) (*model.RunResult, error) {
	if opts.ForecastDays < 1 {
		return nil, fmt.Errorf("%w: got %d", forecast.ErrInvalidDays, opts.ForecastDays)
	}
	if err := model.ValidateHistory(history); err != nil {
		return nil, err
	}
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	fp, err := analysis.Fingerprint(history)
	if err != nil {
		return nil, err
	}
	sig := analysis.ComputeSignal(model.Prices(history))

	penalties := scoring.Score(r.engine.Candidates(), sig, fp)
	for _, p := range penalties {
		r.log.Debug().Str("model", p.Model).Float64("ruled", p.Ruled).Float64("jitter", p.Jitter).Float64("penalty", p.Value).Msg("penalty resolved")
	}

	results, err := r.engine.Run(history, scoring.ByModel(penalties), fp)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	best := backtest.SelectWinner(results)

	res := &model.RunResult{
		Fingerprint:     fp,
		ForecastDays:    opts.ForecastDays,
		ConfidenceLevel: opts.ConfidenceLevel,
		ProcessedData:   append([]model.Observation(nil), history...),
		ModelResults:    results,
		BestModel:       best,
		DataCharacteristics: model.DataCharacteristics{
			Volatility: sig.Volatility,
			Trend:      sig.Slope,
			DataLength: sig.Count,
		},
		Profile: analysis.ComputeProfile(history),
	}

	res.Forecasts, err = forecast.Generate(forecast.Params{
		Seed:            fp,
		Signal:          sig,
		LastTime:        history[len(history)-1].Time,
		Days:            opts.ForecastDays,
		ConfidenceLevel: opts.ConfidenceLevel,
		WinnerRMSE:      res.Winner().Metrics.RMSE,
	})
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	res.Strategy, err = strategy.Build(res.Forecasts)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}

	if err := CheckFinite(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// CheckFinite rejects results carrying NaN or Inf anywhere a consumer
// would read a number.
func CheckFinite(res *model.RunResult) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

	dc := res.DataCharacteristics
	if bad(dc.Volatility) || bad(dc.Trend) {
		return fmt.Errorf("%w: data characteristics", ErrNonFinite)
	}
	for _, mr := range res.ModelResults {
		m := mr.Metrics
		if bad(mr.Penalty) || bad(m.RMSE) || bad(m.MAE) || bad(m.MAPE) || bad(m.R2) || bad(m.DirectionalAccuracy) {
			return fmt.Errorf("%w: %s metrics", ErrNonFinite, mr.ModelName)
		}
		for i := range mr.Predictions {
			if bad(mr.Predictions[i]) || bad(mr.Errors[i]) {
				return fmt.Errorf("%w: %s prediction %d", ErrNonFinite, mr.ModelName, i)
			}
		}
	}
	for i, f := range res.Forecasts {
		if bad(f.Price) || bad(f.UpperBound) || bad(f.LowerBound) {
			return fmt.Errorf("%w: forecast %s", ErrNonFinite, res.Forecasts[i].Label())
		}
	}
	s := res.Strategy
	if bad(s.AverageForecastedPrice) || bad(s.ProjectedSavingsPercent) {
		return fmt.Errorf("%w: strategy", ErrNonFinite)
	}
	return nil
}
