// Package forecast extrapolates a 15-minute price path past the end of the
// historical series with growing uncertainty bands.
package forecast

import (
	"errors"
	"math"
	"time"

	"dam-price-predictor/internal/analysis"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/rng"
)

const (
	// SlotMinutes is the forecast block length.
	SlotMinutes = 15
	// SlotsPerDay is the number of blocks in one forecast day.
	SlotsPerDay = 24 * 60 / SlotMinutes

	// SeedOffset separates the forecast noise stream from the backtest streams.
	SeedOffset = 888

	MorningMultiplier   = 1.3
	EveningMultiplier   = 1.5
	OvernightMultiplier = 0.7
	WeekendDampening    = 0.9

	UncertaintyGrowthRate = 0.07
	PerturbationScale     = 0.12

	DateLayout = "02-01-2006"
)

var (
	MorningRamp = model.MustWindow("06:00", "10:00")
	EveningPeak = model.MustWindow("18:00", "22:00")
	Overnight   = model.MustWindow("00:00", "06:00")
)

var ErrInvalidDays = errors.New("forecast days must be >= 1")

// ZScore maps a confidence level to its two-sided z value. Anything other
// than 90 or 99 falls back to 95%.
func ZScore(confidenceLevel int) float64 {
	switch confidenceLevel {
	case 90:
		return 1.645
	case 99:
		return 2.576
	default:
		return 1.96
	}
}

// TimeOfDayMultiplier shapes the mean price over the day.
func TimeOfDayMultiplier(hour, minute int) float64 {
	switch {
	case MorningRamp.Contains(hour, minute):
		return MorningMultiplier
	case EveningPeak.Contains(hour, minute):
		return EveningMultiplier
	case Overnight.Contains(hour, minute):
		return OvernightMultiplier
	default:
		return 1
	}
}

// UncertaintyGrowth widens the band linearly with the day offset (1-based).
func UncertaintyGrowth(day int) float64 {
	return 1 + float64(day)*UncertaintyGrowthRate
}

// Params is everything the generator needs from the rest of the run.
type Params struct {
	Seed            int64
	Signal          analysis.Signal
	LastTime        time.Time
	Days            int
	ConfidenceLevel int
	// WinnerRMSE is the backtest RMSE of the selected model.
	WinnerRMSE float64
}

// Generate produces Days*SlotsPerDay points in chronological order starting
// at midnight of the day after LastTime.
func Generate(p Params) ([]model.ForecastPoint, error) {
	if p.Days < 1 {
		return nil, ErrInvalidDays
	}
	g := rng.New(p.Seed + SeedOffset)
	z := ZScore(p.ConfidenceLevel)
	n := p.Signal.Count
	lastDay := time.Date(p.LastTime.Year(), p.LastTime.Month(), p.LastTime.Day(), 0, 0, 0, 0, p.LastTime.Location())

	out := make([]model.ForecastPoint, 0, p.Days*SlotsPerDay)
	for d := 1; d <= p.Days; d++ {
		day := lastDay.AddDate(0, 0, d)
		weekend := model.IsWeekend(day)
		growth := UncertaintyGrowth(d)
		dateStr := day.Format(DateLayout)

		for h := 0; h < 24; h++ {
			for m := 0; m < 60; m += SlotMinutes {
				base := p.Signal.Mean * TimeOfDayMultiplier(h, m)
				base += p.Signal.Slope * float64(n+len(out))
				if weekend {
					base *= WeekendDampening
				}

				perturbation := g.Centered() * PerturbationScale * growth
				price := math.Max(0, base*(1+perturbation))
				interval := p.WinnerRMSE * z * growth

				out = append(out, model.ForecastPoint{
					Date:       day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute),
					DateStr:    dateStr,
					TimeBlock:  model.FormatHHMM(h, m),
					Price:      price,
					UpperBound: price + interval,
					LowerBound: math.Max(0, price-interval),
				})
			}
		}
	}
	return out, nil
}
