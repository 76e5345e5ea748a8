package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dam-price-predictor/internal/analysis"
	"dam-price-predictor/internal/rng"
)

func params(days, confidence int) Params {
	return Params{
		Seed:            246475298,
		Signal:          analysis.Signal{Count: 672, Mean: 5, Slope: 0.0001},
		LastTime:        time.Date(2024, 4, 30, 23, 45, 0, 0, time.UTC),
		Days:            days,
		ConfidenceLevel: confidence,
		WinnerRMSE:      0.2,
	}
}

func TestZScore(t *testing.T) {
	assert.Equal(t, 1.645, ZScore(90))
	assert.Equal(t, 1.96, ZScore(95))
	assert.Equal(t, 2.576, ZScore(99))
	assert.Equal(t, 1.96, ZScore(80))
	assert.Equal(t, 1.96, ZScore(0))
}

func TestTimeOfDayMultiplier(t *testing.T) {
	assert.Equal(t, 0.7, TimeOfDayMultiplier(0, 0))
	assert.Equal(t, 0.7, TimeOfDayMultiplier(5, 45))
	assert.Equal(t, 1.3, TimeOfDayMultiplier(6, 0))
	assert.Equal(t, 1.3, TimeOfDayMultiplier(9, 45))
	assert.Equal(t, 1.0, TimeOfDayMultiplier(10, 0))
	assert.Equal(t, 1.0, TimeOfDayMultiplier(17, 45))
	assert.Equal(t, 1.5, TimeOfDayMultiplier(18, 0))
	assert.Equal(t, 1.5, TimeOfDayMultiplier(21, 45))
	assert.Equal(t, 1.0, TimeOfDayMultiplier(22, 0))
}

func TestUncertaintyGrowth(t *testing.T) {
	assert.InDelta(t, 1.07, UncertaintyGrowth(1), 1e-12)
	assert.InDelta(t, 1.49, UncertaintyGrowth(7), 1e-12)
}

func TestGenerate_SevenDaysShape(t *testing.T) {
	points, err := Generate(params(7, 95))
	require.NoError(t, err)
	require.Len(t, points, 7*24*4)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, "01-05-2024", points[0].DateStr)
	assert.Equal(t, "00:00", points[0].TimeBlock)
	assert.Equal(t, "00:15", points[1].TimeBlock)
	assert.Equal(t, "23:45", points[95].TimeBlock)
	assert.Equal(t, "02-05-2024", points[96].DateStr)
	assert.Equal(t, "07-05-2024", points[len(points)-1].DateStr)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Date.After(points[i-1].Date), "point %d out of order", i)
	}
}

func TestGenerate_BoundsAndNonNegativity(t *testing.T) {
	p := params(14, 99)
	// Steep negative trend drives the base price below zero late in the horizon.
	p.Signal.Slope = -0.005
	p.WinnerRMSE = 3
	points, err := Generate(p)
	require.NoError(t, err)
	sawZero := false
	for _, pt := range points {
		assert.GreaterOrEqual(t, pt.Price, 0.0)
		assert.GreaterOrEqual(t, pt.LowerBound, 0.0)
		assert.LessOrEqual(t, pt.LowerBound, pt.Price)
		assert.LessOrEqual(t, pt.Price, pt.UpperBound)
		if pt.Price == 0 {
			sawZero = true
		}
	}
	assert.True(t, sawZero)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(params(3, 95))
	require.NoError(t, err)
	b, err := Generate(params(3, 95))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_ReproducesFormula(t *testing.T) {
	p := params(2, 90)
	points, err := Generate(p)
	require.NoError(t, err)

	g := rng.New(p.Seed + SeedOffset)
	for i, pt := range points {
		d := i/SlotsPerDay + 1
		h := (i % SlotsPerDay) / 4
		m := (i % 4) * 15
		base := p.Signal.Mean * TimeOfDayMultiplier(h, m)
		base += p.Signal.Slope * float64(p.Signal.Count+i)
		if d == 2 {
			// 02-05-2024 is a Thursday; no weekend dampening in this window.
			assert.False(t, pt.Date.Weekday() == time.Saturday || pt.Date.Weekday() == time.Sunday)
		}
		growth := UncertaintyGrowth(d)
		want := base * (1 + (g.Float64()-0.5)*PerturbationScale*growth)
		assert.Equal(t, want, pt.Price, "slot %d", i)
		assert.InDelta(t, p.WinnerRMSE*1.645*growth, pt.UpperBound-pt.Price, 1e-12)
	}
}

func TestGenerate_WeekendDampening(t *testing.T) {
	p := params(7, 95)
	p.Signal.Slope = 0
	points, err := Generate(p)
	require.NoError(t, err)

	// Compare average price of a weekday and a weekend day; the perturbation
	// averages out well below the 10% dampening.
	avg := func(day int) float64 {
		sum := 0.0
		for _, pt := range points[day*SlotsPerDay : (day+1)*SlotsPerDay] {
			sum += pt.Price
		}
		return sum / SlotsPerDay
	}
	// 01-05-2024 is Wednesday (index 0); 04-05-2024 is Saturday (index 3).
	assert.Equal(t, time.Saturday, points[3*SlotsPerDay].Date.Weekday())
	assert.Less(t, avg(3), avg(0))
}

func TestGenerate_WiderBandsAtHigherConfidence(t *testing.T) {
	p90, err := Generate(params(7, 90))
	require.NoError(t, err)
	p99, err := Generate(params(7, 99))
	require.NoError(t, err)

	width := func(points []float64) float64 {
		sum := 0.0
		for _, w := range points {
			sum += w
		}
		return sum / float64(len(points))
	}
	var w90, w99 []float64
	for i := range p90 {
		w90 = append(w90, p90[i].UpperBound-p90[i].Price)
		w99 = append(w99, p99[i].UpperBound-p99[i].Price)
	}
	assert.Greater(t, width(w99), width(w90))
	// Point prices do not depend on the confidence level.
	assert.Equal(t, p90[10].Price, p99[10].Price)
}

func TestGenerate_UncertaintyGrowsWithHorizon(t *testing.T) {
	points, err := Generate(params(5, 95))
	require.NoError(t, err)
	first := points[0].UpperBound - points[0].Price
	last := points[len(points)-1].UpperBound - points[len(points)-1].Price
	assert.Greater(t, last, first)
}

func TestGenerate_InvalidDays(t *testing.T) {
	_, err := Generate(params(0, 95))
	assert.ErrorIs(t, err, ErrInvalidDays)
}
