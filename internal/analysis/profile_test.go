package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dam-price-predictor/internal/model"
)

func TestComputeProfile(t *testing.T) {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	var history []model.Observation
	for i, p := range []float64{6, 2, 9, 4, 4, 3, 8, 1, 7, 5} {
		history = append(history, model.Observation{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			MCPKWh: p,
		})
	}

	p := ComputeProfile(history)
	assert.Equal(t, 10, p.Count)
	assert.Equal(t, start, p.Start)
	assert.Equal(t, start.Add(135*time.Minute), p.End)
	assert.Equal(t, 1.0, p.Min)
	assert.Equal(t, 9.0, p.Max)
	assert.InDelta(t, 4.9, p.Mean, 1e-12)
	assert.GreaterOrEqual(t, p.P05, p.Min)
	assert.LessOrEqual(t, p.P95, p.Max)
	assert.InDelta(t, p.P95-p.P05, p.SpreadP95P05, 1e-12)

	// input order is preserved
	assert.Equal(t, 6.0, history[0].MCPKWh)
}

func TestComputeProfile_Empty(t *testing.T) {
	assert.Equal(t, model.PriceProfile{}, ComputeProfile(nil))
}
