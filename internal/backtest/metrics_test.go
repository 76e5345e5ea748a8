package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_Perfect(t *testing.T) {
	actual := []float64{1, 2, 3, 2}
	m := ComputeMetrics(actual, actual, 2)
	assert.Equal(t, 0.0, m.RMSE)
	assert.Equal(t, 0.0, m.MAE)
	assert.Equal(t, 0.0, m.MAPE)
	assert.Equal(t, 1.0, m.R2)
	assert.Equal(t, 100.0, m.DirectionalAccuracy)
}

func TestComputeMetrics_KnownValues(t *testing.T) {
	actual := []float64{2, 4, 4, 2}
	pred := []float64{3, 3, 4, 1}
	// errors: 1, 1, 0, 1
	ssTot := 4.0 // mean 3: 1+1+1+1
	m := ComputeMetrics(actual, pred, ssTot)
	assert.InDelta(t, math.Sqrt(3.0/4), m.RMSE, 1e-12)
	assert.InDelta(t, 0.75, m.MAE, 1e-12)
	// |1/2| + |1/4| + 0 + |1/2| = 1.25 -> /4 * 100
	assert.InDelta(t, 31.25, m.MAPE, 1e-12)
	assert.InDelta(t, 1-3.0/4, m.R2, 1e-12)
	// pairs: (2->4 up, pred 3-2 up) ok; (4->4 flat, pred 4-4 flat) ok; (4->2 down, pred 1-4 down) ok
	assert.InDelta(t, 100.0, m.DirectionalAccuracy, 1e-12)
}

func TestComputeMetrics_DirectionMisses(t *testing.T) {
	actual := []float64{5, 6, 5}
	pred := []float64{5, 4, 6}
	m := ComputeMetrics(actual, pred, 1)
	assert.Equal(t, 0.0, m.DirectionalAccuracy)
}

func TestComputeMetrics_FlatVersusMoveIsMiss(t *testing.T) {
	actual := []float64{5, 5}
	pred := []float64{5, 5.1}
	m := ComputeMetrics(actual, pred, 0)
	assert.Equal(t, 0.0, m.DirectionalAccuracy)
	assert.Equal(t, 0.0, m.R2, "zero total variance yields R2 of 0")
}

func TestComputeMetrics_SinglePoint(t *testing.T) {
	m := ComputeMetrics([]float64{5}, []float64{4}, 0)
	assert.Equal(t, 1.0, m.RMSE)
	assert.Equal(t, 0.0, m.DirectionalAccuracy)
}

func TestComputeMetrics_Empty(t *testing.T) {
	assert.Equal(t, ComputeMetrics(nil, nil, 0), ComputeMetrics([]float64{}, []float64{}, 1))
}

func TestComputeMetrics_NegativeR2(t *testing.T) {
	actual := []float64{1, 2, 3}
	pred := []float64{3, 0, 6}
	m := ComputeMetrics(actual, pred, 2)
	assert.Less(t, m.R2, 0.0)
}
