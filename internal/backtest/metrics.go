package backtest

import (
	"math"

	"dam-price-predictor/internal/model"
)

// tally is the running state of the metric fold. Every step returns a new
// value; nothing is mutated in place.
type tally struct {
	n       int
	sqErr   float64
	absErr  float64
	pctErr  float64
	correct int
	checks  int
}

func (t tally) add(actual, absErr float64) tally {
	t.n++
	t.sqErr += absErr * absErr
	t.absErr += absErr
	if actual != 0 {
		t.pctErr += math.Abs(absErr / actual)
	}
	return t
}

// direction scores whether the prediction moved the same way as the actual
// price relative to the previous actual. Flat against flat agrees.
func (t tally) direction(prevActual, actual, pred float64) tally {
	actualDiff := actual - prevActual
	predDiff := pred - prevActual
	if (actualDiff > 0 && predDiff > 0) ||
		(actualDiff < 0 && predDiff < 0) ||
		(actualDiff == 0 && predDiff == 0) {
		t.correct++
	}
	t.checks++
	return t
}

func (t tally) metrics(ssTot float64) model.Metrics {
	m := model.Metrics{}
	if t.n == 0 {
		return m
	}
	n := float64(t.n)
	m.RMSE = math.Sqrt(t.sqErr / n)
	m.MAE = t.absErr / n
	m.MAPE = (t.pctErr / n) * 100
	if ssTot != 0 {
		m.R2 = 1 - t.sqErr/ssTot
	}
	if t.checks > 0 {
		m.DirectionalAccuracy = float64(t.correct) / float64(t.checks) * 100
	}
	return m
}

// ComputeMetrics scores an arbitrary prediction vector against actuals with
// the same definitions the simulator uses.
func ComputeMetrics(actuals, predictions []float64, ssTot float64) model.Metrics {
	t := tally{}
	for i := range actuals {
		if i >= len(predictions) {
			break
		}
		t = t.add(actuals[i], math.Abs(actuals[i]-predictions[i]))
		if i > 0 {
			t = t.direction(actuals[i-1], actuals[i], predictions[i])
		}
	}
	return t.metrics(ssTot)
}
