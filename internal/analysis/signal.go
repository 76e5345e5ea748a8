package analysis

import "math"

// TrendScale converts the per-index slope into the unitless trend strength
// used by the penalty rules.
const TrendScale = 1000.0

// Signal is the read-only summary of a historical price vector.
type Signal struct {
	Count         int     `json:"count"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	Volatility    float64 `json:"volatility"`
	Slope         float64 `json:"slope"`
	TrendStrength float64 `json:"trend_strength"`
}

// ComputeSignal derives mean, population standard deviation, coefficient of
// variation and the closed-form least-squares slope of price against index.
//
// Sums run left to right so the result is reproducible to the last bit.
func ComputeSignal(prices []float64) Signal {
	n := len(prices)
	s := Signal{Count: n}
	if n == 0 {
		return s
	}

	ySum := 0.0
	xySum := 0.0
	for i, p := range prices {
		ySum += p
		xySum += float64(i) * p
	}
	s.Mean = ySum / float64(n)

	sq := 0.0
	for _, p := range prices {
		d := p - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(n))
	if s.Mean != 0 {
		s.Volatility = s.StdDev / s.Mean
	}

	fn := float64(n)
	xSum := fn * (fn - 1) / 2
	xSquaredSum := fn * (fn - 1) * (2*fn - 1) / 6
	denom := fn*xSquaredSum - xSum*xSum
	if denom == 0 {
		denom = 1
	}
	s.Slope = (fn*xySum - xSum*ySum) / denom
	s.TrendStrength = math.Abs(s.Slope) * TrendScale
	return s
}

// SumSquaredDeviation is Σ(p - mean)², the total variance term of R².
func SumSquaredDeviation(prices []float64, mean float64) float64 {
	sum := 0.0
	for _, p := range prices {
		d := p - mean
		sum += d * d
	}
	return sum
}
