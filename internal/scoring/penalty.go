package scoring

import (
	"math"

	"dam-price-predictor/internal/analysis"
	"dam-price-predictor/internal/rng"
)

// Tuning constants. They carry no statistical derivation.
const (
	BasePenalty  = 0.04
	PenaltyFloor = 0.002
	JitterScale  = 0.025

	LowVolatility     = 0.15
	NoisyVolatility   = 0.25
	ComplexVolatility = 0.4

	StrongTrend   = 0.1
	ModerateTrend = 0.05

	TinyDataset      = 400
	SmallDataset     = 500
	MidDataset       = 600
	UnderfitDataset  = 1000
	LargeDataset     = 2000
	VeryLargeDataset = 5000
)

// Adjustment applies a candidate's rules to a running penalty. Rules are
// applied in the order written so results are reproducible to the last bit.
type Adjustment func(penalty float64, s analysis.Signal) float64

// Rules maps each catalog entry to its adjustment. Entries must stay pure.
var Rules = map[string]Adjustment{
	SARIMAX: func(p float64, s analysis.Signal) float64 {
		if s.Volatility < LowVolatility {
			p -= 0.01
		}
		if s.Count < SmallDataset {
			p -= 0.005
		}
		return p
	},
	RandomForest: func(p float64, s analysis.Signal) float64 {
		if s.Volatility > NoisyVolatility {
			p -= 0.012
		}
		if s.TrendStrength > StrongTrend {
			p += 0.01
		}
		return p
	},
	XGBoost: func(p float64, s analysis.Signal) float64 {
		if s.TrendStrength > ModerateTrend {
			p -= 0.015
		}
		return p - 0.002
	},
	LightGBM: func(p float64, s analysis.Signal) float64 {
		if s.Count > LargeDataset {
			p -= 0.018
		}
		if s.Count < TinyDataset {
			p += 0.015
		}
		return p
	},
	CatBoost: func(p float64, s analysis.Signal) float64 {
		if s.Count > MidDataset {
			p -= 0.01
		}
		return p
	},
	LSTM: func(p float64, s analysis.Signal) float64 {
		if s.Count < UnderfitDataset {
			p += 0.03
		}
		if s.Count > VeryLargeDataset {
			p -= 0.025
		}
		if s.Volatility > ComplexVolatility {
			p -= 0.01
		}
		return p
	},
}

// Penalty is the resolved error magnitude of one candidate.
// Ruled is the penalty after rule adjustments and before jitter.
type Penalty struct {
	Model  string  `json:"model"`
	Ruled  float64 `json:"ruled"`
	Jitter float64 `json:"jitter"`
	Value  float64 `json:"value"`
}

// Score resolves a penalty for every candidate, in catalog order. Jitter is
// drawn from a generator seeded with the dataset fingerprint, one draw per
// candidate. Candidates without a rule get the base penalty plus jitter.
func Score(candidates []Candidate, s analysis.Signal, seed int64) []Penalty {
	g := rng.New(seed)
	out := make([]Penalty, 0, len(candidates))
	for _, c := range candidates {
		p := Penalty{Model: c.Name, Ruled: BasePenalty}
		if rule, ok := Rules[c.Name]; ok {
			p.Ruled = rule(BasePenalty, s)
		}
		p.Jitter = g.Centered() * JitterScale
		p.Value = math.Max(PenaltyFloor, p.Ruled+p.Jitter)
		out = append(out, p)
	}
	return out
}

// ByModel indexes penalties by candidate name.
func ByModel(penalties []Penalty) map[string]float64 {
	out := make(map[string]float64, len(penalties))
	for _, p := range penalties {
		out[p.Model] = p.Value
	}
	return out
}
