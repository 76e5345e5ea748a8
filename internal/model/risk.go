package model

// Risk is the volatility classification of a forecast.
// Keep these values stable; they are part of the API and CSV output.
type Risk string

const (
	RiskLow      Risk = "Low"
	RiskModerate Risk = "Moderate"
	RiskHigh     Risk = "High"
)

// RiskFromCV classifies a coefficient of variation against the
// high/moderate cut-offs.
func RiskFromCV(cv, high, moderate float64) Risk {
	switch {
	case cv > high:
		return RiskHigh
	case cv > moderate:
		return RiskModerate
	default:
		return RiskLow
	}
}
