// Package scoring holds the model catalog and the heuristic penalty rules
// that decide how noisy each candidate's synthesized backtest is.
package scoring

// Candidate is one entry of the model catalog.
type Candidate struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

const (
	SARIMAX      = "SARIMAX"
	RandomForest = "Random Forest"
	XGBoost      = "XGBoost"
	LightGBM     = "LightGBM"
	CatBoost     = "CatBoost"
	LSTM         = "LSTM"
)

var catalog = []Candidate{
	{Name: SARIMAX, Color: "#3b82f6", Category: "statistical"},
	{Name: RandomForest, Color: "#10b981", Category: "ensemble"},
	{Name: XGBoost, Color: "#f59e0b", Category: "boosting"},
	{Name: LightGBM, Color: "#8b5cf6", Category: "boosting"},
	{Name: CatBoost, Color: "#ec4899", Category: "boosting"},
	{Name: LSTM, Color: "#ef4444", Category: "deep_learning"},
}

// Catalog returns a copy of the ordered model catalog. Order matters: it is
// the jitter draw order and the tie-break order for winner selection.
func Catalog() []Candidate {
	out := make([]Candidate, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a candidate by name.
func Lookup(name string) (Candidate, bool) {
	for _, c := range catalog {
		if c.Name == name {
			return c, true
		}
	}
	return Candidate{}, false
}
