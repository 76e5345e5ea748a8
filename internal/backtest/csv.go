package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"dam-price-predictor/internal/model"
)

// WritePredictionsCSV writes one row per observation with the actual price
// followed by each candidate's synthesized prediction and absolute error.
func WritePredictionsCSV(path string, history []model.Observation, results []model.PredictionResult) error {
	for _, r := range results {
		if len(r.Predictions) != len(history) {
			return fmt.Errorf("model %q has %d predictions for %d observations", r.ModelName, len(r.Predictions), len(history))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"index", "date", "time_block", "actual_mcp_kwh"}
	for _, r := range results {
		header = append(header, r.ModelName+" prediction", r.ModelName+" error")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, o := range history {
		row := []string{
			strconv.Itoa(i),
			o.Date,
			o.TimeBlock,
			fmtFloat(o.MCPKWh),
		}
		for _, r := range results {
			row = append(row, fmtFloat(r.Predictions[i]), fmtFloat(r.Errors[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteMetricsCSV writes the leaderboard, best model first.
func WriteMetricsCSV(path string, results []model.PredictionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"rank", "model", "penalty", "rmse", "mae", "mape", "r2", "directional_accuracy"}); err != nil {
		return err
	}
	for _, r := range Leaderboard(results) {
		m := r.Metrics
		row := []string{
			strconv.Itoa(r.Rank),
			r.ModelName,
			fmtFloat(r.Penalty),
			fmtFloat(m.RMSE),
			fmtFloat(m.MAE),
			fmtFloat(m.MAPE),
			fmtFloat(m.R2),
			fmtFloat(m.DirectionalAccuracy),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
