package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"dam-price-predictor/internal/backtest"
	"dam-price-predictor/internal/forecast"
	"dam-price-predictor/internal/logging"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/rng"
	"dam-price-predictor/internal/simulation"
)

// Demo:
// - Synthesize a few weeks of 15-minute DAM prices with a daily shape
// - Run the full simulation on them
// - Print the leaderboard and the first forecast blocks
func main() {
	days := flag.Int("days", 30, "Days of synthetic history")
	seed := flag.Int64("seed", 7, "Seed for the synthetic series")
	horizon := flag.Int("forecast", 3, "Forecast days")
	n := flag.Int("n", 8, "Number of forecast blocks to print")
	outCSV := flag.String("out", "", "Optional path to write the forecast CSV")
	flag.Parse()

	log := logging.New(logging.Config{Level: "info", Pretty: true})
	history := synthesize(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *days, *seed)
	log.Info().Int("observations", len(history)).Msg("synthesized history")

	runner := simulation.NewRunner(log, simulation.WithDelay(0))
	res, err := runner.Run(context.Background(), history, simulation.Options{ForecastDays: *horizon, ConfidenceLevel: 95})
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}

	for _, r := range backtest.Leaderboard(res.ModelResults) {
		fmt.Printf("%d. %-14s rmse=%.4f mape=%.2f%% penalty=%.4f\n", r.Rank, r.ModelName, r.Metrics.RMSE, r.Metrics.MAPE, r.Penalty)
	}
	fmt.Printf("\nWinner: %s\n\n", res.BestModel)

	for i := 0; i < *n && i < len(res.Forecasts); i++ {
		f := res.Forecasts[i]
		fmt.Printf("%s  price=%.4f  [%.4f, %.4f]\n", f.Label(), f.Price, f.LowerBound, f.UpperBound)
	}
	fmt.Printf("\nRisk=%s savings=%.1f%%\n", res.Strategy.VolatilityRisk, res.Strategy.ProjectedSavingsPercent)

	if *outCSV != "" {
		if err := forecast.WriteCSV(*outCSV, res.Forecasts); err != nil {
			fmt.Fprintf(os.Stderr, "write forecast: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Forecasts), *outCSV)
	}
}

// synthesize builds a series with morning and evening humps, cheaper
// weekends and a little noise. Prices are in Rs/MWh.
func synthesize(start time.Time, days int, seed int64) []model.Observation {
	g := rng.New(seed)
	out := make([]model.Observation, 0, days*forecast.SlotsPerDay)
	for i := 0; i < days*forecast.SlotsPerDay; i++ {
		ts := start.Add(time.Duration(i*forecast.SlotMinutes) * time.Minute)
		hour := float64(ts.Hour()) + float64(ts.Minute())/60

		price := 3500.0
		price += 1500 * math.Exp(-math.Pow(hour-8, 2)/6)
		price += 4000 * math.Exp(-math.Pow(hour-20, 2)/4)
		if model.IsWeekend(ts) {
			price *= 0.85
		}
		price *= 1 + g.Symmetric()*0.08

		block := fmt.Sprintf("%s - %s", ts.Format("15:04"), ts.Add(forecast.SlotMinutes*time.Minute).Format("15:04"))
		out = append(out, model.NewObservation(ts.Format("02-01-2006"), ts, block, price))
	}
	return out
}
