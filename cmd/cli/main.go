package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"dam-price-predictor/internal/backtest"
	"dam-price-predictor/internal/config"
	"dam-price-predictor/internal/data"
	"dam-price-predictor/internal/forecast"
	"dam-price-predictor/internal/logging"
	"dam-price-predictor/internal/model"
	"dam-price-predictor/internal/scoring"
	"dam-price-predictor/internal/simulation"
	"dam-price-predictor/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "strategy":
		cmdStrategy(os.Args[2:])
	case "models":
		cmdModels()
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --data dam.csv [--config config.yaml] [--out results/forecast.csv] [--predictions results/backtest.csv]")
	fmt.Println("  cli strategy --forecast results/forecast.csv")
	fmt.Println("  cli models")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data accepts a local CSV/JSON file or an http(s) URL of a DAM report")
	fmt.Println("  - identical input always produces identical output")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	dataPath := fs.String("data", "", "DAM report (CSV or JSON path, or http(s) URL)")
	cfgPath := fs.String("config", os.Getenv("SIM_CONFIG"), "Path to YAML config (optional)")
	outPath := fs.String("out", "results/forecast.csv", "Forecast CSV output path")
	predPath := fs.String("predictions", "", "Optional: per-model backtest predictions CSV")
	metricsPath := fs.String("metrics", "", "Optional: per-model metrics CSV")
	days := fs.Int("days", 0, "Forecast days (0 = config)")
	confidence := fs.Int("confidence", 0, "Confidence level 90|95|99 (0 = config)")
	delay := fs.Duration("delay", -1, "Processing delay override (negative = config)")
	_ = fs.Parse(args)

	config.LoadDotEnv()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logging.New(logging.Config{Level: cfg.Logging.Level, Pretty: true})

	if *dataPath == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}

	sim := config.MergeSimulation(cfg.Simulation, config.SimulationConfig{ForecastDays: *days, ConfidenceLevel: *confidence})
	if *delay >= 0 {
		sim.ProcessingDelay = *delay
	}
	if err := sim.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid simulation settings")
	}

	ctx := context.Background()
	history, err := loadHistory(ctx, log, *dataPath)
	if err != nil {
		log.Fatal().Err(err).Str("data", *dataPath).Msg("failed to load history")
	}

	runner := simulation.NewRunner(log, simulation.WithDelay(sim.ProcessingDelay))
	res, err := runner.Run(ctx, history, simulation.Options{
		ForecastDays:    sim.ForecastDays,
		ConfidenceLevel: sim.ConfidenceLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}

	if err := writeOutput(*outPath, func(p string) error { return forecast.WriteCSV(p, res.Forecasts) }); err != nil {
		log.Fatal().Err(err).Msg("failed to write forecast")
	}
	if *predPath != "" {
		if err := writeOutput(*predPath, func(p string) error { return backtest.WritePredictionsCSV(p, history, res.ModelResults) }); err != nil {
			log.Fatal().Err(err).Msg("failed to write predictions")
		}
	}
	if *metricsPath != "" {
		if err := writeOutput(*metricsPath, func(p string) error { return backtest.WriteMetricsCSV(p, res.ModelResults) }); err != nil {
			log.Fatal().Err(err).Msg("failed to write metrics")
		}
	}

	printRun(res)
	fmt.Printf("\nWrote %d forecast rows to %s\n", len(res.Forecasts), *outPath)
}

func loadHistory(ctx context.Context, log zerolog.Logger, src string) ([]model.Observation, error) {
	if data.IsRemote(src) {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		return data.NewFetcher(log).FetchCSV(ctx, src)
	}
	return data.Load(src)
}

func writeOutput(path string, write func(string) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return write(path)
}

func cmdStrategy(args []string) {
	fs := flag.NewFlagSet("strategy", flag.ExitOnError)
	fcPath := fs.String("forecast", "results/forecast.csv", "Forecast CSV written by `cli simulate`")
	_ = fs.Parse(args)

	points, err := forecast.ReadCSV(*fcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read forecast: %v\n", err)
		os.Exit(1)
	}
	s, err := strategy.Build(points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strategy: %v\n", err)
		os.Exit(1)
	}
	printStrategy(s)
}

func cmdModels() {
	fmt.Printf("%-14s %-9s %-14s\n", "model", "color", "category")
	for _, c := range scoring.Catalog() {
		fmt.Printf("%-14s %-9s %-14s\n", c.Name, c.Color, c.Category)
	}
}

func printRun(res *model.RunResult) {
	dc := res.DataCharacteristics
	fmt.Printf("Fingerprint=%d Observations=%d Volatility=%.4f Trend=%.6f\n",
		res.Fingerprint, dc.DataLength, dc.Volatility, dc.Trend)
	fmt.Println("")
	fmt.Printf("%-4s %-14s %-8s %-10s %-10s %-9s %-9s %-8s\n", "rank", "model", "penalty", "rmse", "mae", "mape%", "r2", "dir%")
	for _, r := range backtest.Leaderboard(res.ModelResults) {
		m := r.Metrics
		marker := ""
		if r.ModelName == res.BestModel {
			marker = " *"
		}
		fmt.Printf("%-4d %-14s %-8.4f %-10.4f %-10.4f %-9.2f %-9.4f %-8.2f%s\n",
			r.Rank, r.ModelName, r.Penalty, m.RMSE, m.MAE, m.MAPE, m.R2, m.DirectionalAccuracy, marker)
	}
	fmt.Println("")
	fmt.Printf("Best model: %s (%d-day forecast at %d%% confidence)\n", res.BestModel, res.ForecastDays, res.ConfidenceLevel)
	printStrategy(res.Strategy)
}

func printStrategy(s model.Strategy) {
	fmt.Printf("Average forecast price: %.4f Rs/kWh\n", s.AverageForecastedPrice)
	fmt.Printf("Projected savings: %.1f%%  Volatility risk: %s\n", s.ProjectedSavingsPercent, s.VolatilityRisk)
	fmt.Println("Buy windows:")
	for _, w := range s.OptimalBuyWindows {
		fmt.Printf("  %-17s %.4f\n", w.Time, w.Price)
	}
	fmt.Println("Peak alerts:")
	for _, w := range s.PeakShavingAlerts {
		fmt.Printf("  %-17s %.4f\n", w.Time, w.Price)
	}
}
