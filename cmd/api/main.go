package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dam-price-predictor/internal/api/handlers"
	"dam-price-predictor/internal/api/middleware"
	"dam-price-predictor/internal/config"
	"dam-price-predictor/internal/logging"
	"dam-price-predictor/internal/metrics"
	"dam-price-predictor/internal/simulation"
	"dam-price-predictor/internal/store"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load(os.Getenv("SIM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(logging.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	st, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open result store")
	}
	defer closeStore()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.Logger(log))
	router.Use(metrics.Middleware())

	runner := simulation.NewRunner(log,
		simulation.WithDelay(cfg.Simulation.ProcessingDelay),
		simulation.WithObserver(metrics.Recorder{}),
	)
	simulationHandler := handlers.NewSimulationHandler(runner, st, cfg.Simulation, log)
	strategyHandler := handlers.NewStrategyHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": cfg.Store.Backend})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/simulations", simulationHandler.RunSimulation)
		api.GET("/simulations/:id", simulationHandler.GetSimulation)
		api.GET("/simulations/:id/forecast", simulationHandler.GetForecast)

		api.POST("/strategy", strategyHandler.BuildStrategy)
		api.GET("/models", handlers.ListModels)
	}

	serveStatic(router, cfg.Server.StaticDir, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func openStore(cfg config.StoreConfig, log zerolog.Logger) (store.Store, func(), error) {
	if cfg.Backend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := store.Dial(ctx, cfg.RedisAddr, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("using redis result store")
		return rs, func() { _ = rs.Close() }, nil
	}
	ms := store.NewMemoryStore(cfg.TTL)
	log.Info().Dur("ttl", cfg.TTL).Msg("using in-memory result store")
	return ms, ms.Close, nil
}

// serveStatic serves a built dashboard from dir if it exists.
func serveStatic(router *gin.Engine, dir string, log zerolog.Logger) {
	if _, err := os.Stat(dir); err != nil {
		log.Info().Str("dir", dir).Msg("static directory not found, skipping static file serving")
		return
	}
	router.Static("/assets", dir+"/assets")
	router.StaticFile("/favicon.ico", dir+"/favicon.ico")

	// Serve index.html for all non-API routes (SPA routing)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(dir + "/index.html")
	})
	log.Info().Str("dir", dir).Msg("serving static files")
}
