// Package metrics provides Prometheus instrumentation for the predictor API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SimulationsTotal counts finished runs by outcome.
	SimulationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dam_simulations_total",
		Help: "Total simulation runs by status",
	}, []string{"status"})

	SimulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dam_simulation_duration_seconds",
		Help:    "Wall time of successful simulation runs, including the processing delay",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 5},
	})

	// WinnersTotal counts how often each model candidate wins.
	WinnersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dam_winner_total",
		Help: "Best-model selections by candidate",
	}, []string{"model"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dam_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dam_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	}, []string{"method", "path"})
)

// Recorder feeds simulation outcomes into the collectors above.
type Recorder struct{}

func (Recorder) RunFinished(status, winner string, elapsed time.Duration) {
	SimulationsTotal.WithLabelValues(status).Inc()
	if status != "ok" {
		return
	}
	SimulationDuration.Observe(elapsed.Seconds())
	if winner != "" {
		WinnersTotal.WithLabelValues(winner).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request metrics. The path label is the route
// pattern, so /simulations/:id stays one series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
