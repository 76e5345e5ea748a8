package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Simulation.ForecastDays)
	assert.Equal(t, 95, c.Simulation.ConfidenceLevel)
	assert.Equal(t, 1200*time.Millisecond, c.Simulation.ProcessingDelay)
	assert.Equal(t, 7, c.Simulation.PlotInterval)
	assert.Equal(t, "memory", c.Store.Backend)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
simulation:
  forecast_days: 14
  confidence_level: 99
  processing_delay: 0s
store:
  backend: redis
  redis_addr: redis:6379
  ttl: 30m
logging:
  level: debug
  pretty: true
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 14, c.Simulation.ForecastDays)
	assert.Equal(t, 99, c.Simulation.ConfidenceLevel)
	assert.Equal(t, time.Duration(0), c.Simulation.ProcessingDelay)
	assert.Equal(t, 7, c.Simulation.PlotInterval)
	assert.Equal(t, "redis", c.Store.Backend)
	assert.Equal(t, "redis:6379", c.Store.RedisAddr)
	assert.Equal(t, 30*time.Minute, c.Store.TTL)
	assert.Equal(t, 8080, c.Server.Port)
	assert.True(t, c.Logging.Pretty)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REDIS_ADDR", "cache:6379")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "production", c.Server.Env)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "cache:6379", c.Store.RedisAddr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "simulation: [not a map"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "simulation:\n  forecast_days: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadUnchecked_SkipsValidation(t *testing.T) {
	c, err := LoadUnchecked(writeFile(t, "store:\n  backend: etcd\n"))
	require.NoError(t, err)
	assert.Equal(t, "etcd", c.Store.Backend)
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	mutate := map[string]func(c *Config){
		"days_too_many":  func(c *Config) { c.Simulation.ForecastDays = MaxForecastDays + 1 },
		"confidence_100": func(c *Config) { c.Simulation.ConfidenceLevel = 100 },
		"negative_delay": func(c *Config) { c.Simulation.ProcessingDelay = -time.Second },
		"port":           func(c *Config) { c.Server.Port = 0 },
		"redis_no_addr":  func(c *Config) { c.Store.Backend = "redis"; c.Store.RedisAddr = "" },
		"ttl":            func(c *Config) { c.Store.TTL = 0 },
		"log_level":      func(c *Config) { c.Logging.Level = "loud" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			c := Default()
			fn(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrInvalidConfig)

	c := Default()
	c.Simulation.ConfidenceLevel = 80
	assert.NoError(t, c.Validate())
}

func TestMergeSimulation(t *testing.T) {
	base := Default().Simulation
	out := MergeSimulation(base, SimulationConfig{ConfidenceLevel: 90})
	assert.Equal(t, 90, out.ConfidenceLevel)
	assert.Equal(t, base.ForecastDays, out.ForecastDays)
	assert.Equal(t, base.ProcessingDelay, out.ProcessingDelay)

	out = MergeSimulation(base, SimulationConfig{ForecastDays: 3, PlotInterval: 14})
	assert.Equal(t, 3, out.ForecastDays)
	assert.Equal(t, 14, out.PlotInterval)
	assert.Equal(t, 95, out.ConfidenceLevel)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SIM_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("SIM_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SIM_TEST_DOTENV"))

	LoadDotEnv(path)
	assert.Equal(t, "loaded", os.Getenv("SIM_TEST_DOTENV"))
}
