package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const MaxForecastDays = 90

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type SimulationConfig struct {
	ForecastDays    int `yaml:"forecast_days" json:"forecast_days"`
	ConfidenceLevel int `yaml:"confidence_level" json:"confidence_level"`
	// ProcessingDelay is paused before every run ("1200ms", "0s").
	ProcessingDelay time.Duration `yaml:"processing_delay" json:"-"`
	// PlotInterval is how many days of history a dashboard should chart.
	PlotInterval int `yaml:"plot_interval" json:"plot_interval"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"`
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StoreConfig struct {
	Backend   string        `yaml:"backend"` // memory | redis
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			ForecastDays:    7,
			ConfidenceLevel: 95,
			ProcessingDelay: 1200 * time.Millisecond,
			PlotInterval:    7,
		},
		Server: ServerConfig{
			Port:           8080,
			Env:            "development",
			StaticDir:      "./web/dist",
			AllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			TTL:       time.Hour,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path means defaults plus environment.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config over the defaults, but does not validate it or
// look at the environment. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// ApplyEnv overlays API_PORT, API_ENV, STATIC_DIR, STORE_BACKEND,
// REDIS_ADDR and LOG_LEVEL.
func ApplyEnv(c *Config) {
	if v := os.Getenv("API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: store.redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	if c.Store.TTL <= 0 {
		return fmt.Errorf("%w: store.ttl must be > 0", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// Validate checks the per-run settings. Confidence levels other than 90,
// 95 and 99 are accepted and use the 95% band.
func (s SimulationConfig) Validate() error {
	if s.ForecastDays < 1 || s.ForecastDays > MaxForecastDays {
		return fmt.Errorf("%w: forecast_days must be between 1 and %d, got %d", ErrInvalidConfig, MaxForecastDays, s.ForecastDays)
	}
	if s.ConfidenceLevel < 1 || s.ConfidenceLevel > 99 {
		return fmt.Errorf("%w: confidence_level must be between 1 and 99, got %d", ErrInvalidConfig, s.ConfidenceLevel)
	}
	if s.ProcessingDelay < 0 {
		return fmt.Errorf("%w: processing_delay must be >= 0", ErrInvalidConfig)
	}
	if s.PlotInterval < 0 {
		return fmt.Errorf("%w: plot_interval must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// MergeSimulation overlays non-zero fields from override onto base.
// This is used to apply per-request settings over the server defaults.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.ForecastDays != 0 {
		out.ForecastDays = override.ForecastDays
	}
	if override.ConfidenceLevel != 0 {
		out.ConfidenceLevel = override.ConfidenceLevel
	}
	if override.ProcessingDelay != 0 {
		out.ProcessingDelay = override.ProcessingDelay
	}
	if override.PlotInterval != 0 {
		out.PlotInterval = override.PlotInterval
	}
	return out
}
