package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// FileEnv names the environment variable holding the optional YAML file.
const FileEnv = "ETL_CONFIG_FILE"

// Benchmark modes
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000" yaml:"port"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" yaml:"shutdown_timeout"`
}

// PipelineConfig holds ETL run configuration.
type PipelineConfig struct {
	Input        string        `envconfig:"ETL_INPUT" default:"../data/yellow_tripdata_2015-01.csv" yaml:"input"`
	Output       string        `envconfig:"ETL_OUTPUT" default:"../results" yaml:"output"`
	Prefix       string        `envconfig:"ETL_FILE_PREFIX" default:"go" yaml:"prefix"`
	StageTimeout time.Duration `envconfig:"ETL_STAGE_TIMEOUT" default:"0s" yaml:"stage_timeout"`
	RowLimit     int           `envconfig:"ETL_ROW_LIMIT" default:"0" yaml:"row_limit"`
	Compress     bool          `envconfig:"ETL_COMPRESS_OUTPUT" default:"false" yaml:"compress"`
	WriteDataset bool          `envconfig:"ETL_WRITE_DATASET" default:"false" yaml:"write_dataset"`
}

// BenchmarkConfig holds service-mode benchmark configuration.
type BenchmarkConfig struct {
	Mode           string        `envconfig:"BENCHMARK_MODE" default:"demo" yaml:"mode"`
	CacheTTL       time.Duration `envconfig:"BENCHMARK_CACHE_TTL" default:"10m" yaml:"cache_ttl"`
	RequestTimeout time.Duration `envconfig:"BENCHMARK_REQUEST_TIMEOUT" default:"2m" yaml:"request_timeout"`

	BreakerThreshold int           `envconfig:"BENCHMARK_BREAKER_THRESHOLD" default:"3" yaml:"breaker_threshold"`
	BreakerCooldown  time.Duration `envconfig:"BENCHMARK_BREAKER_COOLDOWN" default:"30s" yaml:"breaker_cooldown"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`

	// GlobalRequestsPerSecond caps all clients together. Zero disables it.
	GlobalRequestsPerSecond int `envconfig:"RATE_LIMIT_GLOBAL_RPS" default:"500" yaml:"global_requests_per_second"`
	GlobalBurst             int `envconfig:"RATE_LIMIT_GLOBAL_BURST" default:"1000" yaml:"global_burst"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Benchmark.Mode {
	case ModeDemo, ModeLive:
	default:
		return fmt.Errorf("invalid BENCHMARK_MODE %q: want %q or %q", c.Benchmark.Mode, ModeDemo, ModeLive)
	}
	if c.RateLimit.GlobalRequestsPerSecond < 0 {
		return fmt.Errorf("RATE_LIMIT_GLOBAL_RPS cannot be negative")
	}
	if c.Pipeline.Prefix == "" {
		return fmt.Errorf("ETL_FILE_PREFIX cannot be empty")
	}
	if c.Pipeline.RowLimit < 0 {
		return fmt.Errorf("ETL_ROW_LIMIT cannot be negative")
	}
	if c.Benchmark.BreakerThreshold < 0 {
		return fmt.Errorf("BENCHMARK_BREAKER_THRESHOLD cannot be negative")
	}
	if c.Pipeline.StageTimeout < 0 {
		return fmt.Errorf("ETL_STAGE_TIMEOUT cannot be negative")
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
