package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Fetch   FetchConfig
	Logging LogConfig
}

// FetchConfig holds document retrieval configuration.
type FetchConfig struct {
	Timeout      time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	Retries      int           `envconfig:"FETCH_RETRIES" default:"3"`
	RetryWaitMin time.Duration `envconfig:"FETCH_RETRY_WAIT_MIN" default:"1s"`
	RetryWaitMax time.Duration `envconfig:"FETCH_RETRY_WAIT_MAX" default:"30s"`
	RateLimit    float64       `envconfig:"FETCH_RATE_LIMIT" default:"0"`
	UserAgent    string        `envconfig:"FETCH_USER_AGENT" default:"webschema/1.0"`
	MaxBytes     int64         `envconfig:"FETCH_MAX_BYTES" default:"10485760"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			Retries:      3,
			RetryWaitMin: 1 * time.Second,
			RetryWaitMax: 30 * time.Second,
			RateLimit:    0,
			UserAgent:    "webschema/1.0",
			MaxBytes:     10 * 1024 * 1024,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
