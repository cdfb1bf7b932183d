// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Source    SourceConfig
	Refresh   RefreshConfig
	Analytics AnalyticsConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// SourceConfig selects the upstream add-on list source. When URL is set
// the list is fetched over HTTP; otherwise Repo/Branch name a git
// repository checked out under Dir.
type SourceConfig struct {
	URL    string `envconfig:"SOURCE_URL" default:""`
	Repo   string `envconfig:"SOURCE_REPO" default:"https://github.com/WebThingsIO/addon-list"`
	Branch string `envconfig:"SOURCE_BRANCH" default:"master"`
	Dir    string `envconfig:"SOURCE_DIR" default:"./repo"`
}

// RefreshConfig holds background refresh configuration. The interval is
// fixed, with no backoff, to stay under upstream rate limits.
type RefreshConfig struct {
	Interval     time.Duration `envconfig:"REFRESH_INTERVAL" default:"60s"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
}

// AnalyticsConfig holds request ledger configuration.
type AnalyticsConfig struct {
	Retention time.Duration `envconfig:"ANALYTICS_RETENTION" default:"24h"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment or returns the
// defaults.
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
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Source: SourceConfig{
			Repo:   "https://github.com/WebThingsIO/addon-list",
			Branch: "master",
			Dir:    "./repo",
		},
		Refresh: RefreshConfig{
			Interval:     60 * time.Second,
			FetchTimeout: 30 * time.Second,
		},
		Analytics: AnalyticsConfig{
			Retention: 24 * time.Hour,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
