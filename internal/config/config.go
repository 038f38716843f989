// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port      string `env:"PORT" envDefault:"5000"`
	StaticDir string `env:"STATIC_DIR" envDefault:"."`
	IndexPath string `env:"INDEX_TEMPLATE" envDefault:"new_index.html"`

	Scholar ScholarConfig
	Cache   CacheConfig
	Log     LogConfig
}

// ScholarConfig holds the upstream search API settings
type ScholarConfig struct {
	AuthorID string `env:"SCHOLAR_AUTHOR_ID" envDefault:"f34uj7UAAAAJ"`
	APIKey   string `env:"SERPAPI_API_KEY"`
	BaseURL  string `env:"SCHOLAR_BASE_URL" envDefault:"https://serpapi.com/search.json"`
	Locale   string `env:"SCHOLAR_LOCALE" envDefault:"en"`
	Limit    int    `env:"SCHOLAR_RESULT_LIMIT" envDefault:"100"`
	Sort     string `env:"SCHOLAR_SORT" envDefault:"pubdate"`
}

// CacheConfig controls how long a fetched dataset is reused
type CacheConfig struct {
	FreshnessWindow time.Duration `env:"CACHE_FRESHNESS_WINDOW" envDefault:"6048s"`
	// UpstreamTimeout of 0 leaves a refresh unbounded.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"0s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads configuration from environment variables. A .env file in the
// working directory is read first for local development; variables already
// set in the environment win.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Scholar.AuthorID == "" {
		errs = append(errs, errors.New("SCHOLAR_AUTHOR_ID must not be empty"))
	}
	if c.Scholar.Limit <= 0 {
		errs = append(errs, fmt.Errorf("SCHOLAR_RESULT_LIMIT must be positive, got %d", c.Scholar.Limit))
	}
	if c.Cache.FreshnessWindow < 0 {
		errs = append(errs, fmt.Errorf("CACHE_FRESHNESS_WINDOW must not be negative, got %s", c.Cache.FreshnessWindow))
	}
	if c.Cache.UpstreamTimeout < 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must not be negative, got %s", c.Cache.UpstreamTimeout))
	}
	return errors.Join(errs...)
}

// HasAPIKey reports whether an upstream credential is configured
func (c *Config) HasAPIKey() bool {
	return c.Scholar.APIKey != ""
}
