// Package config defines the top-level configuration for the polyboard
// backend and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by POLYBOARD_* environment
// variables.
type Config struct {
	Upstream  UpstreamConfig  `toml:"upstream"`
	Aggregate AggregateConfig `toml:"aggregate"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	LogLevel  string          `toml:"log_level"`
}

// UpstreamConfig holds the Polymarket API endpoints and the per-call timeout.
type UpstreamConfig struct {
	GammaHost string   `toml:"gamma_host"`
	DataHost  string   `toml:"data_host"`
	Timeout   duration `toml:"timeout"`
}

// AggregateConfig holds the defaults for the aggregation flows.
type AggregateConfig struct {
	// Category is the default category keyword resolved against the tag
	// taxonomy when a request does not name one.
	Category string `toml:"category"`
	// MarketLimit bounds the upstream market listing size.
	MarketLimit int `toml:"market_limit"`
	// HolderLimit is the default ranking size per outcome.
	HolderLimit int `toml:"holder_limit"`
}

// RedisConfig holds Redis connection parameters. An empty Addr disables
// Redis entirely; the service then uses the in-process cache and no
// per-client rate limiting.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port             int      `toml:"port"`
	CORSOrigins      []string `toml:"cors_origins"`
	ClientRateLimit  int      `toml:"client_rate_limit"`
	ClientRateWindow duration `toml:"client_rate_window"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "10s", "1m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "10s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Upstream: UpstreamConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			DataHost:  "https://data-api.polymarket.com",
			Timeout:   duration{10 * time.Second},
		},
		Aggregate: AggregateConfig{
			Category:    "tech",
			MarketLimit: 100,
			HolderLimit: 10,
		},
		Redis: RedisConfig{
			Addr:       "",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Server: ServerConfig{
			Port:             8000,
			CORSOrigins:      []string{"http://localhost:3000"},
			ClientRateLimit:  60,
			ClientRateWindow: duration{time.Minute},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Upstream.GammaHost == "" {
		errs = append(errs, "upstream: gamma_host must not be empty")
	}
	if c.Upstream.DataHost == "" {
		errs = append(errs, "upstream: data_host must not be empty")
	}
	if c.Upstream.Timeout.Duration <= 0 {
		errs = append(errs, "upstream: timeout must be positive")
	}

	if c.Aggregate.MarketLimit < 1 {
		errs = append(errs, "aggregate: market_limit must be >= 1")
	}
	if c.Aggregate.HolderLimit < 1 {
		errs = append(errs, "aggregate: holder_limit must be >= 1")
	}

	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ClientRateLimit < 1 {
		errs = append(errs, "server: client_rate_limit must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
