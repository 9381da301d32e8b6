package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYBOARD_* environment variable overrides, and
// returns the final Config. A missing file is not an error; the defaults plus
// environment are enough to run. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYBOARD_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators adjust endpoints at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Upstream ──
	setStr(&cfg.Upstream.GammaHost, "POLYBOARD_UPSTREAM_GAMMA_HOST")
	setStr(&cfg.Upstream.DataHost, "POLYBOARD_UPSTREAM_DATA_HOST")
	setDuration(&cfg.Upstream.Timeout, "POLYBOARD_UPSTREAM_TIMEOUT")

	// ── Aggregate ──
	setStr(&cfg.Aggregate.Category, "POLYBOARD_AGGREGATE_CATEGORY")
	setInt(&cfg.Aggregate.MarketLimit, "POLYBOARD_AGGREGATE_MARKET_LIMIT")
	setInt(&cfg.Aggregate.HolderLimit, "POLYBOARD_AGGREGATE_HOLDER_LIMIT")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "POLYBOARD_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYBOARD_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYBOARD_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POLYBOARD_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POLYBOARD_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POLYBOARD_REDIS_TLS_ENABLED")

	// ── Server ──
	setInt(&cfg.Server.Port, "POLYBOARD_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "POLYBOARD_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.ClientRateLimit, "POLYBOARD_SERVER_CLIENT_RATE_LIMIT")
	setDuration(&cfg.Server.ClientRateWindow, "POLYBOARD_SERVER_CLIENT_RATE_WINDOW")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "POLYBOARD_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
