// Package config loads the client configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	// Finance API
	APIBaseURL string
	APITimeout time.Duration
	CSRFHeader string
	CSRFToken  string

	Cache   cache.Config
	Logging logging.Config
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() Config {
	return Config{
		APIBaseURL: "http://localhost:8443",
		APITimeout: api.DefaultTimeout,
		CSRFHeader: api.DefaultCSRFHeader,
		Cache:      cache.DefaultConfig(),
		Logging:    logging.DefaultConfig(),
	}
}

// Load reads the environment on top of DefaultConfig. The given .env files,
// or ".env" when none are given, are loaded first; a missing file is not an
// error and variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	cfg := DefaultConfig()

	cfg.APIBaseURL = getEnv("FINANCE_API_BASE_URL", cfg.APIBaseURL)
	cfg.APITimeout = getEnvDuration("FINANCE_API_TIMEOUT", cfg.APITimeout)
	cfg.CSRFHeader = getEnv("FINANCE_CSRF_HEADER", cfg.CSRFHeader)
	cfg.CSRFToken = getEnv("FINANCE_CSRF_TOKEN", cfg.CSRFToken)

	cfg.Cache.Capacity = getEnvInt("FINANCE_CACHE_CAPACITY", cfg.Cache.Capacity)
	cfg.Cache.NumShards = getEnvInt("FINANCE_CACHE_SHARDS", cfg.Cache.NumShards)
	cfg.Cache.TTL = getEnvDuration("FINANCE_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.EvictionPercentage = getEnvInt("FINANCE_CACHE_EVICTION_PERCENTAGE", cfg.Cache.EvictionPercentage)
	cfg.Cache.EvictionInterval = getEnvDuration("FINANCE_CACHE_EVICTION_INTERVAL", cfg.Cache.EvictionInterval)
	cfg.Cache.RefetchTimeout = getEnvDuration("FINANCE_CACHE_REFETCH_TIMEOUT", cfg.Cache.RefetchTimeout)

	cfg.Logging.Level = getEnv("FINANCE_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Encoding = getEnv("FINANCE_LOG_ENCODING", cfg.Logging.Encoding)
	cfg.Logging.Development = getEnvBool("FINANCE_LOG_DEVELOPMENT", cfg.Logging.Development)

	return cfg, nil
}

// Validate checks every field and returns all failures combined. Each failure
// is a *ConfigError.
func (c Config) Validate() error {
	var err error

	if c.APIBaseURL == "" {
		err = multierr.Append(err, &ConfigError{Field: "APIBaseURL", Message: "is required"})
	} else if u, perr := url.Parse(c.APIBaseURL); perr != nil || u.Host == "" {
		err = multierr.Append(err, &ConfigError{Field: "APIBaseURL", Message: "must be an absolute URL"})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		err = multierr.Append(err, &ConfigError{Field: "APIBaseURL", Message: "scheme must be http or https"})
	}

	if c.APITimeout <= 0 {
		err = multierr.Append(err, &ConfigError{Field: "APITimeout", Message: "must be greater than 0"})
	}
	if strings.TrimSpace(c.CSRFHeader) == "" {
		err = multierr.Append(err, &ConfigError{Field: "CSRFHeader", Message: "is required"})
	}

	if cerr := c.Cache.Validate(); cerr != nil {
		err = multierr.Append(err, &ConfigError{Field: "Cache", Message: cerr.Error()})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		err = multierr.Append(err, &ConfigError{Field: "Logging.Level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		err = multierr.Append(err, &ConfigError{Field: "Logging.Encoding", Message: "must be json or console"})
	}

	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
