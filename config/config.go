package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// CONFIG: Environment-driven settings for the kpiview CLI
// ============================================================================
// A .env file in the working directory is loaded first when present. Real
// environment variables always win over .env entries.
//
//   KPIVIEW_API_BASE_URL   dashboard API root      (http://127.0.0.1:8000/api)
//   KPIVIEW_TIMEOUT        per-request timeout     (30s)
//   KPIVIEW_CATALOG        KPI catalog YAML path   (built-in catalog)
//   KPIVIEW_GROUP_LIMIT    stacked bar categories  (7)
// ============================================================================

const (
	EnvBaseURL    = "KPIVIEW_API_BASE_URL"
	EnvTimeout    = "KPIVIEW_TIMEOUT"
	EnvCatalog    = "KPIVIEW_CATALOG"
	EnvGroupLimit = "KPIVIEW_GROUP_LIMIT"

	DefaultBaseURL    = "http://127.0.0.1:8000/api"
	DefaultTimeout    = 30 * time.Second
	DefaultGroupLimit = 7
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	CatalogPath string
	GroupLimit  int
}

// Load reads .env (best effort) and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ kpiview: no .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	timeout, err := getEnvDurationOrDefault(EnvTimeout, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	limit, err := getEnvIntOrDefault(EnvGroupLimit, DefaultGroupLimit)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:     getEnvOrDefault(EnvBaseURL, DefaultBaseURL),
		Timeout:     timeout,
		CatalogPath: os.Getenv(EnvCatalog),
		GroupLimit:  limit,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidConfig, EnvBaseURL, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, EnvTimeout, c.Timeout)
	}
	if c.GroupLimit <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, EnvGroupLimit, c.GroupLimit)
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvCatalog, err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return n, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
