package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Store settings
	DatabaseURL   string
	LookbackHours int // dedup window for already-persisted URLs
	RetentionDays int // articles older than this are purged

	// Source settings
	SourcesConfigPath string // empty = built-in registry

	// Fetch settings
	RequestTimeout   time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	RetryMaxDelay    time.Duration
	FetchConcurrency int           // sources fetched concurrently per batch
	FetchBatchPause  time.Duration // pause between fetch batches

	// Link validation settings
	LinkCheckTimeout   time.Duration
	LinkCheckBatchSize int
	LinkCacheTTLHours  int
	SkipLinkValidation bool

	// Selection settings
	FeaturedPerType int

	// App settings
	HealthCheckBackoff time.Duration
	Debug              bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		LookbackHours:      48,
		RetentionDays:      90,
		RequestTimeout:     10 * time.Second,
		RetryAttempts:      3,
		RetryDelay:         2 * time.Second,
		RetryMaxDelay:      30 * time.Second,
		FetchConcurrency:   10,
		FetchBatchPause:    1 * time.Second,
		LinkCheckTimeout:   5 * time.Second,
		LinkCheckBatchSize: 20,
		LinkCacheTTLHours:  24,
		FeaturedPerType:    5,
		HealthCheckBackoff: 30 * time.Second,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SourcesConfigPath = os.Getenv("SOURCES_CONFIG_PATH")

	cfg.LookbackHours = getEnvIntOrDefault("DEDUP_LOOKBACK_HOURS", cfg.LookbackHours)
	cfg.RetentionDays = getEnvIntOrDefault("RETENTION_DAYS", cfg.RetentionDays)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.LinkCheckBatchSize = getEnvIntOrDefault("LINK_CHECK_BATCH_SIZE", cfg.LinkCheckBatchSize)
	cfg.LinkCacheTTLHours = getEnvIntOrDefault("LINK_CACHE_TTL_HOURS", cfg.LinkCacheTTLHours)
	cfg.FeaturedPerType = getEnvIntOrDefault("FEATURED_PER_TYPE", cfg.FeaturedPerType)

	if v := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("RETRY_DELAY_SECONDS", 0); v > 0 {
		cfg.RetryDelay = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("LINK_CHECK_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.LinkCheckTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("FETCH_BATCH_PAUSE_MS", 0); v > 0 {
		cfg.FetchBatchPause = time.Duration(v) * time.Millisecond
	}
	if v := getEnvIntOrDefault("HEALTH_CHECK_BACKOFF_SECONDS", 0); v > 0 {
		cfg.HealthCheckBackoff = time.Duration(v) * time.Second
	}

	if os.Getenv("SKIP_LINK_VALIDATION") == "true" {
		cfg.SkipLinkValidation = true
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	if c.FeaturedPerType <= 0 {
		return fmt.Errorf("FEATURED_PER_TYPE must be positive")
	}
	return nil
}
