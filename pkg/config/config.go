// Package config loads engine configuration from the environment.
package config

import (
	"os"
	"time"
)

// Config holds engine configuration.
type Config struct {
	DataDir       string
	LogLevel      string
	ClauseConfig  string
	HistoryDB     string
	WatchInterval time.Duration
	OtelEnabled   bool
	OtelEndpoint  string
}

// Load loads configuration from environment variables.
func Load() *Config {
	dataDir := os.Getenv("IRAQAF_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	clauseConfig := os.Getenv("IRAQAF_CLAUSE_CONFIG")
	if clauseConfig == "" {
		clauseConfig = "config/clauses.yaml"
	}

	// Empty means the JSON-file history store is used instead of sqlite.
	historyDB := os.Getenv("IRAQAF_HISTORY_DB")

	watchInterval := 15 * time.Minute
	if raw := os.Getenv("IRAQAF_WATCH_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			watchInterval = d
		}
	}

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "localhost:4317"
	}

	return &Config{
		DataDir:       dataDir,
		LogLevel:      logLevel,
		ClauseConfig:  clauseConfig,
		HistoryDB:     historyDB,
		WatchInterval: watchInterval,
		OtelEnabled:   os.Getenv("IRAQAF_OTEL_ENABLED") == "true",
		OtelEndpoint:  otelEndpoint,
	}
}
