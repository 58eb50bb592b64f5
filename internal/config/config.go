package config

import (
	"fmt"
	"os"
	"strconv"

	"microgestion/internal/chart"
	"microgestion/internal/logger"
)

type Config struct {
	// Storage Configuration
	DatabasePath string

	// Accounting Configuration
	ChartFile string

	// Export Configuration
	ExportDir     string
	ExportWorkers int

	// Google Sheets Configuration (optional copy of each export)
	GoogleSheetURL string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	workers, err := strconv.Atoi(getEnv("EXPORT_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: EXPORT_WORKERS must be a number: %w", err)
	}

	config := &Config{
		DatabasePath:   getEnv("DATABASE_PATH", "./data/microgestion.db"),
		ChartFile:      getEnv("CHART_FILE", ""),
		ExportDir:      getEnv("EXPORT_DIR", "./exports"),
		ExportWorkers:  workers,
		GoogleSheetURL: getEnv("GOOGLE_SHEET_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	if c.ExportWorkers <= 0 {
		return fmt.Errorf("EXPORT_WORKERS must be positive, got %d", c.ExportWorkers)
	}
	return nil
}

// Chart loads the chart of accounts from CHART_FILE, or the built-in French chart.
func (c *Config) Chart() (*chart.Chart, error) {
	if c.ChartFile == "" {
		return chart.Default(), nil
	}
	ch, err := chart.LoadFile(c.ChartFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", c.ChartFile, err)
	}
	return ch, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
