// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"folioscope/internal/domain"
)

// Config holds application configuration
type Config struct {
	// Assets
	BenchmarkTicker  string   // Reference index, e.g. "^GSPC"
	PortfolioTickers []string // Assets the optimizer allocates over

	// Date range (YYYY-MM-DD)
	StartDate string
	EndDate   string

	// Optimization parameters
	NumberOfScenarios int
	DeltaRisk         float64 // Fractional tolerance above benchmark risk, in (0,1)
	TradeDaysPerYear  int
	Seed              uint64
	Workers           int

	// Service
	DataDir      string
	Port         int
	LogLevel     string
	DevMode      bool
	CronSchedule string // Empty disables scheduled re-optimization
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("FOLIOSCOPE_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		BenchmarkTicker:   getEnv("BENCHMARK_TICKER", "^GSPC"),
		PortfolioTickers:  splitTickers(getEnv("PORTFOLIO_TICKERS", "AAPL,GOOG,AMZN")),
		StartDate:         getEnv("START_DATE", "2017-01-01"),
		EndDate:           getEnv("END_DATE", "2022-03-31"),
		NumberOfScenarios: getEnvAsInt("NUMBER_OF_SCENARIOS", 10000),
		DeltaRisk:         getEnvAsFloat("DELTA_RISK", 0.05),
		TradeDaysPerYear:  getEnvAsInt("TRADE_DAYS_PER_YEAR", 252),
		Seed:              uint64(getEnvAsInt("RANDOM_SEED", 1)),
		Workers:           getEnvAsInt("WORKERS", 1),
		DataDir:           absDataDir,
		Port:              getEnvAsInt("PORT", 8001),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		CronSchedule:      getEnv("OPTIMIZE_CRON", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the optimization parameters. Violations reflect operator
// error, so they fail loudly before any work starts.
func (c *Config) Validate() error {
	if c.NumberOfScenarios <= 0 {
		return fmt.Errorf("%w: number of scenarios must be positive, got %d", domain.ErrInvalidConfiguration, c.NumberOfScenarios)
	}
	if c.DeltaRisk <= 0 || c.DeltaRisk >= 1 {
		return fmt.Errorf("%w: delta risk must be in (0,1), got %g", domain.ErrInvalidConfiguration, c.DeltaRisk)
	}
	if c.TradeDaysPerYear <= 0 {
		return fmt.Errorf("%w: trade days per year must be positive, got %d", domain.ErrInvalidConfiguration, c.TradeDaysPerYear)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", domain.ErrInvalidConfiguration, c.Workers)
	}
	if c.BenchmarkTicker == "" {
		return fmt.Errorf("%w: benchmark ticker is required", domain.ErrInvalidConfiguration)
	}
	if len(c.PortfolioTickers) == 0 {
		return fmt.Errorf("%w: at least one portfolio ticker is required", domain.ErrInvalidConfiguration)
	}
	return nil
}

func splitTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
