package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folioscope/internal/domain"
)

func validConfig() *Config {
	return &Config{
		BenchmarkTicker:   "^GSPC",
		PortfolioTickers:  []string{"AAPL", "GOOG", "AMZN"},
		StartDate:         "2017-01-01",
		EndDate:           "2022-03-31",
		NumberOfScenarios: 10000,
		DeltaRisk:         0.05,
		TradeDaysPerYear:  252,
		Workers:           1,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero scenarios", func(c *Config) { c.NumberOfScenarios = 0 }},
		{"negative scenarios", func(c *Config) { c.NumberOfScenarios = -5 }},
		{"delta risk zero", func(c *Config) { c.DeltaRisk = 0 }},
		{"delta risk one", func(c *Config) { c.DeltaRisk = 1 }},
		{"delta risk above one", func(c *Config) { c.DeltaRisk = 1.5 }},
		{"zero trade days", func(c *Config) { c.TradeDaysPerYear = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"missing benchmark", func(c *Config) { c.BenchmarkTicker = "" }},
		{"no tickers", func(c *Config) { c.PortfolioTickers = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfiguration)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FOLIOSCOPE_DATA_DIR", t.TempDir())
	t.Setenv("PORTFOLIO_TICKERS", "MSFT, NVDA ,TSLA")
	t.Setenv("NUMBER_OF_SCENARIOS", "500")
	t.Setenv("DELTA_RISK", "0.1")
	t.Setenv("WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"MSFT", "NVDA", "TSLA"}, cfg.PortfolioTickers)
	assert.Equal(t, 500, cfg.NumberOfScenarios)
	assert.InDelta(t, 0.1, cfg.DeltaRisk, 1e-12)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "^GSPC", cfg.BenchmarkTicker)
	assert.Equal(t, 252, cfg.TradeDaysPerYear)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("FOLIOSCOPE_DATA_DIR", t.TempDir())
	t.Setenv("DELTA_RISK", "2.0")

	_, err := Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
