// Package optimizer orchestrates a full optimization run: fetch, simulate,
// select, annualize, persist.
package optimizer

import (
	"time"

	"folioscope/internal/domain"
	"folioscope/internal/modules/selection"
)

// Performance pairs the daily metrics with their annualized form. The annual
// figures exist for reporting; selection only ever sees daily metrics.
type Performance struct {
	Daily  domain.MetricPair `json:"daily"`
	Annual domain.MetricPair `json:"annual"`
}

// Result is the complete outcome of one optimization run.
type Result struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Run parameters
	BenchmarkTicker  string   `json:"benchmark_ticker"`
	Tickers          []string `json:"tickers"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Scenarios        int      `json:"scenarios"`
	DeltaRisk        float64  `json:"delta_risk"`
	TradeDaysPerYear int      `json:"trade_days_per_year"`
	Seed             uint64   `json:"seed"`

	// Outcome
	Benchmark  Performance          `json:"benchmark"`
	Optimal    Performance          `json:"optimal"`
	Weights    map[string]float64   `json:"weights"` // ticker -> allocation
	Boundaries selection.Boundaries `json:"risk_boundaries"`
	Stats      selection.Summary    `json:"simulation_stats"`

	// Price paths retained for charting
	Days            []string           `json:"-"`
	BenchmarkPrices domain.PriceSeries `json:"-"`
	OptimalPrices   domain.PriceSeries `json:"-"`
}

// AllocationRow is one line of the allocation summary table.
type AllocationRow struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// RunListing is the lightweight view of a stored run, without price paths.
type RunListing struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Scenarios int       `json:"scenarios"`
	Optimal   Performance `json:"optimal"`
}
