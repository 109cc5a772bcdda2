package optimizer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folioscope/internal/database"
	"folioscope/internal/domain"
	"folioscope/internal/modules/selection"
	"folioscope/internal/modules/simulation"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(database.Config{
		Path: "file:" + t.Name() + "?mode=memory&cache=shared",
		Name: "results",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, err)
	return repo
}

func sampleResult() (*Result, []simulation.Record) {
	result := &Result{
		ID:               "run-1",
		CreatedAt:        time.Date(2022, 3, 31, 12, 0, 0, 0, time.UTC),
		BenchmarkTicker:  "^GSPC",
		Tickers:          []string{"AAPL", "GOOG"},
		StartDate:        "2017-01-01",
		EndDate:          "2022-03-31",
		Scenarios:        2,
		DeltaRisk:        0.05,
		TradeDaysPerYear: 252,
		Seed:             42,
		Benchmark: Performance{
			Daily:  domain.MetricPair{Return: 0.0005, Risk: 0.01},
			Annual: domain.MetricPair{Return: 0.126, Risk: 2.52},
		},
		Optimal: Performance{
			Daily:  domain.MetricPair{Return: 0.0008, Risk: 0.009},
			Annual: domain.MetricPair{Return: 0.2016, Risk: 2.268},
		},
		Weights:    map[string]float64{"AAPL": 0.6, "GOOG": 0.4},
		Boundaries: selection.Boundaries{MinRisk: 0.008, MaxRisk: 0.0105},
		Stats:      selection.Summary{MinReturn: -0.001, MaxReturn: 0.001, MinRisk: 0.008, MaxRisk: 0.02},
		Days:       []string{"2022-01-03", "2022-01-04"},
		BenchmarkPrices: domain.PriceSeries{4700, 4720},
		OptimalPrices:   domain.PriceSeries{150, 151},
	}
	scenarios := []simulation.Record{
		{Kind: simulation.KindScenario, Metrics: domain.MetricPair{Return: 0.0008, Risk: 0.009}},
		{Kind: simulation.KindScenario, Metrics: domain.MetricPair{Return: -0.001, Risk: 0.02}},
	}
	return result, scenarios
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	result, scenarios := sampleResult()

	require.NoError(t, repo.Save(result, scenarios))

	loaded, err := repo.Get("run-1")
	require.NoError(t, err)

	assert.Equal(t, result.ID, loaded.ID)
	assert.Equal(t, result.CreatedAt, loaded.CreatedAt)
	assert.Equal(t, result.BenchmarkTicker, loaded.BenchmarkTicker)
	assert.Equal(t, result.Tickers, loaded.Tickers)
	assert.Equal(t, result.Weights, loaded.Weights)
	assert.Equal(t, result.Benchmark.Daily, loaded.Benchmark.Daily)
	assert.Equal(t, result.Optimal.Daily, loaded.Optimal.Daily)
	assert.Equal(t, result.Boundaries, loaded.Boundaries)
	assert.Equal(t, result.Stats, loaded.Stats)
	assert.Equal(t, result.Days, loaded.Days)
	assert.Equal(t, result.BenchmarkPrices, loaded.BenchmarkPrices)
	assert.Equal(t, result.OptimalPrices, loaded.OptimalPrices)
	assert.Equal(t, result.Seed, loaded.Seed)

	// Annual metrics are recomputed from daily on load.
	assert.InDelta(t, result.Optimal.Daily.Return*252, loaded.Optimal.Annual.Return, 1e-12)
}

func TestGetUnknownRun(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	first, scenarios := sampleResult()
	require.NoError(t, repo.Save(first, scenarios))

	second, _ := sampleResult()
	second.ID = "run-2"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Save(second, scenarios))

	listings, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "run-2", listings[0].ID)
	assert.Equal(t, "run-1", listings[1].ID)
	assert.InDelta(t, first.Optimal.Daily.Return*252, listings[1].Optimal.Annual.Return, 1e-12)

	limited, err := repo.List(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
