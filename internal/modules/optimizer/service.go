package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"folioscope/internal/config"
	"folioscope/internal/modules/marketdata"
	"folioscope/internal/modules/metrics"
	"folioscope/internal/modules/selection"
	"folioscope/internal/modules/simulation"
)

// Service runs the end-to-end optimization workflow.
type Service struct {
	cfg    *config.Config
	market *marketdata.Service
	repo   *Repository // nil disables persistence
	engine *simulation.Engine
	log    zerolog.Logger
}

// NewService creates the optimizer service. onProgress may be nil; when set
// it receives coarse scenario-completion updates from the engine.
func NewService(cfg *config.Config, market *marketdata.Service, repo *Repository, onProgress simulation.ProgressFunc, log zerolog.Logger) *Service {
	engine := simulation.NewEngine(simulation.Config{
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
		OnProgress: onProgress,
	}, log)

	return &Service{
		cfg:    cfg,
		market: market,
		repo:   repo,
		engine: engine,
		log:    log.With().Str("component", "optimizer").Logger(),
	}
}

// Run executes one complete optimization: fetch aligned history, estimate the
// benchmark, simulate the scenario population, select the best allocation
// under the risk ceiling, annualize for reporting, and persist the result.
// Any failure aborts the run and propagates to the caller.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	s.log.Info().
		Str("benchmark", s.cfg.BenchmarkTicker).
		Strs("tickers", s.cfg.PortfolioTickers).
		Int("scenarios", s.cfg.NumberOfScenarios).
		Msg("Starting optimization run")

	benchmarkPrices, matrix, err := s.market.FetchAligned(
		s.cfg.BenchmarkTicker, s.cfg.PortfolioTickers, s.cfg.StartDate, s.cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare price data: %w", err)
	}

	benchmark, err := metrics.Estimate(benchmarkPrices)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate benchmark: %w", err)
	}
	s.log.Info().
		Float64("return", benchmark.Return).
		Float64("risk", benchmark.Risk).
		Msg("Benchmark analyzed")

	population, err := s.engine.Run(ctx, matrix, benchmark, s.cfg.NumberOfScenarios)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	scenarios := population.Scenarios()
	chosen, boundaries, err := selection.Select(scenarios, benchmark.Risk, s.cfg.DeltaRisk)
	if err != nil {
		return nil, fmt.Errorf("selection failed: %w", err)
	}
	stats, err := selection.Summarize(scenarios)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize population: %w", err)
	}

	optimalPrices, err := metrics.SyntheticSeries(chosen.Weights, matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild optimal price path: %w", err)
	}

	weights := make(map[string]float64, len(s.cfg.PortfolioTickers))
	for i, ticker := range s.cfg.PortfolioTickers {
		weights[ticker] = chosen.Weights[i]
	}

	result := &Result{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now().UTC(),
		BenchmarkTicker:  s.cfg.BenchmarkTicker,
		Tickers:          s.cfg.PortfolioTickers,
		StartDate:        s.cfg.StartDate,
		EndDate:          s.cfg.EndDate,
		Scenarios:        s.cfg.NumberOfScenarios,
		DeltaRisk:        s.cfg.DeltaRisk,
		TradeDaysPerYear: s.cfg.TradeDaysPerYear,
		Seed:             s.cfg.Seed,
		Benchmark: Performance{
			Daily:  benchmark,
			Annual: metrics.Annualize(benchmark, s.cfg.TradeDaysPerYear),
		},
		Optimal: Performance{
			Daily:  chosen.Metrics,
			Annual: metrics.Annualize(chosen.Metrics, s.cfg.TradeDaysPerYear),
		},
		Weights:         weights,
		Boundaries:      boundaries,
		Stats:           stats,
		Days:            matrix.Days,
		BenchmarkPrices: benchmarkPrices,
		OptimalPrices:   optimalPrices,
	}

	if s.repo != nil {
		if err := s.repo.Save(result, scenarios); err != nil {
			return nil, fmt.Errorf("failed to persist run: %w", err)
		}
	}

	s.log.Info().
		Str("run_id", result.ID).
		Float64("annual_return", result.Optimal.Annual.Return).
		Float64("annual_risk", result.Optimal.Annual.Risk).
		Msg("Optimization run completed")

	return result, nil
}
