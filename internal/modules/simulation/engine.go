package simulation

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"folioscope/internal/domain"
	"folioscope/internal/modules/metrics"
	"folioscope/internal/modules/sampling"
)

// progressInterval is how often scenario completion is reported. Coarse on
// purpose: reporting is an observability side effect, not a correctness one.
const progressInterval = 1000

// ProgressFunc receives coarse completion updates during a run. With more
// than one worker it is called concurrently from multiple goroutines, so
// implementations must be goroutine-safe.
type ProgressFunc func(completed, total int)

// Config holds engine parameters.
type Config struct {
	Seed       uint64
	Workers    int          // <= 1 runs the single-threaded path
	OnProgress ProgressFunc // optional
}

// Engine builds a scenario population by repeatedly drawing allocations and
// evaluating them against a price matrix. A run is deterministic for a fixed
// seed, scenario count and worker count.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates a scenario engine.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "simulation").Logger(),
	}
}

// Run produces a population of `scenarios` records plus the tagged benchmark
// record. Any single evaluation failure aborts the whole run: a malformed
// matrix affects every scenario identically, so retrying is pointless.
func (e *Engine) Run(ctx context.Context, matrix *domain.PriceMatrix, benchmark domain.MetricPair, scenarios int) (*Population, error) {
	if scenarios < 1 {
		return nil, fmt.Errorf("%w: scenario count %d, need at least 1", domain.ErrInvalidConfiguration, scenarios)
	}
	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price matrix: %w", err)
	}

	e.log.Info().
		Int("scenarios", scenarios).
		Int("assets", matrix.AssetCount()).
		Int("workers", e.cfg.Workers).
		Msg("Starting Monte Carlo simulation")

	var records []Record
	var err error
	if e.cfg.Workers == 1 {
		records, err = e.runSequential(ctx, matrix, scenarios)
	} else {
		records, err = e.runParallel(ctx, matrix, scenarios)
	}
	if err != nil {
		return nil, err
	}

	population := NewPopulation(benchmark, scenarios)
	for _, rec := range records {
		population.append(rec)
	}

	e.log.Info().Int("scenarios", scenarios).Msg("Monte Carlo simulation completed")
	return population, nil
}

func (e *Engine) runSequential(ctx context.Context, matrix *domain.PriceMatrix, scenarios int) ([]Record, error) {
	sampler := sampling.New(e.cfg.Seed)
	records := make([]Record, scenarios)

	for i := 0; i < scenarios; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := e.evaluateOne(sampler, matrix)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i+1, err)
		}
		records[i] = rec
		e.reportProgress(i+1, scenarios)
	}
	return records, nil
}

// runParallel partitions the draws across workers with one independent
// random stream each, then concatenates the partitions in worker order so
// the output is reproducible.
func (e *Engine) runParallel(ctx context.Context, matrix *domain.PriceMatrix, scenarios int) ([]Record, error) {
	workers := e.cfg.Workers
	if workers > scenarios {
		workers = scenarios
	}

	records := make([]Record, scenarios)
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	base := scenarios / workers
	extra := scenarios % workers

	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < extra {
			size++
		}
		chunk := records[start : start+size]
		worker := w
		g.Go(func() error {
			sampler := sampling.NewForWorker(e.cfg.Seed, worker)
			for i := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := e.evaluateOne(sampler, matrix)
				if err != nil {
					return fmt.Errorf("worker %d scenario %d: %w", worker, i+1, err)
				}
				chunk[i] = rec
				e.reportProgress(int(completed.Add(1)), scenarios)
			}
			return nil
		})
		start += size
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (e *Engine) evaluateOne(sampler *sampling.Sampler, matrix *domain.PriceMatrix) (Record, error) {
	weights, err := sampler.Draw(matrix.AssetCount())
	if err != nil {
		return Record{}, err
	}
	pair, err := metrics.Evaluate(weights, matrix)
	if err != nil {
		return Record{}, err
	}
	return Record{Kind: KindScenario, Metrics: pair, Weights: weights}, nil
}

func (e *Engine) reportProgress(completed, total int) {
	if completed != total && completed%progressInterval != 0 {
		return
	}
	e.log.Debug().Int("completed", completed).Int("total", total).Msg("Simulation progress")
	if e.cfg.OnProgress != nil {
		e.cfg.OnProgress(completed, total)
	}
}
