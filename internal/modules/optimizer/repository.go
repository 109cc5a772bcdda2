package optimizer

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"folioscope/internal/modules/metrics"
	"folioscope/internal/modules/simulation"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	created_at       INTEGER NOT NULL,
	benchmark_ticker TEXT NOT NULL,
	start_date       TEXT NOT NULL,
	end_date         TEXT NOT NULL,
	scenarios        INTEGER NOT NULL,
	delta_risk       REAL NOT NULL,
	trade_days       INTEGER NOT NULL,
	seed             INTEGER NOT NULL,
	benchmark_return REAL NOT NULL,
	benchmark_risk   REAL NOT NULL,
	optimal_return   REAL NOT NULL,
	optimal_risk     REAL NOT NULL,
	min_risk         REAL NOT NULL,
	max_risk         REAL NOT NULL,
	stat_min_return  REAL NOT NULL,
	stat_max_return  REAL NOT NULL,
	stat_min_risk    REAL NOT NULL,
	stat_max_risk    REAL NOT NULL,
	snapshot         BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS run_weights (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	ticker   TEXT NOT NULL,
	weight   REAL NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (run_id, ticker)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// snapshot is the msgpack-encoded blob stored per run: the price paths needed
// to re-render charts plus the scenario metric cloud.
type snapshot struct {
	Days            []string  `msgpack:"days"`
	BenchmarkPrices []float64 `msgpack:"benchmark_prices"`
	OptimalPrices   []float64 `msgpack:"optimal_prices"`
	Returns         []float64 `msgpack:"returns"`
	Risks           []float64 `msgpack:"risks"`
}

// Repository stores optimization runs in SQLite.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a run repository and ensures the schema exists.
func NewRepository(db *sql.DB, log zerolog.Logger) (*Repository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize runs schema: %w", err)
	}
	return &Repository{
		db:  db,
		log: log.With().Str("component", "run_repository").Logger(),
	}, nil
}

// Save persists a run, its per-asset weights and the population snapshot in
// one transaction.
func (r *Repository) Save(result *Result, scenarios []simulation.Record) error {
	snap := snapshot{
		Days:            result.Days,
		BenchmarkPrices: result.BenchmarkPrices,
		OptimalPrices:   result.OptimalPrices,
		Returns:         make([]float64, len(scenarios)),
		Risks:           make([]float64, len(scenarios)),
	}
	for i, rec := range scenarios {
		snap.Returns[i] = rec.Metrics.Return
		snap.Risks[i] = rec.Metrics.Risk
	}
	blob, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to encode population snapshot: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			id, created_at, benchmark_ticker, start_date, end_date,
			scenarios, delta_risk, trade_days, seed,
			benchmark_return, benchmark_risk, optimal_return, optimal_risk,
			min_risk, max_risk,
			stat_min_return, stat_max_return, stat_min_risk, stat_max_risk,
			snapshot
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.CreatedAt.Unix(), result.BenchmarkTicker, result.StartDate, result.EndDate,
		result.Scenarios, result.DeltaRisk, result.TradeDaysPerYear, int64(result.Seed),
		result.Benchmark.Daily.Return, result.Benchmark.Daily.Risk,
		result.Optimal.Daily.Return, result.Optimal.Daily.Risk,
		result.Boundaries.MinRisk, result.Boundaries.MaxRisk,
		result.Stats.MinReturn, result.Stats.MaxReturn, result.Stats.MinRisk, result.Stats.MaxRisk,
		blob,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, ticker := range result.Tickers {
		if _, err := tx.Exec(`
			INSERT INTO run_weights (run_id, ticker, weight, position) VALUES (?, ?, ?, ?)`,
			result.ID, ticker, result.Weights[ticker], i,
		); err != nil {
			return fmt.Errorf("failed to insert weight for %s: %w", ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	r.log.Info().Str("run_id", result.ID).Msg("Run persisted")
	return nil
}

// Get loads one run by ID, including its price paths.
func (r *Repository) Get(id string) (*Result, error) {
	row := r.db.QueryRow(`
		SELECT id, created_at, benchmark_ticker, start_date, end_date,
		       scenarios, delta_risk, trade_days, seed,
		       benchmark_return, benchmark_risk, optimal_return, optimal_risk,
		       min_risk, max_risk,
		       stat_min_return, stat_max_return, stat_min_risk, stat_max_risk,
		       snapshot
		FROM runs WHERE id = ?`, id)

	var result Result
	var createdAt, seed int64
	var blob []byte
	err := row.Scan(
		&result.ID, &createdAt, &result.BenchmarkTicker, &result.StartDate, &result.EndDate,
		&result.Scenarios, &result.DeltaRisk, &result.TradeDaysPerYear, &seed,
		&result.Benchmark.Daily.Return, &result.Benchmark.Daily.Risk,
		&result.Optimal.Daily.Return, &result.Optimal.Daily.Risk,
		&result.Boundaries.MinRisk, &result.Boundaries.MaxRisk,
		&result.Stats.MinReturn, &result.Stats.MaxReturn, &result.Stats.MinRisk, &result.Stats.MaxRisk,
		&blob,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	result.CreatedAt = time.Unix(createdAt, 0).UTC()
	result.Seed = uint64(seed)
	result.Benchmark.Annual = metrics.Annualize(result.Benchmark.Daily, result.TradeDaysPerYear)
	result.Optimal.Annual = metrics.Annualize(result.Optimal.Daily, result.TradeDaysPerYear)

	var snap snapshot
	if err := msgpack.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode population snapshot: %w", err)
	}
	result.Days = snap.Days
	result.BenchmarkPrices = snap.BenchmarkPrices
	result.OptimalPrices = snap.OptimalPrices

	result.Tickers, result.Weights, err = r.loadWeights(id)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns the most recent runs, newest first, without price paths.
func (r *Repository) List(limit int) ([]RunListing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, created_at, scenarios, trade_days,
		       optimal_return, optimal_risk
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var listings []RunListing
	for rows.Next() {
		var l RunListing
		var createdAt int64
		var tradeDays int
		if err := rows.Scan(&l.ID, &createdAt, &l.Scenarios, &tradeDays,
			&l.Optimal.Daily.Return, &l.Optimal.Daily.Risk); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		l.CreatedAt = time.Unix(createdAt, 0).UTC()
		l.Optimal.Annual = metrics.Annualize(l.Optimal.Daily, tradeDays)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *Repository) loadWeights(runID string) ([]string, map[string]float64, error) {
	rows, err := r.db.Query(`
		SELECT ticker, weight FROM run_weights WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load weights for run %s: %w", runID, err)
	}
	defer rows.Close()

	var tickers []string
	weights := make(map[string]float64)
	for rows.Next() {
		var ticker string
		var weight float64
		if err := rows.Scan(&ticker, &weight); err != nil {
			return nil, nil, fmt.Errorf("failed to scan weight row: %w", err)
		}
		tickers = append(tickers, ticker)
		weights[ticker] = weight
	}
	return tickers, weights, rows.Err()
}
