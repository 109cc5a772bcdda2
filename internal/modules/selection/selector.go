// Package selection picks the best allocation out of a scenario population
// under a benchmark-anchored risk ceiling.
package selection

import (
	"fmt"

	"folioscope/internal/domain"
	"folioscope/internal/modules/simulation"
)

// Boundaries is the risk corridor of one optimization run: the minimum risk
// observed across scenarios and the ceiling derived from the benchmark.
type Boundaries struct {
	MinRisk float64 `json:"min_risk"`
	MaxRisk float64 `json:"max_risk"`
}

// Summary holds population-wide extremes, used by reporting only.
type Summary struct {
	MinReturn float64 `json:"min_return"`
	MaxReturn float64 `json:"max_return"`
	MinRisk   float64 `json:"min_risk"`
	MaxRisk   float64 `json:"max_risk"`
}

// Selection is the chosen allocation: its metrics, weights, and position in
// the scenario slice.
type Selection struct {
	Metrics domain.MetricPair
	Weights domain.Weights
	Index   int
}

// Select applies the risk-constrained selection policy over the non-benchmark
// records.
//
// Policy: with maxRisk = benchmarkRisk * (1 + deltaRisk), collect the
// scenarios whose risk is at most maxRisk. When MORE THAN ONE qualifies, the
// highest-return one among them wins. Otherwise the candidate set is rebuilt
// as the scenarios whose risk exactly equals the observed minimum, and the
// highest-return one of those wins - even when that discards a single
// within-ceiling candidate. The threshold is deliberately "> 1", not ">= 1":
// the historical behavior is observable downstream and is preserved as is.
// Ties break on first occurrence, so output is deterministic for a fixed
// input order.
func Select(scenarios []simulation.Record, benchmarkRisk, deltaRisk float64) (Selection, Boundaries, error) {
	if len(scenarios) == 0 {
		return Selection{}, Boundaries{}, fmt.Errorf("%w: no scenarios to select from", domain.ErrEmptyPopulation)
	}

	minRisk := scenarios[0].Metrics.Risk
	for _, rec := range scenarios[1:] {
		if rec.Metrics.Risk < minRisk {
			minRisk = rec.Metrics.Risk
		}
	}
	boundaries := Boundaries{
		MinRisk: minRisk,
		MaxRisk: benchmarkRisk * (1 + deltaRisk),
	}

	var acceptable []int
	for i, rec := range scenarios {
		if rec.Metrics.Risk <= boundaries.MaxRisk {
			acceptable = append(acceptable, i)
		}
	}

	var candidates []int
	if len(acceptable) > 1 {
		candidates = acceptable
	} else {
		// Exact equality on the minimum computed above, so at least one
		// scenario always qualifies.
		for i, rec := range scenarios {
			if rec.Metrics.Risk == minRisk {
				candidates = append(candidates, i)
			}
		}
	}

	best := candidates[0]
	for _, i := range candidates[1:] {
		if scenarios[i].Metrics.Return > scenarios[best].Metrics.Return {
			best = i
		}
	}

	return Selection{
		Metrics: scenarios[best].Metrics,
		Weights: scenarios[best].Weights,
		Index:   best,
	}, boundaries, nil
}

// Summarize computes the population-wide min/max return and risk over the
// non-benchmark records.
func Summarize(scenarios []simulation.Record) (Summary, error) {
	if len(scenarios) == 0 {
		return Summary{}, fmt.Errorf("%w: no scenarios to summarize", domain.ErrEmptyPopulation)
	}

	s := Summary{
		MinReturn: scenarios[0].Metrics.Return,
		MaxReturn: scenarios[0].Metrics.Return,
		MinRisk:   scenarios[0].Metrics.Risk,
		MaxRisk:   scenarios[0].Metrics.Risk,
	}
	for _, rec := range scenarios[1:] {
		if rec.Metrics.Return < s.MinReturn {
			s.MinReturn = rec.Metrics.Return
		}
		if rec.Metrics.Return > s.MaxReturn {
			s.MaxReturn = rec.Metrics.Return
		}
		if rec.Metrics.Risk < s.MinRisk {
			s.MinRisk = rec.Metrics.Risk
		}
		if rec.Metrics.Risk > s.MaxRisk {
			s.MaxRisk = rec.Metrics.Risk
		}
	}
	return s, nil
}
