// Package simulation generates the Monte Carlo scenario population.
package simulation

import "folioscope/internal/domain"

// RecordKind tags population entries so the benchmark is distinguishable
// without relying on its position.
type RecordKind string

const (
	// KindBenchmark - the reference asset's own metrics, carries no weights.
	KindBenchmark RecordKind = "benchmark"
	// KindScenario - one randomly-weighted allocation and its metrics.
	KindScenario RecordKind = "scenario"
)

// Record is one entry of the scenario population.
type Record struct {
	Kind    RecordKind
	Metrics domain.MetricPair
	Weights domain.Weights // nil for the benchmark record
}

// Population is the ordered collection of simulation records. The engine is
// its only writer; it is read-only once a run completes.
type Population struct {
	records []Record
}

// NewPopulation creates a population seeded with the tagged benchmark record.
func NewPopulation(benchmark domain.MetricPair, scenarios int) *Population {
	p := &Population{records: make([]Record, 0, scenarios+1)}
	p.records = append(p.records, Record{Kind: KindBenchmark, Metrics: benchmark})
	return p
}

func (p *Population) append(rec Record) {
	p.records = append(p.records, rec)
}

// Benchmark returns the benchmark record.
func (p *Population) Benchmark() Record {
	for _, rec := range p.records {
		if rec.Kind == KindBenchmark {
			return rec
		}
	}
	return Record{}
}

// Scenarios returns the non-benchmark records in generation order.
func (p *Population) Scenarios() []Record {
	out := make([]Record, 0, len(p.records)-1)
	for _, rec := range p.records {
		if rec.Kind == KindScenario {
			out = append(out, rec)
		}
	}
	return out
}

// Records returns every record, benchmark first.
func (p *Population) Records() []Record {
	return p.records
}

// Len returns the total number of records including the benchmark.
func (p *Population) Len() int {
	return len(p.records)
}
