// Package sampling draws random portfolio allocations uniformly over the
// unit simplex.
package sampling

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"

	"folioscope/internal/domain"
)

// Sampler draws Weights from the symmetric Dirichlet(1,...,1) distribution,
// the uniform distribution over non-negative vectors summing to 1. Each
// Sampler owns its own random stream, so callers can seed for reproducible
// runs and give each worker an independent stream.
//
// A Sampler is not safe for concurrent use; create one per goroutine.
type Sampler struct {
	src rand.Source
}

// New creates a Sampler seeded with the given value.
func New(seed uint64) *Sampler {
	return NewForWorker(seed, 0)
}

// NewForWorker creates a Sampler for one worker of a partitioned run. The
// worker index selects an independent PCG stream off the shared base seed,
// so parallel workers never share or correlate their draws.
func NewForWorker(seed uint64, worker int) *Sampler {
	return &Sampler{src: rand.NewPCG(seed, uint64(worker))}
}

// Draw returns a fresh allocation over n assets: non-negative components
// summing to 1 within floating tolerance. For n == 1 the only admissible
// allocation is [1.0].
func (s *Sampler) Draw(n int) (domain.Weights, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: asset count %d, need at least 1", domain.ErrInvalidConfiguration, n)
	}
	if n == 1 {
		return domain.Weights{1.0}, nil
	}

	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = 1.0
	}

	weights := make(domain.Weights, n)
	distmv.NewDirichlet(alpha, s.src).Rand(weights)
	return weights, nil
}
