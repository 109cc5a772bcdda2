package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folioscope/internal/domain"
	"folioscope/internal/modules/simulation"
)

func scenariosFrom(returns, risks []float64) []simulation.Record {
	records := make([]simulation.Record, len(returns))
	for i := range returns {
		records[i] = simulation.Record{
			Kind:    simulation.KindScenario,
			Metrics: domain.MetricPair{Return: returns[i], Risk: risks[i]},
			Weights: domain.Weights{1.0},
		}
	}
	return records
}

func TestSelectPicksBestReturnWithinCeiling(t *testing.T) {
	scenarios := scenariosFrom(
		[]float64{0.10, 0.08, 0.12, 0.06},
		[]float64{0.05, 0.03, 0.08, 0.04},
	)

	// benchmarkRisk * (1 + delta) = 0.06: acceptable = {0, 1, 3}.
	sel, bounds, err := Select(scenarios, 0.05, 0.2)
	require.NoError(t, err)

	assert.Equal(t, 0, sel.Index)
	assert.InDelta(t, 0.10, sel.Metrics.Return, 1e-12)
	assert.InDelta(t, 0.03, bounds.MinRisk, 1e-12)
	assert.InDelta(t, 0.06, bounds.MaxRisk, 1e-12)
}

func TestSelectFallbackToMinRiskSet(t *testing.T) {
	scenarios := scenariosFrom(
		[]float64{0.10, 0.08, 0.12, 0.06},
		[]float64{0.05, 0.03, 0.08, 0.04},
	)

	// Ceiling 0.02: nothing acceptable, candidate set is risk == 0.03.
	sel, bounds, err := Select(scenarios, 0.02, 0.0)
	require.NoError(t, err)

	assert.Equal(t, 1, sel.Index)
	assert.InDelta(t, 0.08, sel.Metrics.Return, 1e-12)
	assert.InDelta(t, 0.02, bounds.MaxRisk, 1e-12)
}

func TestSelectSingleAcceptableTakesFallbackBranch(t *testing.T) {
	// Exactly one scenario under the ceiling. The policy does not hand it the
	// win directly; it rebuilds the candidate set from risk == minRisk. The
	// lone acceptable scenario necessarily carries the minimum risk, so it
	// still wins, but through the fallback branch.
	scenarios := scenariosFrom(
		[]float64{0.02, 0.15, 0.09},
		[]float64{0.010, 0.050, 0.011},
	)

	// Ceiling 0.0105: acceptable = {0} only.
	sel, bounds, err := Select(scenarios, 0.01, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Index)
	assert.InDelta(t, 0.010, bounds.MinRisk, 1e-12)

	// Two acceptable flips back to the normal branch: best return wins.
	scenarios = scenariosFrom(
		[]float64{0.02, 0.15, 0.09},
		[]float64{0.010, 0.050, 0.030},
	)
	sel, _, err = Select(scenarios, 0.03, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Index)
}

func TestSelectTieBreakFirstOccurrence(t *testing.T) {
	scenarios := scenariosFrom(
		[]float64{0.10, 0.10, 0.05},
		[]float64{0.02, 0.03, 0.02},
	)

	sel, _, err := Select(scenarios, 0.03, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Index)
}

func TestSelectEmptyPopulation(t *testing.T) {
	_, _, err := Select(nil, 0.05, 0.1)
	assert.ErrorIs(t, err, domain.ErrEmptyPopulation)
}

func TestSummarize(t *testing.T) {
	scenarios := scenariosFrom(
		[]float64{0.10, -0.02, 0.12, 0.06},
		[]float64{0.05, 0.03, 0.08, 0.04},
	)

	summary, err := Summarize(scenarios)
	require.NoError(t, err)
	assert.InDelta(t, -0.02, summary.MinReturn, 1e-12)
	assert.InDelta(t, 0.12, summary.MaxReturn, 1e-12)
	assert.InDelta(t, 0.03, summary.MinRisk, 1e-12)
	assert.InDelta(t, 0.08, summary.MaxRisk, 1e-12)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyPopulation)
}
