package metrics

import "folioscope/internal/domain"

// Annualize scales daily metrics to yearly metrics by the trading-day
// multiplier. Linear, no compounding and no clamping; used for reporting
// only, never for selection.
func Annualize(m domain.MetricPair, tradeDaysPerYear int) domain.MetricPair {
	d := float64(tradeDaysPerYear)
	return domain.MetricPair{
		Return: m.Return * d,
		Risk:   m.Risk * d,
	}
}
