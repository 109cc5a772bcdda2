package metrics

import (
	"fmt"

	"folioscope/internal/domain"
)

// SyntheticSeries builds the per-day portfolio price implied by an allocation:
// the weighted sum across assets for each trading day.
func SyntheticSeries(weights domain.Weights, matrix *domain.PriceMatrix) (domain.PriceSeries, error) {
	if len(weights) != matrix.AssetCount() {
		return nil, fmt.Errorf("%w: %d weights for %d assets",
			domain.ErrDimensionMismatch, len(weights), matrix.AssetCount())
	}

	days := matrix.DayCount()
	series := make(domain.PriceSeries, days)
	for d := 0; d < days; d++ {
		var price float64
		for a, w := range weights {
			price += w * matrix.Prices[a][d]
		}
		series[d] = price
	}
	return series, nil
}

// Evaluate computes the MetricPair of one allocation against a price matrix
// by estimating the synthetic portfolio price series.
func Evaluate(weights domain.Weights, matrix *domain.PriceMatrix) (domain.MetricPair, error) {
	series, err := SyntheticSeries(weights, matrix)
	if err != nil {
		return domain.MetricPair{}, err
	}
	return Estimate(series)
}
