// Package domain holds the core data types shared across the optimizer modules.
// The domain layer is pure: no storage, transport or logging dependencies.
package domain

import "fmt"

// PriceSeries is an ordered sequence of daily closing prices for one asset.
// Prices must be positive and the series must hold at least two points
// before it can produce a return.
type PriceSeries []float64

// Validate checks the series invariants: length >= 2 and strictly positive prices.
func (s PriceSeries) Validate() error {
	if len(s) < 2 {
		return fmt.Errorf("%w: price series has %d points, need at least 2", ErrInsufficientData, len(s))
	}
	for i, p := range s {
		if p <= 0 {
			return fmt.Errorf("%w: non-positive price %.6f at index %d", ErrInsufficientData, p, i)
		}
	}
	return nil
}

// PriceMatrix holds calendar-aligned daily closes for N assets.
// Prices is asset-major: Prices[i] is the full series for Tickers[i].
// All series share the same length and day ordering.
type PriceMatrix struct {
	Tickers []string
	Days    []string // YYYY-MM-DD, ascending
	Prices  []PriceSeries
}

// AssetCount returns the number of assets in the matrix.
func (m *PriceMatrix) AssetCount() int {
	return len(m.Prices)
}

// DayCount returns the number of aligned trading days.
func (m *PriceMatrix) DayCount() int {
	if len(m.Prices) == 0 {
		return 0
	}
	return len(m.Prices[0])
}

// Validate checks that every series is well-formed and aligned.
func (m *PriceMatrix) Validate() error {
	if len(m.Prices) == 0 {
		return fmt.Errorf("%w: price matrix has no assets", ErrInsufficientData)
	}
	days := len(m.Prices[0])
	for i, series := range m.Prices {
		if len(series) != days {
			return fmt.Errorf("%w: series %d has %d days, expected %d", ErrDimensionMismatch, i, len(series), days)
		}
		if err := series.Validate(); err != nil {
			return fmt.Errorf("series %d: %w", i, err)
		}
	}
	if len(m.Tickers) != 0 && len(m.Tickers) != len(m.Prices) {
		return fmt.Errorf("%w: %d tickers for %d series", ErrDimensionMismatch, len(m.Tickers), len(m.Prices))
	}
	return nil
}

// Weights is a non-negative allocation vector summing to 1.0, one entry per
// asset in the same order as the PriceMatrix asset axis.
type Weights []float64

// Sum returns the total of all weight components.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// MetricPair is the (mean daily return, daily risk) summary of a price series.
// Risk is the population standard deviation of the daily returns and is
// always non-negative. Immutable once computed.
type MetricPair struct {
	Return float64 `json:"return"`
	Risk   float64 `json:"risk"`
}
