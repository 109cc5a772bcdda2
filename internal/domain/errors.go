package domain

import "errors"

// Sentinel errors for the failure kinds the core can raise. All of them mean
// malformed input; the core never retries or recovers, callers decide how to
// surface them.
var (
	// ErrInsufficientData - a price series is too short, empty, or holds
	// non-positive prices.
	ErrInsufficientData = errors.New("insufficient price data")

	// ErrDimensionMismatch - a weights vector does not match the asset count
	// of the price matrix it is applied to.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidConfiguration - scenario count, delta risk or trade days
	// outside their valid ranges.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyPopulation - selection attempted over zero scenarios.
	ErrEmptyPopulation = errors.New("empty scenario population")
)
