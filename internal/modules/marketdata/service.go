// Package marketdata turns per-ticker price history into the calendar-aligned
// inputs the optimizer core consumes.
package marketdata

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"folioscope/internal/clients/yahoo"
	"folioscope/internal/domain"
)

// CloseFetcher retrieves daily closes for one ticker over a date range.
type CloseFetcher interface {
	DailyCloses(ticker string, start, end time.Time) ([]yahoo.DailyClose, error)
}

// Service fetches and aligns price history for the benchmark and the
// portfolio assets.
type Service struct {
	fetcher CloseFetcher
	log     zerolog.Logger
}

// NewService creates a market data service.
func NewService(fetcher CloseFetcher, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		log:     log.With().Str("component", "marketdata").Logger(),
	}
}

// FetchAligned retrieves daily closes for the benchmark and every portfolio
// ticker, keeps only the trading days present in all of them, and returns the
// benchmark series plus the aligned price matrix. Dates are YYYY-MM-DD.
func (s *Service) FetchAligned(benchmark string, tickers []string, startDate, endDate string) (domain.PriceSeries, *domain.PriceMatrix, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid start date %q", domain.ErrInvalidConfiguration, startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid end date %q", domain.ErrInvalidConfiguration, endDate)
	}
	if !end.After(start) {
		return nil, nil, fmt.Errorf("%w: end date %s not after start date %s", domain.ErrInvalidConfiguration, endDate, startDate)
	}

	all := append([]string{benchmark}, tickers...)
	closesByTicker := make(map[string]map[string]float64, len(all))
	for _, ticker := range all {
		closes, err := s.fetcher.DailyCloses(ticker, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch %s: %w", ticker, err)
		}
		byDate := make(map[string]float64, len(closes))
		for _, dc := range closes {
			byDate[dc.Date] = dc.Close
		}
		closesByTicker[ticker] = byDate
	}

	days := commonDays(closesByTicker, all)
	if len(days) < 2 {
		return nil, nil, fmt.Errorf("%w: only %d common trading days across %d tickers",
			domain.ErrInsufficientData, len(days), len(all))
	}

	benchmarkSeries := make(domain.PriceSeries, len(days))
	for i, day := range days {
		benchmarkSeries[i] = closesByTicker[benchmark][day]
	}

	matrix := &domain.PriceMatrix{
		Tickers: tickers,
		Days:    days,
		Prices:  make([]domain.PriceSeries, len(tickers)),
	}
	for a, ticker := range tickers {
		series := make(domain.PriceSeries, len(days))
		for i, day := range days {
			series[i] = closesByTicker[ticker][day]
		}
		matrix.Prices[a] = series
	}

	if err := matrix.Validate(); err != nil {
		return nil, nil, fmt.Errorf("aligned matrix invalid: %w", err)
	}

	s.log.Info().
		Int("tickers", len(tickers)).
		Int("common_days", len(days)).
		Str("first", days[0]).
		Str("last", days[len(days)-1]).
		Msg("Aligned price history")

	return benchmarkSeries, matrix, nil
}

// commonDays returns the sorted dates present in every ticker's close map.
func commonDays(closesByTicker map[string]map[string]float64, tickers []string) []string {
	var days []string
	for day := range closesByTicker[tickers[0]] {
		present := true
		for _, ticker := range tickers[1:] {
			if _, ok := closesByTicker[ticker][day]; !ok {
				present = false
				break
			}
		}
		if present {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}
