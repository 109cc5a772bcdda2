package marketdata

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folioscope/internal/clients/yahoo"
	"folioscope/internal/domain"
)

type fakeFetcher struct {
	closes map[string][]yahoo.DailyClose
	err    error
}

func (f *fakeFetcher) DailyCloses(ticker string, start, end time.Time) ([]yahoo.DailyClose, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.closes[ticker], nil
}

func TestFetchAlignedIntersectsDays(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"^GSPC": {
			{Date: "2022-01-03", Close: 4700},
			{Date: "2022-01-04", Close: 4720},
			{Date: "2022-01-05", Close: 4680},
			{Date: "2022-01-06", Close: 4690},
		},
		"AAPL": {
			{Date: "2022-01-03", Close: 182},
			{Date: "2022-01-04", Close: 179},
			// Jan 5 missing: halted, say
			{Date: "2022-01-06", Close: 172},
		},
		"GOOG": {
			{Date: "2022-01-03", Close: 2899},
			{Date: "2022-01-04", Close: 2888},
			{Date: "2022-01-05", Close: 2860},
			{Date: "2022-01-06", Close: 2751},
		},
	}}

	svc := NewService(fetcher, zerolog.Nop())
	benchmark, matrix, err := svc.FetchAligned("^GSPC", []string{"AAPL", "GOOG"}, "2022-01-01", "2022-01-10")
	require.NoError(t, err)

	// Jan 5 is dropped everywhere because AAPL lacks it.
	assert.Equal(t, []string{"2022-01-03", "2022-01-04", "2022-01-06"}, matrix.Days)
	assert.Equal(t, domain.PriceSeries{4700, 4720, 4690}, benchmark)
	require.Equal(t, 2, matrix.AssetCount())
	assert.Equal(t, domain.PriceSeries{182, 179, 172}, matrix.Prices[0])
	assert.Equal(t, domain.PriceSeries{2899, 2888, 2751}, matrix.Prices[1])
	assert.Equal(t, []string{"AAPL", "GOOG"}, matrix.Tickers)
}

func TestFetchAlignedTooFewCommonDays(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"^GSPC": {{Date: "2022-01-03", Close: 4700}},
		"AAPL":  {{Date: "2022-01-04", Close: 182}},
	}}

	svc := NewService(fetcher, zerolog.Nop())
	_, _, err := svc.FetchAligned("^GSPC", []string{"AAPL"}, "2022-01-01", "2022-01-10")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestFetchAlignedInvalidDates(t *testing.T) {
	svc := NewService(&fakeFetcher{}, zerolog.Nop())

	_, _, err := svc.FetchAligned("^GSPC", []string{"AAPL"}, "not-a-date", "2022-01-10")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, _, err = svc.FetchAligned("^GSPC", []string{"AAPL"}, "2022-01-10", "2022-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestFetchAlignedPropagatesFetchErrors(t *testing.T) {
	fetchErr := errors.New("rate limited")
	svc := NewService(&fakeFetcher{err: fetchErr}, zerolog.Nop())

	_, _, err := svc.FetchAligned("^GSPC", []string{"AAPL"}, "2022-01-01", "2022-01-10")
	assert.ErrorIs(t, err, fetchErr)
}
