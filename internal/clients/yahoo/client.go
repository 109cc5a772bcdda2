// Package yahoo fetches historical daily prices from the Yahoo chart API.
package yahoo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// cacheTTL bounds how long a fetched range is reused. Daily closes only
// change once per trading day, so this only has to cover repeated runs.
const cacheTTL = 15 * time.Minute

// DailyClose is one trading day's closing price.
type DailyClose struct {
	Date  string // YYYY-MM-DD (UTC)
	Close float64
}

// Client retrieves daily closing prices. Responses are cached in memory per
// ticker and date range. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	closes    []DailyClose
	expiresAt time.Time
}

// NewClient creates a Yahoo chart API client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With().Str("component", "yahoo").Logger(),
		cache:      make(map[string]cacheEntry),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// DailyCloses returns the daily closing prices for a ticker over [start, end).
// Days with a missing or zero close are dropped.
func (c *Client) DailyCloses(ticker string, start, end time.Time) ([]DailyClose, error) {
	cacheKey := fmt.Sprintf("%s|%d|%d", ticker, start.Unix(), end.Unix())
	if closes, ok := c.getFromCache(cacheKey); ok {
		return closes, nil
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(ticker), start.Unix(), end.Unix())
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", ticker, err)
	}
	req.Header.Set("User-Agent", "curl/8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned status %d for %s", resp.StatusCode, ticker)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response for %s: %w", ticker, err)
	}

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no data returned for ticker %s", ticker)
	}

	timestamps := chart.Chart.Result[0].Timestamp
	closes := chart.Chart.Result[0].Indicators.Quote[0].Close

	out := make([]DailyClose, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		out = append(out, DailyClose{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: closes[i],
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid price points for ticker %s", ticker)
	}

	c.log.Debug().Str("ticker", ticker).Int("days", len(out)).Msg("Fetched daily closes")
	c.setCache(cacheKey, out)
	return out, nil
}

func (c *Client) getFromCache(key string) ([]DailyClose, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.closes, true
}

func (c *Client) setCache(key string, closes []DailyClose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{closes: closes, expiresAt: time.Now().Add(cacheTTL)}
}
