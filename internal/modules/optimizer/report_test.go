package optimizer

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocationTableSortedByWeight(t *testing.T) {
	result, _ := sampleResult()
	result.Tickers = []string{"AAPL", "GOOG", "AMZN"}
	result.Weights = map[string]float64{"AAPL": 0.2, "GOOG": 0.5, "AMZN": 0.3}

	rows := AllocationTable(result)
	require.Len(t, rows, 3)
	assert.Equal(t, "GOOG", rows[0].Ticker)
	assert.Equal(t, "AMZN", rows[1].Ticker)
	assert.Equal(t, "AAPL", rows[2].Ticker)
}

func TestWriteCSV(t *testing.T) {
	result, _ := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header + one row per asset + benchmark row.
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Type", "Asset", "Weight", "Daily_Return", "Daily_Risk", "Annual_Return", "Annual_Risk"}, records[0])

	assert.Equal(t, "Optimal Portfolio", records[1][0])
	assert.Equal(t, "AAPL", records[1][1]) // highest weight first
	assert.Equal(t, "0.6", records[1][2])

	benchmark := records[3]
	assert.Equal(t, "Benchmark", benchmark[0])
	assert.Equal(t, "^GSPC", benchmark[1])
	assert.Equal(t, "1", benchmark[2])
}

func TestFormatSummary(t *testing.T) {
	result, _ := sampleResult()
	summary := FormatSummary(result)

	assert.Contains(t, summary, "Portfolio Optimization Results")
	assert.Contains(t, summary, "Benchmark (^GSPC)")
	assert.Contains(t, summary, "AAPL")
	assert.Contains(t, summary, "60.00%")
	assert.True(t, strings.HasSuffix(summary, "\n"))
}
