package optimizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// AllocationTable returns one row per asset, sorted by weight descending.
// Equal weights keep their configured ticker order.
func AllocationTable(result *Result) []AllocationRow {
	rows := make([]AllocationRow, 0, len(result.Tickers))
	for _, ticker := range result.Tickers {
		rows = append(rows, AllocationRow{Ticker: ticker, Weight: result.Weights[ticker]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Weight > rows[j].Weight
	})
	return rows
}

// WriteCSV exports a run in the flat results layout: one row per optimal
// portfolio asset followed by one benchmark row.
func WriteCSV(w io.Writer, result *Result) error {
	writer := csv.NewWriter(w)

	header := []string{"Type", "Asset", "Weight", "Daily_Return", "Daily_Risk", "Annual_Return", "Annual_Risk"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range AllocationTable(result) {
		record := []string{
			"Optimal Portfolio",
			row.Ticker,
			formatFloat(row.Weight),
			formatFloat(result.Optimal.Daily.Return),
			formatFloat(result.Optimal.Daily.Risk),
			formatFloat(result.Optimal.Annual.Return),
			formatFloat(result.Optimal.Annual.Risk),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	benchmark := []string{
		"Benchmark",
		result.BenchmarkTicker,
		"1",
		formatFloat(result.Benchmark.Daily.Return),
		formatFloat(result.Benchmark.Daily.Risk),
		formatFloat(result.Benchmark.Annual.Return),
		formatFloat(result.Benchmark.Annual.Risk),
	}
	if err := writer.Write(benchmark); err != nil {
		return fmt.Errorf("failed to write benchmark row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// FormatSummary renders a human-readable performance summary for CLI output.
func FormatSummary(result *Result) string {
	var b strings.Builder

	b.WriteString("Portfolio Optimization Results\n")
	b.WriteString("==============================\n\n")
	fmt.Fprintf(&b, "Optimal Portfolio:\n")
	fmt.Fprintf(&b, "  Annual Return: %.2f%%\n", result.Optimal.Annual.Return*100)
	fmt.Fprintf(&b, "  Annual Risk:   %.2f%%\n\n", result.Optimal.Annual.Risk*100)
	fmt.Fprintf(&b, "Benchmark (%s):\n", result.BenchmarkTicker)
	fmt.Fprintf(&b, "  Annual Return: %.2f%%\n", result.Benchmark.Annual.Return*100)
	fmt.Fprintf(&b, "  Annual Risk:   %.2f%%\n\n", result.Benchmark.Annual.Risk*100)
	fmt.Fprintf(&b, "Accepted Risk Zone: [%.6f, %.6f] (daily)\n\n", result.Boundaries.MinRisk, result.Boundaries.MaxRisk)
	b.WriteString("Portfolio Allocation:\n")
	for _, row := range AllocationTable(result) {
		fmt.Fprintf(&b, "  %-8s %6.2f%%\n", row.Ticker, row.Weight*100)
	}

	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
