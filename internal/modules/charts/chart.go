// Package charts renders optimization results as PNG images.
package charts

import (
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"folioscope/internal/modules/optimizer"
)

// RenderComparison draws the chosen portfolio's synthetic price path against
// the benchmark, both normalized to 100 at the first common trading day, so
// the two are visually comparable regardless of price level.
func RenderComparison(result *optimizer.Result) ([]byte, error) {
	if len(result.OptimalPrices) < 2 || len(result.BenchmarkPrices) < 2 {
		return nil, fmt.Errorf("run %s has no price paths to chart", result.ID)
	}

	optimal := normalize(result.OptimalPrices)
	benchmark := normalize(result.BenchmarkPrices)

	xLabels := make([]string, len(result.Days))
	copy(xLabels, result.Days)

	split := len(xLabels) / 8
	if split < 1 {
		split = 1
	}

	title := fmt.Sprintf("Optimal Portfolio vs %s", result.BenchmarkTicker)
	subtitle := fmt.Sprintf("Annual Return: %.2f%% | Annual Risk: %.2f%% | Scenarios: %d",
		result.Optimal.Annual.Return*100, result.Optimal.Annual.Risk*100, result.Scenarios)

	painter, err := charts.LineRender([][]float64{optimal, benchmark},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: split,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Optimal Portfolio", result.BenchmarkTicker},
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return img, nil
}

// normalize rescales a price path to start at 100.
func normalize(prices []float64) []float64 {
	out := make([]float64, len(prices))
	base := prices[0]
	for i, p := range prices {
		out[i] = p / base * 100
	}
	return out
}
