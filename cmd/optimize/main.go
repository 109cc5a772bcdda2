// Command optimize performs a single optimization run from the command line
// and prints the resulting allocation. Results are optionally written to CSV
// and rendered as a comparison chart.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"folioscope/internal/clients/yahoo"
	"folioscope/internal/config"
	"folioscope/internal/modules/charts"
	"folioscope/internal/modules/marketdata"
	"folioscope/internal/modules/optimizer"
	"folioscope/pkg/logger"
)

func main() {
	csvPath := flag.String("csv", "", "write the allocation to this CSV file")
	chartPath := flag.String("chart", "", "render the benchmark comparison chart to this PNG file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	market := marketdata.NewService(yahoo.NewClient(log), log)
	svc := optimizer.NewService(cfg, market, nil, func(completed, total int) {
		log.Info().Int("completed", completed).Int("total", total).Msg("Simulation progress")
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Optimization failed")
	}

	fmt.Print(optimizer.FormatSummary(result))

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *csvPath).Msg("Failed to create CSV file")
		}
		if err := optimizer.WriteCSV(f, result); err != nil {
			f.Close()
			log.Fatal().Err(err).Msg("Failed to write CSV")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Msg("Failed to close CSV file")
		}
		log.Info().Str("path", *csvPath).Msg("Allocation written")
	}

	if *chartPath != "" {
		png, err := charts.RenderComparison(result)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render chart")
		}
		if err := os.WriteFile(*chartPath, png, 0644); err != nil {
			log.Fatal().Err(err).Str("path", *chartPath).Msg("Failed to write chart")
		}
		log.Info().Str("path", *chartPath).Msg("Chart written")
	}
}
