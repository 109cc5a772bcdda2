package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"folioscope/internal/clients/yahoo"
	"folioscope/internal/config"
	"folioscope/internal/database"
	"folioscope/internal/modules/marketdata"
	"folioscope/internal/modules/optimizer"
	"folioscope/internal/scheduler"
	"folioscope/internal/server"
	"folioscope/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Folioscope")

	// Initialize database
	db, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "results.db"),
		Name: "results",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	repo, err := optimizer.NewRepository(db.Conn(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize run repository")
	}

	// Wire the optimization pipeline
	market := marketdata.NewService(yahoo.NewClient(log), log)
	events := server.NewEventBus()
	svc := optimizer.NewService(cfg, market, repo, func(completed, total int) {
		events.Publish(server.ProgressEvent{Completed: completed, Total: total, At: time.Now()})
	}, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	if cfg.CronSchedule != "" {
		if err := sched.AddJob(cfg.CronSchedule, scheduler.NewOptimizeJob(svc, log)); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.CronSchedule).Msg("Failed to register optimize job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Optimizer: svc,
		Runs:      repo,
		Events:    events,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
