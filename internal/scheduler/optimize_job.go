package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"folioscope/internal/modules/optimizer"
)

// optimizeTimeout bounds one scheduled optimization, data fetch included.
const optimizeTimeout = 30 * time.Minute

// OptimizeJob re-runs the portfolio optimization and persists the result.
type OptimizeJob struct {
	svc *optimizer.Service
	log zerolog.Logger
}

// NewOptimizeJob creates the scheduled optimization job.
func NewOptimizeJob(svc *optimizer.Service, log zerolog.Logger) *OptimizeJob {
	return &OptimizeJob{
		svc: svc,
		log: log.With().Str("component", "optimize_job").Logger(),
	}
}

// Name implements Job.
func (j *OptimizeJob) Name() string {
	return "optimize"
}

// Run implements Job.
func (j *OptimizeJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), optimizeTimeout)
	defer cancel()

	result, err := j.svc.Run(ctx)
	if err != nil {
		return err
	}

	j.log.Info().
		Str("run_id", result.ID).
		Float64("annual_return", result.Optimal.Annual.Return).
		Float64("annual_risk", result.Optimal.Annual.Risk).
		Msg("Scheduled optimization stored")
	return nil
}
