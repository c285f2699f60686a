package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rideshare-functions/internal/retention/domain"
)

// Job runs one sweep per target. A failed sweep does not stop the ones after
// it; all failures are joined into the returned error.
type Job struct {
	sweeper *Sweeper
	targets []domain.Target
	logger  *slog.Logger
}

func NewJob(sweeper *Sweeper, targets []domain.Target, logger *slog.Logger) *Job {
	return &Job{sweeper: sweeper, targets: targets, logger: logger.With("component", "retention_job")}
}

// Run sweeps every target using now as the cutoff.
func (j *Job) Run(ctx context.Context, now time.Time) ([]domain.Result, error) {
	log := j.logger.With("invocation_id", uuid.New().String())
	log.Info("retention run started", "cutoff", now, "targets", len(j.targets))

	results := make([]domain.Result, 0, len(j.targets))
	var errs []error
	for _, target := range j.targets {
		res, err := j.sweeper.Sweep(ctx, target, now)
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, err)
		}
		results = append(results, res)
	}

	if err := errors.Join(errs...); err != nil {
		log.Error("retention run finished with failures", "failed", len(errs), "error", err)
		return results, err
	}
	log.Info("retention run finished")
	return results, nil
}
