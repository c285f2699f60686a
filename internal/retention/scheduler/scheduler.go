package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"rideshare-functions/internal/retention/domain"
)

// Runner is the job the scheduler fires
type Runner interface {
	Run(ctx context.Context, now time.Time) ([]domain.Result, error)
}

// RetentionScheduler fires the retention job on a cron schedule in a fixed time zone
type RetentionScheduler struct {
	job      Runner
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRetentionScheduler creates a new scheduler. schedule is a standard
// five-field cron expression evaluated in timezone.
func NewRetentionScheduler(job Runner, schedule, timezone string, timeout time.Duration, logger *slog.Logger) (*RetentionScheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", timezone, err)
	}

	s := &RetentionScheduler{
		job:      job,
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		timeout:  timeout,
		logger:   logger.With("component", "retention_scheduler"),
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins the scheduler loop
func (s *RetentionScheduler) Start() {
	s.logger.Info("starting retention scheduler", "schedule", s.schedule, "location", s.cron.Location().String())
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running sweep to finish
func (s *RetentionScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

// Next returns the next time the job will fire.
func (s *RetentionScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().In(s.cron.Location()))
}

func (s *RetentionScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.job.Run(ctx, time.Now()); err != nil {
		s.logger.Error("scheduled retention run failed", "error", err)
	}
}
