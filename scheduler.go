package main

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"github.com/rs/zerolog"
)

// Scheduler runs a job on every tick of a cron expression until its context
// is cancelled.
type Scheduler struct {
	expr string
	job  func(ctx context.Context) error
	now  func() time.Time
	log  zerolog.Logger
}

func NewScheduler(expr string, job func(ctx context.Context) error, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		expr: expr,
		job:  job,
		now:  time.Now,
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start blocks until ctx is done. A failed job is logged and the scheduler
// waits for the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	for ctx.Err() == nil {
		next, err := s.nextRun()
		if err != nil {
			return err
		}
		wait := next.Sub(s.now())
		s.log.Info().Time("next_run", next).Dur("wait", wait).Msg("Waiting for next run")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("Scheduler stopped")
			return nil
		case <-timer.C:
			s.log.Info().Time("at", s.now()).Msg("Running scheduled podcast")
			if err := s.job(ctx); err != nil {
				s.log.Error().Err(err).Msg("Scheduled run failed")
			}
		}
	}
	return nil
}

func (s *Scheduler) nextRun() (time.Time, error) {
	next, err := gronx.NextTickAfter(s.expr, s.now(), false)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to compute next run for %q: %w", s.expr, err)
	}
	return next, nil
}
