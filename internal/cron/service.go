package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	"github.com/angelmondragon/darkstore-backend/pkg/metrics"
)

const (
	defaultInterval   = 5 * time.Minute
	defaultJobTimeout = time.Minute
)

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
	// JobTimeout bounds each job run; zero uses a one minute default.
	JobTimeout time.Duration
}

// Service runs the registered jobs once per interval, only on the replica
// that holds the lock.
type Service struct {
	logg       *logger.Logger
	jobs       []Job
	lock       Lock
	metrics    *metrics.CronJobMetrics
	interval   time.Duration
	jobTimeout time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.Lock == nil:
		return nil, errors.New("lock required")
	}
	s := &Service{
		logg:       params.Logger,
		lock:       params.Lock,
		metrics:    params.Metrics,
		interval:   params.Interval,
		jobTimeout: params.JobTimeout,
	}
	if params.Registry != nil {
		s.jobs = params.Registry.Jobs()
	}
	if s.interval <= 0 {
		s.interval = defaultInterval
	}
	if s.jobTimeout <= 0 {
		s.jobTimeout = defaultJobTimeout
	}
	return s, nil
}

// Run starts with an immediate cycle, then ticks until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithField(ctx, "component", "cron")
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"jobs":       len(s.jobs),
		"interval_s": s.interval.Seconds(),
	}), "cron started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		for _, err := range multierr.Errors(s.RunOnce(ctx)) {
			s.logg.Error(ctx, "cron cycle error", err)
		}
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes every job once under the lock. A failing job does not
// stop the rest; all failures come back combined.
func (s *Service) RunOnce(ctx context.Context) (err error) {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.metrics.IncSkipped()
		s.logg.Debug(ctx, "cron lock held elsewhere")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			err = multierr.Append(err, fmt.Errorf("lock release: %w", relErr))
		}
	}()

	for _, job := range s.jobs {
		err = multierr.Append(err, s.runJob(ctx, job))
	}
	return err
}

func (s *Service) runJob(ctx context.Context, job Job) (err error) {
	name := job.Name()
	ctx = s.logg.WithField(ctx, "job", name)
	jobCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRun(name, elapsed, err)
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
			return
		}
		s.logg.Info(s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds()), "cron job completed")
	}()
	return job.Run(jobCtx)
}
