// Package scheduler runs periodic maintenance jobs on a gocron scheduler.
package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// ErrInvalidInterval is returned for a non-positive job interval.
var ErrInvalidInterval = errors.New("job interval must be positive")

// Scheduler wraps a gocron scheduler. Jobs never overlap with themselves
// and first run one interval after Start.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

// New creates a scheduler whose clock runs in loc. A nil loc means UTC.
func New(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	s.WaitForScheduleAll()

	return &Scheduler{
		scheduler: s,
		logger:    logger.With(slog.String("component", "scheduler")),
	}
}

// Every registers fn to run every interval under name. A panic in fn is
// logged and does not stop later runs.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s got %s", ErrInvalidInterval, name, interval)
	}

	_, err := s.scheduler.Every(interval).Tag(name).Do(s.guard(name, fn))
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	s.logger.Debug("job scheduled",
		slog.String("job", name),
		slog.Duration("interval", interval))
	return nil
}

func (s *Scheduler) guard(name string, fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("scheduled job panicked",
					slog.String("job", name),
					slog.Any("panic", r))
			}
		}()
		fn()
	}
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return s.scheduler.Len()
}

// RunAll runs every job once, immediately.
func (s *Scheduler) RunAll() {
	s.scheduler.RunAll()
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", slog.Int("jobs", s.scheduler.Len()))
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("scheduler stopped")
}
