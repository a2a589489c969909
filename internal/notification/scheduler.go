package notification

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultSweepInterval is how often the scheduler triggers an overdue
// sweep.
const DefaultSweepInterval = time.Minute

// Sweeper runs one overdue sweep at the given instant.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time)
}

// Scheduler triggers the overdue sweep on a fixed interval. Sweeps run
// in their own goroutine with an in-flight guard, so a slow sweep is
// never stacked on top of by the next tick; the tick is skipped instead.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger
	running  atomic.Bool
}

// NewScheduler creates a scheduler for the sweeper. A non-positive
// interval falls back to DefaultSweepInterval.
func NewScheduler(sweeper Sweeper, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   log.With(slog.String("component", "overdue_scheduler")),
	}
}

// Run ticks until the context is cancelled. It is meant to be run as a
// goroutine alongside the server.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("overdue scheduler started",
		slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("overdue scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous sweep still running, skipping tick")
		return
	}

	go func() {
		defer s.running.Store(false)
		s.sweeper.Sweep(ctx, time.Now().UTC())
	}()
}
