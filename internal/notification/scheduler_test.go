package notification

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls   atomic.Int32
	release chan struct{} // when non-nil, Sweep blocks until closed
}

func (s *countingSweeper) Sweep(context.Context, time.Time) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
}

func TestSchedulerRunsSweepOnInterval(t *testing.T) {
	t.Parallel()

	sweeper := &countingSweeper{}
	scheduler := NewScheduler(sweeper, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond, "expected at least two sweeps")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}

func TestSchedulerSkipsTickWhileSweepRunning(t *testing.T) {
	t.Parallel()

	sweeper := &countingSweeper{release: make(chan struct{})}
	scheduler := NewScheduler(sweeper, time.Minute, nil)

	ctx := context.Background()
	scheduler.tick(ctx)

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() == 1
	}, time.Second, time.Millisecond)

	// First sweep is still blocked; further ticks must be dropped.
	scheduler.tick(ctx)
	scheduler.tick(ctx)
	assert.Equal(t, int32(1), sweeper.calls.Load())

	close(sweeper.release)

	assert.Eventually(t, func() bool {
		scheduler.tick(ctx)
		return sweeper.calls.Load() >= 2
	}, time.Second, time.Millisecond, "ticks should resume after the sweep finishes")
}

func TestNewSchedulerDefaultsInterval(t *testing.T) {
	t.Parallel()

	scheduler := NewScheduler(&countingSweeper{}, 0, nil)
	assert.Equal(t, DefaultSweepInterval, scheduler.interval)
}
