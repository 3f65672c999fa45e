// Package workers runs the five independent periodic ticks that drive
// walker movement, health/territory/superboss regen, spell decay,
// in-game time, and territory capture polling.
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Worker is one tick-driven subsystem. Tick must not block longer than
// its own period under normal load; the scheduler skips (not queues) an
// overlapping tick rather than letting work pile up.
type Worker interface {
	Name() string
	Tick(ctx context.Context) error
}

// Scheduler drives a single Worker at a fixed period, generalizing the
// ai package's TickManager from a fan-out-over-controllers loop to a
// single periodic task, skip-if-overlapping and panic-isolated the same
// way.
type Scheduler struct {
	worker   Worker
	period   time.Duration
	running  atomic.Bool
	tickCount atomic.Int64
}

// NewScheduler constructs a Scheduler for the given worker and period.
func NewScheduler(worker Worker, period time.Duration) *Scheduler {
	return &Scheduler{worker: worker, period: period}
}

// TickCount returns the number of completed ticks, for metrics.
func (s *Scheduler) TickCount() int64 {
	return s.tickCount.Load()
}

// Run blocks until ctx is cancelled, firing Tick at the configured
// period. A tick still in flight when the next period elapses is
// skipped, never queued. Panics inside Tick are recovered, logged, and
// do not stop the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	slog.Info("worker started", "worker", s.worker.Name(), "period", s.period)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", "worker", s.worker.Name())
			return nil
		case <-ticker.C:
			s.tickOnce(ctx)
		}
	}
}

func (s *Scheduler) tickOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Debug("worker tick skipped, previous tick still running", "worker", s.worker.Name())
		return
	}
	defer s.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker tick panicked", "worker", s.worker.Name(), "panic", fmt.Sprint(r))
		}
	}()

	if err := s.worker.Tick(ctx); err != nil {
		slog.Error("worker tick failed", "worker", s.worker.Name(), "error", err)
		return
	}
	s.tickCount.Add(1)
}
