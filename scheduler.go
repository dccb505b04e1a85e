package main

import (
	"context"
	"time"
)

// Scheduler is the only source of delays in the workflow so tests can run
// the settle and verify phases on a virtual clock.
type Scheduler interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
	// AfterFunc runs fn once after d on its own goroutine.
	AfterFunc(d time.Duration, fn func())
}

type realScheduler struct{}

func (realScheduler) Now() time.Time {
	return time.Now()
}

func (realScheduler) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
