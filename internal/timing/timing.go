// Package timing provides the blocking "wait for duration" capability used for
// stabilization delays and status pulses, with a fake for tests.
package timing

import (
	"context"
	"time"
)

// Waiter blocks for a duration.
type Waiter interface {
	// Wait blocks for d or until ctx is done, whichever comes first.
	// Returns ctx.Err() if the wait was cut short.
	Wait(ctx context.Context, d time.Duration) error
}

// RealWaiter waits on the wall clock.
type RealWaiter struct{}

// Wait blocks for d or until ctx is done.
func (RealWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
