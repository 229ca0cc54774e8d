package timing

import (
	"context"
	"time"
)

// FakeWaiter records requested waits and returns immediately.
type FakeWaiter struct {
	// Waits contains every duration passed to Wait, in call order.
	Waits []time.Duration

	// OnWait, if set, is called for each wait before it is recorded.
	OnWait func(d time.Duration)
}

// NewFakeWaiter creates a FakeWaiter.
func NewFakeWaiter() *FakeWaiter {
	return &FakeWaiter{}
}

// Wait records d. It still honours an already-cancelled context.
func (f *FakeWaiter) Wait(ctx context.Context, d time.Duration) error {
	if f.OnWait != nil {
		f.OnWait(d)
	}
	f.Waits = append(f.Waits, d)
	return ctx.Err()
}

// Total returns the sum of all recorded waits.
func (f *FakeWaiter) Total() time.Duration {
	var sum time.Duration
	for _, d := range f.Waits {
		sum += d
	}
	return sum
}

// Reset clears recorded waits.
func (f *FakeWaiter) Reset() {
	f.Waits = nil
}
