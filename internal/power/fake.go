package power

import (
	"context"
	"time"
)

// FakeSleeper records requested sleeps and returns immediately.
type FakeSleeper struct {
	// Sleeps contains every duration passed to Sleep.
	Sleeps []time.Duration

	// OnSleep, if set, is called on each sleep (e.g. to advance a fake clock).
	OnSleep func(d time.Duration)
}

// NewFakeSleeper creates a FakeSleeper.
func NewFakeSleeper() *FakeSleeper {
	return &FakeSleeper{}
}

// Sleep records d.
func (f *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.Sleeps = append(f.Sleeps, d)
	if f.OnSleep != nil {
		f.OnSleep(d)
	}
	return ctx.Err()
}
