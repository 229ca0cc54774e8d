package rtc

import (
	"time"

	"github.com/sweeney/cave-logger/internal/record"
)

// FakeClock returns a timestamp that advances by Step on every call.
type FakeClock struct {
	Current time.Time
	Step    time.Duration

	// ReadError, if set, is returned by Now (with a zero timestamp).
	ReadError error

	// Calls counts Now calls.
	Calls int
}

// NewFakeClock creates a FakeClock starting at start.
func NewFakeClock(start time.Time, step time.Duration) *FakeClock {
	return &FakeClock{Current: start, Step: step}
}

// Now returns the current fake time and advances it.
func (f *FakeClock) Now() (record.Timestamp, error) {
	f.Calls++
	if f.ReadError != nil {
		return record.Timestamp{}, f.ReadError
	}
	ts := record.FromTime(f.Current)
	f.Current = f.Current.Add(f.Step)
	return ts, nil
}
