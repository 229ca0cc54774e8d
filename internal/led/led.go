// Package led drives the status indicator: the operator's only view of the logger.
package led

import (
	"context"
	"time"

	"github.com/womat/debug"

	"github.com/sweeney/cave-logger/internal/gpio"
	"github.com/sweeney/cave-logger/internal/timing"
)

// Default pulse timing.
const (
	DefaultOn  = time.Second
	DefaultOff = time.Second
)

// Indicator pulses a single LED line.
type Indicator struct {
	line   gpio.Line
	waiter timing.Waiter
}

// NewIndicator creates an Indicator on line, timing pulses with w.
func NewIndicator(line gpio.Line, w timing.Waiter) *Indicator {
	return &Indicator{line: line, waiter: w}
}

// Pulse toggles the LED count times, on for on and off for off. It blocks for
// the whole sequence. Line errors are logged and otherwise ignored; if ctx is
// cancelled the LED is switched off and Pulse returns early.
func (i *Indicator) Pulse(ctx context.Context, count int, on, off time.Duration) {
	for n := 0; n < count; n++ {
		i.set(1)
		err := i.waiter.Wait(ctx, on)
		i.set(0)
		if err != nil {
			return
		}
		if err := i.waiter.Wait(ctx, off); err != nil {
			return
		}
	}
}

func (i *Indicator) set(v int) {
	if err := i.line.SetValue(v); err != nil {
		debug.ErrorLog.Printf("status led: %v", err)
	}
}

// Close switches the LED off and releases the line.
func (i *Indicator) Close() error {
	i.set(0)
	return i.line.Close()
}
