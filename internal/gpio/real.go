//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "cave-logger"

// RealLine drives an output line on the Linux GPIO character device.
type RealLine struct {
	line *gpiocdev.Line
	pin  int
}

// OpenLine requests pin on chip as an output, initially inactive.
func OpenLine(chip string, pin int) (*RealLine, error) {
	l, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("request output pin %d on %s: %w", pin, chip, err)
	}
	return &RealLine{line: l, pin: pin}, nil
}

// SetValue drives the line.
func (r *RealLine) SetValue(value int) error {
	if err := r.line.SetValue(value); err != nil {
		return fmt.Errorf("set pin %d: %w", r.pin, err)
	}
	return nil
}

// Close releases the line.
// Reconfigures it as an input with pull-down (matching Pi boot defaults) first,
// so a powered-off peripheral is not back-fed through a driven pin.
func (r *RealLine) Close() error {
	var errs []error
	if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", r.pin, err))
	}
	if err := r.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", r.pin, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
