// Package power switches the sensor cluster and storage device on and off and
// provides the low-power sleep used between duty cycles.
package power

import (
	"fmt"

	"github.com/sweeney/cave-logger/internal/gpio"
)

// Controller drives the sensor and storage power-enable lines together.
// The lines are fire-and-forget: there is no feedback that a rail came up.
type Controller struct {
	sensor  gpio.Line
	storage gpio.Line
}

// NewController creates a Controller over the two power-enable lines.
func NewController(sensor, storage gpio.Line) *Controller {
	return &Controller{sensor: sensor, storage: storage}
}

// PowerUp asserts both power-enable lines. Both lines are always written even
// if the first write fails.
func (c *Controller) PowerUp() error {
	return c.set(1)
}

// PowerDown de-asserts both power-enable lines.
func (c *Controller) PowerDown() error {
	return c.set(0)
}

func (c *Controller) set(v int) error {
	var errs []error
	if err := c.sensor.SetValue(v); err != nil {
		errs = append(errs, fmt.Errorf("sensor power: %w", err))
	}
	if err := c.storage.SetValue(v); err != nil {
		errs = append(errs, fmt.Errorf("storage power: %w", err))
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("power lines: %v", errs)
	}
}

// Close releases both lines.
func (c *Controller) Close() error {
	err1 := c.sensor.Close()
	err2 := c.storage.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
