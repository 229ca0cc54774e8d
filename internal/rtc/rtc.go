// Package rtc provides the calendar clock the logger timestamps readings with.
package rtc

import (
	"time"

	"github.com/sweeney/cave-logger/internal/record"
)

// Clock returns the current calendar time.
type Clock interface {
	Now() (record.Timestamp, error)
}

// SystemClock reads the host clock (kept by the kernel from its own RTC).
type SystemClock struct {
	// Location defaults to time.Local.
	Location *time.Location
}

// Now returns the host time.
func (c SystemClock) Now() (record.Timestamp, error) {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return record.FromTime(time.Now().In(loc)), nil
}
