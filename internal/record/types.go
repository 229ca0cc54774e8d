// Package record contains the pure data model of the cave logger: timestamps,
// sampled readings and the tab-separated log line they serialize to.
// This package has NO external dependencies (no GPIO, I2C, filesystem or time.Sleep).
package record

import "time"

// Timestamp is the calendar time at acquisition. Seconds are kept for
// ordering but never written to the log.
type Timestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// FromTime converts a time.Time (in its own location) to a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Time returns the Timestamp as a time.Time in loc.
func (ts Timestamp) Time(loc *time.Location) time.Time {
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, loc)
}

// Compare returns -1, 0 or +1 depending on whether ts is before, equal to or
// after other. Fields are compared most significant first, so out-of-range
// field values from a faulty clock still give a total order.
func (ts Timestamp) Compare(other Timestamp) int {
	a := [...]int{ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second}
	b := [...]int{other.Year, other.Month, other.Day, other.Hour, other.Minute, other.Second}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Reading is one sampled observation.
type Reading struct {
	// TemperatureC is derived from the analog sample; out-of-range values are kept as-is.
	TemperatureC float64
	// CO2PPM is whatever the CO2 driver returned, including any sentinel.
	CO2PPM int
}

// Sentinels written in place of a faulted reading when fault sentinels are enabled.
const (
	CO2Fault         = -1
	TemperatureFault = -999.99
)

// LogRecord is the durable unit: one line in the append-only log.
type LogRecord struct {
	Timestamp Timestamp
	Reading   Reading
}
