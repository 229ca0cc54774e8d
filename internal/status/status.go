// Package status provides a thread-safe tracker of duty-cycle statistics.
// It is updated by the cycle controller and read by the status file writer
// and the per-cycle log summary.
package status

import (
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/cave-logger/internal/record"
)

// Counts are cumulative totals since boot.
type Counts struct {
	Cycles       int
	Records      int
	Skipped      int
	ClockFaults  int
	SensorFaults int
}

func (c Counts) String() string {
	return fmt.Sprintf("cycles=%d records=%d skipped=%d clock_faults=%d sensor_faults=%d",
		c.Cycles, c.Records, c.Skipped, c.ClockFaults, c.SensorFaults)
}

// Config contains logger configuration for display.
type Config struct {
	IntervalMs     int64
	StabilizeMs    int64
	LogPath        string
	FaultSentinels bool
}

// Snapshot is a point-in-time view of logger state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Phase     string
	Halted    bool
	Counts    Counts
	Last      *record.LogRecord
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the wall-clock duration since the logger booted, including
// time spent suspended.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Round(0).Sub(s.StartTime.Round(0))
}

// Tracker holds mutable logger state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given boot time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime.Round(0),
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetPhase records the controller's current phase.
func (t *Tracker) SetPhase(phase string) {
	t.mu.Lock()
	t.snap.Phase = phase
	t.mu.Unlock()
}

// SetHalted marks the logger as permanently stopped.
func (t *Tracker) SetHalted() {
	t.mu.Lock()
	t.snap.Halted = true
	t.mu.Unlock()
}

// CycleStarted counts a new duty cycle.
func (t *Tracker) CycleStarted() {
	t.mu.Lock()
	t.snap.Counts.Cycles++
	t.mu.Unlock()
}

// RecordLogged counts a durably appended record and remembers it as the last one.
func (t *Tracker) RecordLogged(rec record.LogRecord) {
	t.mu.Lock()
	t.snap.Counts.Records++
	t.snap.Last = &rec
	t.mu.Unlock()
}

// RecordSkipped counts a cycle that produced no record.
func (t *Tracker) RecordSkipped() {
	t.mu.Lock()
	t.snap.Counts.Skipped++
	t.mu.Unlock()
}

// ClockFault counts a failed clock read.
func (t *Tracker) ClockFault() {
	t.mu.Lock()
	t.snap.Counts.ClockFaults++
	t.mu.Unlock()
}

// SensorFault counts a failed sensor read.
func (t *Tracker) SensorFault() {
	t.mu.Lock()
	t.snap.Counts.SensorFaults++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the logger state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	s.Now = t.now().Round(0)
	return s
}
