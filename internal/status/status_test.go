package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/cave-logger/internal/record"
)

var scenario = record.LogRecord{
	Timestamp: record.Timestamp{Day: 15, Month: 3, Year: 2024, Hour: 14, Minute: 30},
	Reading:   record.Reading{TemperatureC: 22.56, CO2PPM: 410},
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{IntervalMs: 10800000, StabilizeMs: 6000, LogPath: "/mnt/sd/datalog.txt"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.IntervalMs != 10800000 {
		t.Errorf("Config.IntervalMs: got %d, want 10800000", snap.Config.IntervalMs)
	}
	if snap.Config.LogPath != "/mnt/sd/datalog.txt" {
		t.Errorf("Config.LogPath: got %q", snap.Config.LogPath)
	}
	if snap.Halted {
		t.Error("expected Halted=false initially")
	}
	if snap.Last != nil {
		t.Error("expected no last record initially")
	}
	if snap.Counts != (Counts{}) {
		t.Errorf("Counts: got %+v, want zero", snap.Counts)
	}
}

func TestCounters(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.CycleStarted()
	tr.CycleStarted()
	tr.CycleStarted()
	tr.RecordLogged(scenario)
	tr.RecordSkipped()
	tr.ClockFault()
	tr.SensorFault()
	tr.SensorFault()

	want := Counts{Cycles: 3, Records: 1, Skipped: 1, ClockFaults: 1, SensorFaults: 2}
	if got := tr.Snapshot().Counts; got != want {
		t.Errorf("Counts: got %+v, want %+v", got, want)
	}
}

func TestCountsString(t *testing.T) {
	c := Counts{Cycles: 3, Records: 2, Skipped: 1}
	want := "cycles=3 records=2 skipped=1 clock_faults=0 sensor_faults=0"
	if c.String() != want {
		t.Errorf("String: got %q, want %q", c.String(), want)
	}
}

func TestPhaseAndHalted(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetPhase("Sleeping")
	if got := tr.Snapshot().Phase; got != "Sleeping" {
		t.Errorf("Phase: got %q, want Sleeping", got)
	}

	tr.SetHalted()
	if !tr.Snapshot().Halted {
		t.Error("expected Halted=true")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(3 * time.Hour),
	}

	if snap.Uptime() != 3*time.Hour {
		t.Errorf("Uptime: got %v, want 3h", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotUsesWallClock(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	snap := tr.Snapshot()

	if strings.Contains(snap.StartTime.String(), "m=") {
		t.Errorf("StartTime carries a monotonic reading: %v", snap.StartTime)
	}
	if strings.Contains(snap.Now.String(), "m=") {
		t.Errorf("Now carries a monotonic reading: %v", snap.Now)
	}
	if snap.Uptime() < 0 {
		t.Errorf("Uptime: got %v, want >= 0", snap.Uptime())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.RecordLogged(scenario)

	snap1 := tr.Snapshot()
	snap1.Last.Reading.CO2PPM = 9999

	next := scenario
	next.Reading.CO2PPM = 500
	tr.RecordLogged(next)

	snap2 := tr.Snapshot()
	if snap1.Counts.Records != 1 {
		t.Errorf("snapshot should be a copy; Records changed to %d", snap1.Counts.Records)
	}
	if snap2.Last.Reading.CO2PPM != 500 {
		t.Errorf("Last.CO2PPM: got %d, want 500", snap2.Last.Reading.CO2PPM)
	}
}

func TestSnapshotLastNotShared(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.RecordLogged(scenario)

	snap := tr.Snapshot()
	snap.Last.Reading.TemperatureC = -1

	if got := tr.Snapshot().Last.Reading.TemperatureC; got != 22.56 {
		t.Errorf("tracker state modified through snapshot: got %v", got)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	last := scenario
	snap := Snapshot{
		Phase:     "Logging",
		Counts:    Counts{Cycles: 5, Records: 4, Skipped: 1, SensorFaults: 2},
		Last:      &last,
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
		Config:    Config{IntervalMs: 10800000, StabilizeMs: 6000, LogPath: "/mnt/sd/datalog.txt", FaultSentinels: true},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Phase != "Logging" {
		t.Errorf("Phase: got %q, want Logging", s.Phase)
	}
	if s.Halted {
		t.Error("expected Halted=false")
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.Counts.Cycles != 5 || s.Counts.Records != 4 || s.Counts.Skipped != 1 || s.Counts.SensorFaults != 2 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Last == nil {
		t.Fatal("expected last_record")
	}
	if s.Last.Date != "15/3/2024" || s.Last.Time != "14:30" {
		t.Errorf("Last date/time: got %q %q", s.Last.Date, s.Last.Time)
	}
	if s.Last.TemperatureC != 22.56 || s.Last.CO2PPM != 410 {
		t.Errorf("Last reading: got %v %d", s.Last.TemperatureC, s.Last.CO2PPM)
	}
	if !s.Config.FaultSentinels || s.Config.IntervalMs != 10800000 {
		t.Errorf("Config: got %+v", s.Config)
	}
}

func TestFormatJSONUnknownPhase(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	var parsed StatusJSON
	json.Unmarshal(FormatJSON(snap), &parsed)

	if parsed.Status.Phase != "UNKNOWN" {
		t.Errorf("Phase: got %q, want UNKNOWN", parsed.Status.Phase)
	}
}

func TestFormatJSONOmitsLastRecord(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	var raw map[string]interface{}
	json.Unmarshal(FormatJSON(snap), &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["last_record"]; exists {
		t.Error("last_record should be omitted before the first record")
	}
	if status["halted"] != false {
		t.Errorf("halted: got %v, want false", status["halted"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.CycleStarted()
			tr.SetPhase("Acquiring")
			tr.RecordLogged(scenario)
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()

	if got := tr.Snapshot().Counts.Records; got != 1000 {
		t.Errorf("Records: got %d, want 1000", got)
	}
}
