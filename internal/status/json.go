package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/cave-logger/internal/record"
)

// StatusJSON is the top-level JSON envelope for the status file.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Phase         string      `json:"phase"`
	Halted        bool        `json:"halted"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	Counts        CountsJSON  `json:"counts"`
	Last          *RecordJSON `json:"last_record,omitempty"`
	Config        ConfigJSON  `json:"config"`
}

// CountsJSON is the JSON representation of cycle counts.
type CountsJSON struct {
	Cycles       int `json:"cycles"`
	Records      int `json:"records"`
	Skipped      int `json:"skipped"`
	ClockFaults  int `json:"clock_faults"`
	SensorFaults int `json:"sensor_faults"`
}

// RecordJSON is the JSON representation of the last logged record.
type RecordJSON struct {
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	TemperatureC float64 `json:"temperature_c"`
	CO2PPM       int     `json:"co2_ppm"`
}

// ConfigJSON is the JSON representation of logger config.
type ConfigJSON struct {
	IntervalMs     int64  `json:"interval_ms"`
	StabilizeMs    int64  `json:"stabilize_ms"`
	LogPath        string `json:"log_path"`
	FaultSentinels bool   `json:"fault_sentinels"`
}

func buildRecord(rec *record.LogRecord) *RecordJSON {
	if rec == nil {
		return nil
	}
	ts := rec.Timestamp
	return &RecordJSON{
		Date:         fmt.Sprintf("%d/%d/%d", ts.Day, ts.Month, ts.Year),
		Time:         fmt.Sprintf("%d:%02d", ts.Hour, ts.Minute),
		TemperatureC: rec.Reading.TemperatureC,
		CO2PPM:       rec.Reading.CO2PPM,
	}
}

func buildInner(snap Snapshot) StatusInner {
	phase := snap.Phase
	if phase == "" {
		phase = "UNKNOWN"
	}

	return StatusInner{
		Phase:         phase,
		Halted:        snap.Halted,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Cycles:       snap.Counts.Cycles,
			Records:      snap.Counts.Records,
			Skipped:      snap.Counts.Skipped,
			ClockFaults:  snap.Counts.ClockFaults,
			SensorFaults: snap.Counts.SensorFaults,
		},
		Last: buildRecord(snap.Last),
		Config: ConfigJSON{
			IntervalMs:     snap.Config.IntervalMs,
			StabilizeMs:    snap.Config.StabilizeMs,
			LogPath:        snap.Config.LogPath,
			FaultSentinels: snap.Config.FaultSentinels,
		},
	}
}

// FormatJSON returns the indented JSON status written to the status file.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
