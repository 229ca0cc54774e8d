package power

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/sweeney/cave-logger/internal/timing"
)

func TestTimerSleeper(t *testing.T) {
	w := timing.NewFakeWaiter()
	s := TimerSleeper{Waiter: w}

	if err := s.Sleep(context.Background(), 3*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Waits) != 1 || w.Waits[0] != 3*time.Hour {
		t.Errorf("waits: got %v, want [3h]", w.Waits)
	}
}

// fakeNow returns a clock that only moves when advance is called.
func fakeNow(start time.Time) (now func() time.Time, advance func(time.Duration)) {
	t := start
	return func() time.Time { return t }, func(d time.Duration) { t = t.Add(d) }
}

func newTestSuspendSleeper(fs afero.Fs, w timing.Waiter, now func() time.Time) *SuspendSleeper {
	return &SuspendSleeper{
		Fs:             fs,
		WakeAlarmPath:  DefaultWakeAlarmPath,
		PowerStatePath: DefaultPowerStatePath,
		Waiter:         w,
		Now:            now,
	}
}

func TestSuspendSleeperArmsAlarm(t *testing.T) {
	fs := afero.NewMemMapFs()
	now, advance := fakeNow(time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC))
	w := timing.NewFakeWaiter()
	s := newTestSuspendSleeper(fs, w, now)

	// the system resumes exactly when the alarm fires
	calls := 0
	s.Now = func() time.Time {
		calls++
		if calls == 2 {
			advance(3 * time.Hour)
		}
		return now()
	}

	if err := s.Sleep(context.Background(), 3*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alarm, err := afero.ReadFile(fs, DefaultWakeAlarmPath)
	if err != nil {
		t.Fatalf("read wake alarm: %v", err)
	}
	if string(alarm) != "+10800" {
		t.Errorf("wake alarm: got %q, want %q", alarm, "+10800")
	}

	state, err := afero.ReadFile(fs, DefaultPowerStatePath)
	if err != nil {
		t.Fatalf("read power state: %v", err)
	}
	if string(state) != "mem" {
		t.Errorf("power state: got %q, want %q", state, "mem")
	}

	if len(w.Waits) != 0 {
		t.Errorf("no remainder wait expected after full suspend, got %v", w.Waits)
	}
}

func TestSuspendSleeperWaitsOutEarlyWake(t *testing.T) {
	fs := afero.NewMemMapFs()
	now, advance := fakeNow(time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC))
	w := timing.NewFakeWaiter()
	s := newTestSuspendSleeper(fs, w, now)

	calls := 0
	s.Now = func() time.Time {
		calls++
		if calls == 2 {
			advance(time.Hour)
		}
		return now()
	}

	if err := s.Sleep(context.Background(), 3*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Waits) != 1 || w.Waits[0] != 2*time.Hour {
		t.Errorf("remainder waits: got %v, want [2h]", w.Waits)
	}
}

// The monotonic clock stops during suspend, so deadlines must be wall time.
func TestSuspendSleeperWallNow(t *testing.T) {
	s := NewSuspendSleeper(timing.NewFakeWaiter())
	if got := s.wallNow().String(); strings.Contains(got, "m=") {
		t.Errorf("wallNow carries a monotonic reading: %s", got)
	}

	base := time.Now()
	s.Now = func() time.Time { return base }
	if !s.wallNow().Equal(base) {
		t.Errorf("wallNow: got %v, want %v", s.wallNow(), base)
	}
}

func TestSuspendSleeperFallsBackToTimer(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	now, _ := fakeNow(time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC))
	w := timing.NewFakeWaiter()
	s := newTestSuspendSleeper(fs, w, now)

	if err := s.Sleep(context.Background(), 3*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Waits) != 1 || w.Waits[0] != 3*time.Hour {
		t.Errorf("fallback waits: got %v, want [3h]", w.Waits)
	}
}

func TestFakeSleeper(t *testing.T) {
	var slept time.Duration
	f := NewFakeSleeper()
	f.OnSleep = func(d time.Duration) { slept += d }

	f.Sleep(context.Background(), time.Minute)
	f.Sleep(context.Background(), time.Minute)

	if len(f.Sleeps) != 2 || slept != 2*time.Minute {
		t.Errorf("sleeps=%v slept=%v", f.Sleeps, slept)
	}
}
