package power

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/womat/debug"

	"github.com/sweeney/cave-logger/internal/timing"
)

// Sleeper suspends the logger between duty cycles.
type Sleeper interface {
	// Sleep enters the lowest available power state for d.
	// Returns early with ctx.Err() if ctx is cancelled.
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper idles on a timer. The process stays resident; power savings
// come from the peripherals being off.
type TimerSleeper struct {
	Waiter timing.Waiter
}

// Sleep waits for d.
func (s TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	return s.Waiter.Wait(ctx, d)
}

// Default sysfs paths for suspend-to-RAM with an RTC wake alarm.
const (
	DefaultWakeAlarmPath  = "/sys/class/rtc/rtc0/wakealarm"
	DefaultPowerStatePath = "/sys/power/state"
)

// SuspendSleeper arms the RTC wake alarm and suspends the whole system to RAM.
// Writing to the power state file blocks until the system resumes. Any time
// still left afterwards (early wake, suspend refused) is waited out on Waiter.
type SuspendSleeper struct {
	Fs             afero.Fs
	WakeAlarmPath  string
	PowerStatePath string
	Waiter         timing.Waiter
	Now            func() time.Time
}

// NewSuspendSleeper creates a SuspendSleeper on the real sysfs.
func NewSuspendSleeper(w timing.Waiter) *SuspendSleeper {
	return &SuspendSleeper{
		Fs:             afero.NewOsFs(),
		WakeAlarmPath:  DefaultWakeAlarmPath,
		PowerStatePath: DefaultPowerStatePath,
		Waiter:         w,
		Now:            time.Now,
	}
}

// Sleep suspends for d. If suspending fails it degrades to a timer wait, so a
// missing wake alarm never stalls the monitoring cadence.
func (s *SuspendSleeper) Sleep(ctx context.Context, d time.Duration) error {
	deadline := s.wallNow().Add(d)

	if err := s.suspend(d); err != nil {
		debug.ErrorLog.Printf("suspend failed, falling back to timer: %v", err)
	}

	remaining := deadline.Sub(s.wallNow())
	if remaining <= 0 {
		return ctx.Err()
	}
	debug.TraceLog.Printf("woke %v early, waiting out remainder", remaining)
	return s.Waiter.Wait(ctx, remaining)
}

// wallNow drops the monotonic reading, which stops while the system is
// suspended and would make every resume look like an early wake.
func (s *SuspendSleeper) wallNow() time.Time {
	return s.Now().Round(0)
}

func (s *SuspendSleeper) suspend(d time.Duration) error {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return nil
	}

	// the kernel refuses to re-arm an already armed alarm
	if err := afero.WriteFile(s.Fs, s.WakeAlarmPath, []byte("0"), 0o644); err != nil {
		return fmt.Errorf("clear wake alarm: %w", err)
	}
	if err := afero.WriteFile(s.Fs, s.WakeAlarmPath, []byte("+"+strconv.FormatInt(secs, 10)), 0o644); err != nil {
		return fmt.Errorf("arm wake alarm: %w", err)
	}

	debug.DebugLog.Printf("suspending to RAM for %ds", secs)
	if err := afero.WriteFile(s.Fs, s.PowerStatePath, []byte("mem"), 0o644); err != nil {
		return fmt.Errorf("enter suspend: %w", err)
	}
	return nil
}
