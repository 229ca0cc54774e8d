// Package cycle implements the sense-log-sleep duty-cycle controller.
//
// Boot runs once: power up, check storage, one long pulse, stabilize. Each
// cycle then runs PowerUp, Stabilizing, Acquiring, Logging, PowerDown and
// Sleeping in order. Every collaborator is injected so tests can drive whole
// cycles with fakes and no real waits.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/womat/debug"

	"github.com/sweeney/cave-logger/internal/record"
	"github.com/sweeney/cave-logger/internal/rtc"
	"github.com/sweeney/cave-logger/internal/status"
	"github.com/sweeney/cave-logger/internal/timing"
)

// ErrHalted is returned by Run when storage could not be mounted at boot.
// No cycle runs after it.
var ErrHalted = errors.New("logger halted")

// Power switches the sensor and storage rails.
type Power interface {
	PowerUp() error
	PowerDown() error
}

// Sensors reads one temperature and one CO2 value.
type Sensors interface {
	ReadTemperature() (float64, error)
	ReadCO2() (int, error)
}

// Store is the persistent log.
type Store interface {
	Mount() error
	Append(ts record.Timestamp, r record.Reading) error
	WriteStatus(data []byte) error
}

// Indicator gives the operator visual feedback.
type Indicator interface {
	Pulse(ctx context.Context, count int, on, off time.Duration)
}

// Sleeper holds the logger in its lowest power state for a duration.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Pulse is a status indicator pattern.
type Pulse struct {
	Count int
	On    time.Duration
	Off   time.Duration
}

// Config holds controller timing and policy.
type Config struct {
	Interval  time.Duration
	Stabilize time.Duration

	BootPulse  Pulse
	CyclePulse Pulse

	// FaultSentinels replaces failed sensor values with record.TemperatureFault
	// and record.CO2Fault instead of logging whatever the driver returned.
	FaultSentinels bool
}

// DefaultConfig returns the deployed timing: 3 h interval, 6 s stabilization.
func DefaultConfig() Config {
	return Config{
		Interval:   3 * time.Hour,
		Stabilize:  6 * time.Second,
		BootPulse:  Pulse{Count: 1, On: 3 * time.Second, Off: time.Second},
		CyclePulse: Pulse{Count: 4, On: time.Second, Off: time.Second},
	}
}

// Deps are the controller's collaborators. Tracker may be nil.
type Deps struct {
	Power     Power
	Sensors   Sensors
	Clock     rtc.Clock
	Store     Store
	Indicator Indicator
	Waiter    timing.Waiter
	Sleeper   Sleeper
	Tracker   *status.Tracker
}

// Continue reports whether another cycle should start after completed cycles.
type Continue func(completed int) bool

// Forever never stops.
func Forever() Continue {
	return func(int) bool { return true }
}

// Cycles stops after n cycles.
func Cycles(n int) Continue {
	return func(completed int) bool { return completed < n }
}

// Controller sequences power, acquisition, logging and sleep.
type Controller struct {
	cfg  Config
	deps Deps

	phase     Phase
	completed int
}

// New creates a Controller.
func New(cfg Config, deps Deps) *Controller {
	if deps.Tracker == nil {
		deps.Tracker = status.NewTracker(time.Now(), status.Config{})
	}
	return &Controller{cfg: cfg, deps: deps, phase: Initializing}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Completed returns the number of cycles run to PowerDown.
func (c *Controller) Completed() int {
	return c.completed
}

// Run boots the logger and runs duty cycles while cont allows. The sleep after
// a cycle is skipped when cont says no further cycle will run.
//
// Run returns ErrHalted if storage cannot be mounted. A cancelled ctx ends the
// current wait early; peripherals are powered down and Run returns nil.
func (c *Controller) Run(ctx context.Context, cont Continue) error {
	if err := c.boot(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		c.stop()
		return nil
	}

	for cont(c.completed) {
		if err := c.runCycle(ctx); err != nil {
			debug.InfoLog.Printf("stopping after %d cycles: %v", c.completed, err)
			return nil
		}
		if !cont(c.completed) {
			break
		}
		c.enter(Sleeping)
		if err := c.deps.Sleeper.Sleep(ctx, c.cfg.Interval); err != nil {
			debug.InfoLog.Printf("stopping after %d cycles: %v", c.completed, err)
			return nil
		}
	}
	return nil
}

func (c *Controller) boot(ctx context.Context) error {
	c.enter(Initializing)
	c.powerUp()

	if err := c.deps.Store.Mount(); err != nil {
		c.powerDown()
		c.enter(Halted)
		c.deps.Tracker.SetHalted()
		debug.ErrorLog.Printf("storage unavailable, halting: %v", err)
		return fmt.Errorf("%w: %w", ErrHalted, err)
	}

	p := c.cfg.BootPulse
	c.deps.Indicator.Pulse(ctx, p.Count, p.On, p.Off)
	if err := c.deps.Waiter.Wait(ctx, c.cfg.Stabilize); err != nil {
		return nil
	}
	debug.InfoLog.Printf("boot complete, interval %v", c.cfg.Interval)
	return nil
}

// runCycle runs one cycle from PowerUp through PowerDown. PowerDown happens
// exactly once whatever the outcome. The only error is ctx's.
func (c *Controller) runCycle(ctx context.Context) error {
	c.deps.Tracker.CycleStarted()
	n := c.deps.Tracker.Snapshot().Counts.Cycles

	c.enter(PowerUp)
	c.powerUp()

	err := c.acquireAndLog(ctx)
	if err == nil {
		c.writeStatus()
	}

	c.enter(PowerDown)
	c.powerDown()
	c.completed++

	debug.InfoLog.Printf("cycle %d done: %s", n, c.deps.Tracker.Snapshot().Counts)
	return err
}

func (c *Controller) acquireAndLog(ctx context.Context) error {
	c.enter(Stabilizing)
	if err := c.deps.Waiter.Wait(ctx, c.cfg.Stabilize); err != nil {
		return err
	}

	p := c.cfg.CyclePulse
	c.deps.Indicator.Pulse(ctx, p.Count, p.On, p.Off)
	if err := ctx.Err(); err != nil {
		return err
	}

	c.enter(Acquiring)
	rec, err := c.acquire()
	if err != nil {
		debug.ErrorLog.Printf("clock read failed, no record this cycle: %v", err)
		c.deps.Tracker.ClockFault()
		c.deps.Tracker.RecordSkipped()
		return nil
	}

	c.enter(Logging)
	if err := c.deps.Store.Append(rec.Timestamp, rec.Reading); err != nil {
		debug.ErrorLog.Printf("record discarded: %v", err)
		c.deps.Tracker.RecordSkipped()
		return nil
	}
	c.deps.Tracker.RecordLogged(rec)
	debug.DebugLog.Printf("logged %q", rec.Line())
	return nil
}

// acquire reads the clock, then the sensors. Only a clock failure is
// returned; sensor failures are logged and counted.
func (c *Controller) acquire() (record.LogRecord, error) {
	ts, err := c.deps.Clock.Now()
	if err != nil {
		return record.LogRecord{}, fmt.Errorf("read clock: %w", err)
	}

	temp, err := c.deps.Sensors.ReadTemperature()
	if err != nil {
		debug.ErrorLog.Printf("temperature read failed: %v", err)
		c.deps.Tracker.SensorFault()
		if c.cfg.FaultSentinels {
			temp = record.TemperatureFault
		}
	}

	co2, err := c.deps.Sensors.ReadCO2()
	if err != nil {
		debug.ErrorLog.Printf("co2 read failed: %v", err)
		c.deps.Tracker.SensorFault()
		if c.cfg.FaultSentinels {
			co2 = record.CO2Fault
		}
	}

	return record.LogRecord{
		Timestamp: ts,
		Reading:   record.Reading{TemperatureC: temp, CO2PPM: co2},
	}, nil
}

// Sample powers up, stabilizes and acquires one record without logging it.
func (c *Controller) Sample(ctx context.Context) (record.LogRecord, error) {
	c.enter(PowerUp)
	c.powerUp()
	defer func() {
		c.enter(PowerDown)
		c.powerDown()
	}()

	c.enter(Stabilizing)
	if err := c.deps.Waiter.Wait(ctx, c.cfg.Stabilize); err != nil {
		return record.LogRecord{}, err
	}

	c.enter(Acquiring)
	return c.acquire()
}

func (c *Controller) writeStatus() {
	data := status.FormatJSON(c.deps.Tracker.Snapshot())
	if err := c.deps.Store.WriteStatus(data); err != nil {
		debug.ErrorLog.Printf("status file: %v", err)
	}
}

func (c *Controller) stop() {
	c.enter(PowerDown)
	c.powerDown()
}

func (c *Controller) enter(p Phase) {
	c.phase = p
	c.deps.Tracker.SetPhase(p.String())
	debug.TraceLog.Printf("phase %s", p)
}

func (c *Controller) powerUp() {
	if err := c.deps.Power.PowerUp(); err != nil {
		debug.ErrorLog.Printf("power up: %v", err)
	}
}

func (c *Controller) powerDown() {
	if err := c.deps.Power.PowerDown(); err != nil {
		debug.ErrorLog.Printf("power down: %v", err)
	}
}
