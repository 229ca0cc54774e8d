package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/womat/debug"

	"github.com/sweeney/cave-logger/internal/config"
	"github.com/sweeney/cave-logger/internal/cycle"
	"github.com/sweeney/cave-logger/internal/gpio"
	"github.com/sweeney/cave-logger/internal/i2cdev"
	"github.com/sweeney/cave-logger/internal/led"
	"github.com/sweeney/cave-logger/internal/power"
	"github.com/sweeney/cave-logger/internal/rtc"
	"github.com/sweeney/cave-logger/internal/sensor"
	"github.com/sweeney/cave-logger/internal/timing"
)

// clockSetter is implemented by clocks that can be provisioned.
type clockSetter interface {
	Set(t time.Time) error
}

// devices are the hardware handles the controller is built from.
type devices struct {
	Power     cycle.Power
	Indicator cycle.Indicator
	Sensors   cycle.Sensors
	Clock     rtc.Clock
	Sleeper   cycle.Sleeper

	closers []io.Closer
}

// Close releases every device in reverse order of opening.
func (d *devices) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			debug.ErrorLog.Printf("close device: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	d.closers = nil
	return first
}

func (d *devices) track(c io.Closer) {
	d.closers = append(d.closers, c)
}

// openDevices is replaced in tests.
var openDevices = openHardware

func openHardware(cfg *config.Config, w timing.Waiter) (_ *devices, err error) {
	d := &devices{}
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()

	sensorLine, err := gpio.OpenLine(cfg.GPIO.Chip, cfg.GPIO.SensorPower)
	if err != nil {
		return nil, fmt.Errorf("open sensor power line: %w", err)
	}
	d.track(sensorLine)
	storageLine, err := gpio.OpenLine(cfg.GPIO.Chip, cfg.GPIO.StoragePower)
	if err != nil {
		return nil, fmt.Errorf("open storage power line: %w", err)
	}
	d.track(storageLine)
	statusLine, err := gpio.OpenLine(cfg.GPIO.Chip, cfg.GPIO.Status)
	if err != nil {
		return nil, fmt.Errorf("open status line: %w", err)
	}
	indicator := led.NewIndicator(statusLine, w)
	d.track(indicator)
	d.Indicator = indicator
	d.Power = power.NewController(sensorLine, storageLine)

	adc, err := openADC(cfg, d)
	if err != nil {
		return nil, err
	}

	co2Bus, err := i2cdev.Open(cfg.CO2.Device, cfg.CO2.Address)
	if err != nil {
		return nil, fmt.Errorf("open co2 sensor: %w", err)
	}
	co2 := sensor.NewT67XX(co2Bus)
	d.track(co2)
	d.Sensors = sensor.NewAdapter(adc, cfg.Transform(), co2)

	clock, err := openClock(cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := clock.(io.Closer); ok {
		d.track(c)
	}
	d.Clock = clock

	d.Sleeper = newSleeper(cfg, w)

	debug.DebugLog.Printf("devices: adc=%s co2=%s clock=%s sleep=%s",
		cfg.ADC.Driver, cfg.CO2.Driver, cfg.Clock.Driver, cfg.Sleep.Mode)
	return d, nil
}

func openADC(cfg *config.Config, d *devices) (sensor.ADC, error) {
	switch cfg.ADC.Driver {
	case config.DriverADS1115:
		bus, err := i2cdev.Open(cfg.ADC.Device, cfg.ADC.Address)
		if err != nil {
			return nil, fmt.Errorf("open adc: %w", err)
		}
		ads, err := sensor.NewADS1115(bus, cfg.ADC.Channel, cfg.ADC.VRef)
		if err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("open adc: %w", err)
		}
		d.track(ads)
		return ads, nil
	default:
		return sensor.NewIIO(afero.NewOsFs(), cfg.ADC.Device, cfg.ADC.Channel), nil
	}
}

func openClock(cfg *config.Config) (rtc.Clock, error) {
	if cfg.Clock.Driver == config.DriverSystem {
		return rtc.SystemClock{}, nil
	}
	bus, err := i2cdev.Open(cfg.Clock.Device, cfg.Clock.Address)
	if err != nil {
		return nil, fmt.Errorf("open clock: %w", err)
	}
	return rtc.NewDS3231(bus), nil
}

func newSleeper(cfg *config.Config, w timing.Waiter) cycle.Sleeper {
	if cfg.Sleep.Mode != config.SleepSuspend {
		return power.TimerSleeper{Waiter: w}
	}
	s := power.NewSuspendSleeper(w)
	s.WakeAlarmPath = cfg.Sleep.WakeAlarm
	s.PowerStatePath = cfg.Sleep.PowerState
	return s
}
