// Command cave-logger samples CO2 and temperature on a fixed duty cycle,
// appends each reading to a log on the storage card and sleeps in between.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/womat/debug"

	"github.com/sweeney/cave-logger/internal/config"
	"github.com/sweeney/cave-logger/internal/cycle"
	"github.com/sweeney/cave-logger/internal/record"
	"github.com/sweeney/cave-logger/internal/status"
	"github.com/sweeney/cave-logger/internal/storage"
	"github.com/sweeney/cave-logger/internal/timing"
)

const module = "cave-logger"

// fs backs the config file and the storage card; replaced in tests.
var fs afero.Fs = afero.NewOsFs()

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	if err := newApp(config.NewConfig()).Run(os.Args); err != nil {
		debug.FatalLog.Print(err)
		return
	}
	exitCode = 0
}

func newApp(cfg *config.Config) *cli.App {
	cyclesFlag := &cli.IntFlag{Name: "cycles", Destination: &cfg.Flag.Cycles, Usage: "stop after `N` cycles (0 runs until stopped)"}

	app := &cli.App{
		Name:  module,
		Usage: "cave microclimate logger (CO2 + temperature)",
		Description: "Every interval: power up the sensors and storage card, wait for the sensors" +
			"\n to settle, read the clock, temperature and CO2, append one line to the log," +
			"\n power down and sleep.",
		UsageText: module + " [--config <file>] [--log standard|debug|trace] [command]" +
			"\n\nEXAMPLE:" +
			"\n\trun the logger with a provisioning file" +
			"\n\t\t" + module + " --config /etc/cave-logger/cave-logger.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: config.DefaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.LogLevel, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
			cyclesFlag,
		},
		Before: func(*cli.Context) error {
			if err := cfg.LoadConfig(fs); err != nil {
				return err
			}
			if err := cfg.SetDebugConfig(); err != nil {
				return err
			}
			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			return nil
		},
		After: func(*cli.Context) error {
			if cfg.Debug.File != nil {
				_ = cfg.Debug.File.Close()
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return runLogger(c.Context, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the duty cycle (default)",
				Flags: []cli.Flag{cyclesFlag},
				Action: func(c *cli.Context) error {
					return runLogger(c.Context, cfg)
				},
			},
			{
				Name:  "sample",
				Usage: "take one reading and print it without logging",
				Action: func(c *cli.Context) error {
					rec, err := sampleOnce(c.Context, cfg)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, record.Header)
					fmt.Fprint(c.App.Writer, rec.Line())
					return nil
				},
			},
			{
				Name:  "set-clock",
				Usage: "write the host time to the real-time clock",
				Action: func(c *cli.Context) error {
					t, err := setClock(cfg, time.Now())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "clock set to %s\n", t.Format(time.RFC3339))
					return nil
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))
	return app
}

func runLogger(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	waiter := timing.RealWaiter{}
	dev, err := openDevices(cfg, waiter)
	if err != nil {
		return fmt.Errorf("init hardware: %w", err)
	}
	defer dev.Close()

	ctrl := newController(cfg, dev, waiter)

	cont := cycle.Forever()
	if cfg.Flag.Cycles > 0 {
		cont = cycle.Cycles(cfg.Flag.Cycles)
	}

	debug.InfoLog.Printf("started: interval=%v stabilize=%v log=%s", cfg.Interval, cfg.Stabilize, cfg.LogPath())
	err = ctrl.Run(ctx, cont)
	if errors.Is(err, cycle.ErrHalted) {
		return err
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	debug.InfoLog.Printf("stopped after %d cycles", ctrl.Completed())
	return nil
}

func newController(cfg *config.Config, dev *devices, w timing.Waiter) *cycle.Controller {
	store := storage.NewLog(fs, cfg.Storage.Root, cfg.Storage.LogFile)
	if cfg.Storage.StatusFile != "" {
		store.WithStatusFile(cfg.Storage.StatusFile)
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		IntervalMs:     cfg.Interval.Milliseconds(),
		StabilizeMs:    cfg.Stabilize.Milliseconds(),
		LogPath:        cfg.LogPath(),
		FaultSentinels: cfg.FaultSentinels,
	})

	cc := cycle.DefaultConfig()
	cc.Interval = cfg.Interval
	cc.Stabilize = cfg.Stabilize
	cc.FaultSentinels = cfg.FaultSentinels

	return cycle.New(cc, cycle.Deps{
		Power:     dev.Power,
		Sensors:   dev.Sensors,
		Clock:     dev.Clock,
		Store:     store,
		Indicator: dev.Indicator,
		Waiter:    w,
		Sleeper:   dev.Sleeper,
		Tracker:   tracker,
	})
}

func sampleOnce(parent context.Context, cfg *config.Config) (record.LogRecord, error) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	waiter := timing.RealWaiter{}
	dev, err := openDevices(cfg, waiter)
	if err != nil {
		return record.LogRecord{}, fmt.Errorf("init hardware: %w", err)
	}
	defer dev.Close()

	rec, err := newController(cfg, dev, waiter).Sample(ctx)
	if err != nil {
		return record.LogRecord{}, fmt.Errorf("sample: %w", err)
	}
	return rec, nil
}

func setClock(cfg *config.Config, now time.Time) (time.Time, error) {
	dev, err := openDevices(cfg, timing.RealWaiter{})
	if err != nil {
		return time.Time{}, fmt.Errorf("init hardware: %w", err)
	}
	defer dev.Close()

	setter, ok := dev.Clock.(clockSetter)
	if !ok {
		return time.Time{}, fmt.Errorf("clock driver %q cannot be set", cfg.Clock.Driver)
	}
	now = now.Truncate(time.Second)
	if err := setter.Set(now); err != nil {
		return time.Time{}, fmt.Errorf("set clock: %w", err)
	}
	debug.InfoLog.Printf("clock set to %s", now.Format(time.RFC3339))
	return now, nil
}
