// Package config holds the logger's provisioning: compiled-in defaults that
// an optional YAML file can override.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/womat/debug"
	"gopkg.in/yaml.v2"

	"github.com/sweeney/cave-logger/internal/gpio"
	"github.com/sweeney/cave-logger/internal/i2cdev"
	"github.com/sweeney/cave-logger/internal/power"
	"github.com/sweeney/cave-logger/internal/rtc"
	"github.com/sweeney/cave-logger/internal/sensor"
)

// Compiled-in defaults.
const (
	DefaultConfigFile  = "/etc/cave-logger/cave-logger.yaml"
	DefaultIntervalMs  = 10800000
	DefaultStabilizeMs = 6000
	DefaultStorageRoot = "/mnt/sd"
	DefaultLogFile     = "datalog.txt"
	DefaultVRef        = 3.3
	DefaultResolution  = 1024
	DefaultOffset      = 0.5
	DefaultScale       = 0.01
)

// Driver names.
const (
	DriverIIO     = "iio"
	DriverADS1115 = "ads1115"
	DriverT67XX   = "t67xx"
	DriverDS3231  = "ds3231"
	DriverSystem  = "system"

	SleepTimer   = "timer"
	SleepSuspend = "suspend"
)

// Config holds the logger configuration.
type Config struct {
	IntervalMs     int           `yaml:"interval_ms"`
	Interval       time.Duration `yaml:"-"`
	StabilizeMs    int           `yaml:"stabilize_ms"`
	Stabilize      time.Duration `yaml:"-"`
	FaultSentinels bool          `yaml:"fault_sentinels"`

	Storage     StorageConfig     `yaml:"storage"`
	ADC         ADCConfig         `yaml:"adc"`
	Temperature TemperatureConfig `yaml:"temperature"`
	CO2         DeviceConfig      `yaml:"co2"`
	Clock       DeviceConfig      `yaml:"clock"`
	GPIO        GPIOConfig        `yaml:"gpio"`
	Sleep       SleepConfig       `yaml:"sleep"`
	Debug       DebugConfig       `yaml:"debug"`

	Flag FlagConfig `yaml:"-"`
}

// FlagConfig holds command line flags.
type FlagConfig struct {
	ConfigFile string
	LogLevel   string
	Cycles     int
}

// StorageConfig locates the log on the storage medium.
type StorageConfig struct {
	Root       string `yaml:"root"`
	LogFile    string `yaml:"log_file"`
	StatusFile string `yaml:"status_file"`
}

// ADCConfig selects the temperature ADC. For ads1115, VRef is the
// full-scale voltage and Resolution is 32768.
type ADCConfig struct {
	Driver     string  `yaml:"driver"`
	Device     string  `yaml:"device"`
	Address    int     `yaml:"address"`
	Channel    int     `yaml:"channel"`
	VRef       float64 `yaml:"vref"`
	Resolution int     `yaml:"resolution"`
}

// TemperatureConfig is the sensor's linear transform.
type TemperatureConfig struct {
	Offset float64 `yaml:"offset"`
	Scale  float64 `yaml:"scale"`
}

// DeviceConfig selects an I2C device driver.
type DeviceConfig struct {
	Driver  string `yaml:"driver"`
	Device  string `yaml:"device"`
	Address int    `yaml:"address"`
}

// GPIOConfig holds pin assignments.
type GPIOConfig struct {
	Chip         string `yaml:"chip"`
	SensorPower  int    `yaml:"sensor_power"`
	StoragePower int    `yaml:"storage_power"`
	Status       int    `yaml:"status"`
}

// SleepConfig selects how the logger sleeps between cycles.
type SleepConfig struct {
	Mode       string `yaml:"mode"`
	WakeAlarm  string `yaml:"wake_alarm"`
	PowerState string `yaml:"power_state"`
}

// DebugConfig defines the log destination and level.
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// NewConfig returns the compiled-in defaults.
func NewConfig() *Config {
	return &Config{
		IntervalMs:  DefaultIntervalMs,
		StabilizeMs: DefaultStabilizeMs,
		Storage: StorageConfig{
			Root:    DefaultStorageRoot,
			LogFile: DefaultLogFile,
		},
		ADC: ADCConfig{
			Driver:     DriverIIO,
			Device:     sensor.DefaultIIODevice,
			Address:    sensor.DefaultADS1115Address,
			VRef:       DefaultVRef,
			Resolution: DefaultResolution,
		},
		Temperature: TemperatureConfig{
			Offset: DefaultOffset,
			Scale:  DefaultScale,
		},
		CO2: DeviceConfig{
			Driver:  DriverT67XX,
			Device:  i2cdev.DefaultDev,
			Address: sensor.DefaultT67XXAddress,
		},
		Clock: DeviceConfig{
			Driver:  DriverDS3231,
			Device:  i2cdev.DefaultDev,
			Address: rtc.DefaultDS3231Address,
		},
		GPIO: GPIOConfig{
			Chip:         gpio.DefaultChip,
			SensorPower:  gpio.DefaultPinSensorPower,
			StoragePower: gpio.DefaultPinStoragePower,
			Status:       gpio.DefaultPinStatus,
		},
		Sleep: SleepConfig{
			Mode:       SleepTimer,
			WakeAlarm:  power.DefaultWakeAlarmPath,
			PowerState: power.DefaultPowerStatePath,
		},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Flag: FlagConfig{ConfigFile: DefaultConfigFile},
	}
}

// LoadConfig reads the config file from fs, applies flag overrides, derives
// durations and validates the result. A missing file at the default path is
// not an error; any other read or parse failure is.
func (c *Config) LoadConfig(fs afero.Fs) error {
	if err := c.readConfigFile(fs); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.LogLevel != "" {
		c.Debug.FlagString = c.Flag.LogLevel
	}

	c.Interval = time.Duration(c.IntervalMs) * time.Millisecond
	c.Stabilize = time.Duration(c.StabilizeMs) * time.Millisecond

	return c.Validate()
}

func (c *Config) readConfigFile(fs afero.Fs) error {
	file, err := fs.Open(c.Flag.ConfigFile)
	if errors.Is(err, os.ErrNotExist) && c.Flag.ConfigFile == DefaultConfigFile {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	decoder.SetStrict(true)
	if err = decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Validate rejects configurations the logger cannot run with.
func (c *Config) Validate() error {
	if c.IntervalMs <= 0 {
		return fmt.Errorf("interval_ms must be positive, got %d", c.IntervalMs)
	}
	if c.StabilizeMs < 0 {
		return fmt.Errorf("stabilize_ms must not be negative, got %d", c.StabilizeMs)
	}
	if c.Storage.Root == "" {
		return errors.New("storage.root is empty")
	}
	if err := validFileName("storage.log_file", c.Storage.LogFile, true); err != nil {
		return err
	}
	if err := validFileName("storage.status_file", c.Storage.StatusFile, false); err != nil {
		return err
	}
	if c.Storage.StatusFile != "" && c.Storage.StatusFile == c.Storage.LogFile {
		return errors.New("storage.status_file must differ from storage.log_file")
	}

	if c.ADC.Resolution <= 0 {
		return fmt.Errorf("adc.resolution must be positive, got %d", c.ADC.Resolution)
	}
	if c.ADC.VRef <= 0 {
		return fmt.Errorf("adc.vref must be positive, got %v", c.ADC.VRef)
	}
	if c.ADC.Channel < 0 {
		return fmt.Errorf("adc.channel must not be negative, got %d", c.ADC.Channel)
	}
	switch c.ADC.Driver {
	case DriverIIO:
	case DriverADS1115:
		if _, ok := sensor.ADS1115FullScale[c.ADC.VRef]; !ok {
			return fmt.Errorf("adc.vref %v is not an ads1115 full-scale range", c.ADC.VRef)
		}
		if c.ADC.Channel > 3 {
			return fmt.Errorf("adc.channel %d out of range 0-3", c.ADC.Channel)
		}
	default:
		return fmt.Errorf("unknown adc.driver %q", c.ADC.Driver)
	}
	if c.Temperature.Scale == 0 {
		return errors.New("temperature.scale must not be zero")
	}

	if c.CO2.Driver != DriverT67XX {
		return fmt.Errorf("unknown co2.driver %q", c.CO2.Driver)
	}
	if c.Clock.Driver != DriverDS3231 && c.Clock.Driver != DriverSystem {
		return fmt.Errorf("unknown clock.driver %q", c.Clock.Driver)
	}
	if c.Sleep.Mode != SleepTimer && c.Sleep.Mode != SleepSuspend {
		return fmt.Errorf("unknown sleep.mode %q", c.Sleep.Mode)
	}

	pins := map[int]string{}
	for name, pin := range map[string]int{
		"gpio.sensor_power":  c.GPIO.SensorPower,
		"gpio.storage_power": c.GPIO.StoragePower,
		"gpio.status":        c.GPIO.Status,
	} {
		if pin < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, pin)
		}
		if other, ok := pins[pin]; ok {
			return fmt.Errorf("%s and %s share pin %d", name, other, pin)
		}
		pins[pin] = name
	}

	switch c.Debug.FlagString {
	case "trace", "full", "debug", "standard":
	default:
		return fmt.Errorf("unknown log level %q", c.Debug.FlagString)
	}

	return nil
}

func validFileName(field, name string, required bool) error {
	if name == "" {
		if required {
			return fmt.Errorf("%s is empty", field)
		}
		return nil
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%s %q must be a plain file name", field, name)
	}
	return nil
}

// LogPath returns the full path of the data log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.Root, c.Storage.LogFile)
}

// Transform returns the configured temperature transform.
func (c *Config) Transform() sensor.Transform {
	return sensor.Transform{
		VRef:       c.ADC.VRef,
		Resolution: c.ADC.Resolution,
		Offset:     c.Temperature.Offset,
		Scale:      c.Temperature.Scale,
	}
}

// SetDebugConfig resolves the debug level and destination. The caller owns
// Debug.File and passes it to debug.SetDebug.
func (c *Config) SetDebugConfig() (err error) {
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	}

	switch c.Debug.FileString {
	case "stderr", "":
		c.Debug.File = nopCloser{os.Stderr}
	case "stdout":
		c.Debug.File = nopCloser{os.Stdout}
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
		}
	}

	return nil
}

// nopCloser keeps the process's standard streams open when the debug file is closed.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
