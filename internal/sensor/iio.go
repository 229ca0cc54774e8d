package sensor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// DefaultIIODevice is the first industrial I/O device in sysfs.
const DefaultIIODevice = "/sys/bus/iio/devices/iio:device0"

// IIO reads a raw ADC channel exposed by a Linux industrial I/O driver
// (e.g. mcp320x for an MCP3008) through sysfs.
type IIO struct {
	fs   afero.Fs
	path string
}

// NewIIO creates a reader for in_voltage<channel>_raw under device.
func NewIIO(fs afero.Fs, device string, channel int) *IIO {
	return &IIO{
		fs:   fs,
		path: filepath.Join(device, fmt.Sprintf("in_voltage%d_raw", channel)),
	}
}

// ReadRaw reads and parses the channel's raw value.
func (i *IIO) ReadRaw() (int, error) {
	b, err := afero.ReadFile(i.fs, i.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", i.path, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", i.path, err)
	}
	return v, nil
}
