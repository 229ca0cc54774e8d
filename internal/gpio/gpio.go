// Package gpio provides digital output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Line is a single digital output line.
type Line interface {
	// SetValue drives the line: 1 = active (high), 0 = inactive (low).
	SetValue(value int) error

	// Close releases the line.
	Close() error
}

// Default pin definitions (BCM numbering).
const (
	DefaultChip            = "gpiochip0"
	DefaultPinSensorPower  = 17 // sensor cluster power enable
	DefaultPinStoragePower = 27 // storage device power enable
	DefaultPinStatus       = 22 // status LED
)
