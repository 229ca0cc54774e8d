// Package i2cdev abstracts a single device on an I2C bus so the sensor and
// clock drivers can be tested without hardware.
package i2cdev

// Bus is one addressed device on an I2C bus. It matches the method set of
// golang.org/x/exp/io/i2c.Device.
type Bus interface {
	Read(buf []byte) error
	Write(buf []byte) error
	ReadReg(reg byte, buf []byte) error
	WriteReg(reg byte, buf []byte) error
	Close() error
}

// DefaultDev is the Raspberry Pi user I2C bus.
const DefaultDev = "/dev/i2c-1"
