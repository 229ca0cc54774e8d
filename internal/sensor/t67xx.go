package sensor

import (
	"time"

	"github.com/pkg/errors"

	"github.com/sweeney/cave-logger/internal/i2cdev"
)

// DefaultT67XXAddress is the factory I2C address of the Telaire T67XX.
const DefaultT67XXAddress = 0x15

// How long to wait after a command before reading the response. The datasheet
// suggests 5 to 10 ms.
var t67xxCommandSleep = 10 * time.Millisecond

var t67xxGasPPM = []byte{0x04, 0x13, 0x8b, 0x00, 0x01}

// T67XX reads a Telaire T6703/T6713 CO2 sensor over I2C.
type T67XX struct {
	bus i2cdev.Bus
}

// NewT67XX creates a T67XX driver on bus.
func NewT67XX(bus i2cdev.Bus) *T67XX {
	return &T67XX{bus: bus}
}

// PPM returns the CO2 concentration.
func (t *T67XX) PPM() (int, error) {
	if err := t.bus.Write(t67xxGasPPM); err != nil {
		return 0, errors.Wrap(err, "t67xx: write gas ppm command")
	}

	time.Sleep(t67xxCommandSleep)

	b := make([]byte, 4)
	if err := t.bus.Read(b); err != nil {
		return 0, errors.Wrap(err, "t67xx: read gas ppm response")
	}

	return int(b[2])*256 + int(b[3]), nil
}

// Close releases the bus.
func (t *T67XX) Close() error {
	return t.bus.Close()
}
