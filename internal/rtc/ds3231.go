package rtc

import (
	"time"

	"github.com/pkg/errors"

	"github.com/sweeney/cave-logger/internal/i2cdev"
	"github.com/sweeney/cave-logger/internal/record"
)

// DefaultDS3231Address is the fixed I2C address of the DS3231.
const DefaultDS3231Address = 0x68

const (
	regSeconds = 0x00

	hour12Mode  = 0x40
	hourPM      = 0x20
	centuryFlag = 0x80
)

// DS3231 reads a Maxim DS3231 (or DS1307-compatible) RTC. The chip keeps
// whatever local time it was provisioned with; no zone conversion happens here.
type DS3231 struct {
	bus i2cdev.Bus
}

// NewDS3231 creates a DS3231 driver on bus.
func NewDS3231(bus i2cdev.Bus) *DS3231 {
	return &DS3231{bus: bus}
}

// Now reads the time registers in one burst.
func (d *DS3231) Now() (record.Timestamp, error) {
	b := make([]byte, 7)
	if err := d.bus.ReadReg(regSeconds, b); err != nil {
		return record.Timestamp{}, errors.Wrap(err, "ds3231: read time registers")
	}

	ts := record.Timestamp{
		Second: fromBCD(b[0] & 0x7f),
		Minute: fromBCD(b[1] & 0x7f),
		Hour:   decodeHour(b[2]),
		Day:    fromBCD(b[4] & 0x3f),
		Month:  fromBCD(b[5] & 0x1f),
		Year:   2000 + fromBCD(b[6]),
	}
	if b[5]&centuryFlag != 0 {
		ts.Year += 100
	}
	return ts, nil
}

// Set writes t to the clock in 24-hour mode.
func (d *DS3231) Set(t time.Time) error {
	year := t.Year() - 2000
	if year < 0 || year > 199 {
		return errors.Errorf("ds3231: year %d out of range 2000-2199", t.Year())
	}
	month := toBCD(int(t.Month()))
	if year >= 100 {
		month |= centuryFlag
		year -= 100
	}

	b := []byte{
		toBCD(t.Second()),
		toBCD(t.Minute()),
		toBCD(t.Hour()),
		byte(t.Weekday()) + 1,
		toBCD(t.Day()),
		month,
		toBCD(year),
	}
	if err := d.bus.WriteReg(regSeconds, b); err != nil {
		return errors.Wrap(err, "ds3231: write time registers")
	}
	return nil
}

// Close releases the bus.
func (d *DS3231) Close() error {
	return d.bus.Close()
}

func decodeHour(b byte) int {
	if b&hour12Mode == 0 {
		return fromBCD(b & 0x3f)
	}
	h := fromBCD(b & 0x1f)
	if h == 12 {
		h = 0
	}
	if b&hourPM != 0 {
		h += 12
	}
	return h
}

func fromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0f)
}

func toBCD(v int) byte {
	return byte(v/10)<<4 | byte(v%10)
}
