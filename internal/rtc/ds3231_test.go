package rtc

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/cave-logger/internal/i2cdev"
	"github.com/sweeney/cave-logger/internal/record"
)

func setRegs(bus *i2cdev.FakeBus, regs ...byte) {
	for i, b := range regs {
		bus.Regs[byte(i)] = b
	}
}

func TestDS3231Now24h(t *testing.T) {
	bus := i2cdev.NewFakeBus()
	setRegs(bus, 0x45, 0x30, 0x14, 0x06, 0x15, 0x03, 0x24)

	ts, err := NewDS3231(bus).Now()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := record.Timestamp{Year: 2024, Month: 3, Day: 15, Hour: 14, Minute: 30, Second: 45}
	if ts != want {
		t.Errorf("Now: got %+v, want %+v", ts, want)
	}
}

func TestDS3231Now12h(t *testing.T) {
	cases := []struct {
		reg  byte
		want int
	}{
		{0x40 | 0x12, 0},         // 12 AM
		{0x40 | 0x01, 1},         // 1 AM
		{0x40 | 0x20 | 0x12, 12}, // 12 PM
		{0x40 | 0x20 | 0x02, 14}, // 2 PM
		{0x40 | 0x20 | 0x11, 23}, // 11 PM
	}
	for _, tc := range cases {
		bus := i2cdev.NewFakeBus()
		setRegs(bus, 0x00, 0x05, tc.reg, 0x01, 0x01, 0x01, 0x25)

		ts, err := NewDS3231(bus).Now()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ts.Hour != tc.want {
			t.Errorf("hour reg %#02x: got %d, want %d", tc.reg, ts.Hour, tc.want)
		}
	}
}

func TestDS3231Century(t *testing.T) {
	bus := i2cdev.NewFakeBus()
	setRegs(bus, 0x00, 0x00, 0x00, 0x01, 0x01, 0x80|0x01, 0x05)

	ts, _ := NewDS3231(bus).Now()
	if ts.Year != 2105 {
		t.Errorf("Year: got %d, want 2105", ts.Year)
	}
}

func TestDS3231SetRoundTrip(t *testing.T) {
	bus := i2cdev.NewFakeBus()
	d := NewDS3231(bus)

	tm := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	if err := d.Set(tm); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ts, err := d.Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if ts != record.FromTime(tm) {
		t.Errorf("round trip: got %+v, want %+v", ts, record.FromTime(tm))
	}

	// Friday is day 6 with Sunday=1
	if bus.Regs[0x03] != 6 {
		t.Errorf("weekday register: got %d, want 6", bus.Regs[0x03])
	}
}

func TestDS3231SetOutOfRange(t *testing.T) {
	d := NewDS3231(i2cdev.NewFakeBus())
	if err := d.Set(time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected error for year 1999")
	}
}

func TestDS3231ReadError(t *testing.T) {
	bus := i2cdev.NewFakeBus()
	bus.ReadError = errors.New("nack")

	if _, err := NewDS3231(bus).Now(); !errors.Is(err, bus.ReadError) {
		t.Errorf("expected wrapped read error, got %v", err)
	}
}

func TestBCD(t *testing.T) {
	for v := 0; v < 100; v++ {
		if got := fromBCD(toBCD(v)); got != v {
			t.Errorf("BCD round trip %d: got %d", v, got)
		}
	}
}
