package sensor

import (
	"errors"
	"math"
	"testing"
)

func TestAdapterReadTemperature(t *testing.T) {
	a := NewAdapter(&FakeADC{Samples: []int{512}}, DefaultTransform, &FakeCO2{})

	c, err := a.ReadTemperature()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(c-115) > 1e-9 {
		t.Errorf("ReadTemperature: got %v, want 115", c)
	}
}

func TestAdapterReadCO2PassThrough(t *testing.T) {
	// driver sentinels are passed through untouched
	co2 := &FakeCO2{Values: []int{410, 0, 65535}}
	a := NewAdapter(&FakeADC{}, DefaultTransform, co2)

	for _, want := range []int{410, 0, 65535} {
		got, err := a.ReadCO2()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("ReadCO2: got %d, want %d", got, want)
		}
	}
}

func TestAdapterReturnsDriverErrors(t *testing.T) {
	adcErr := errors.New("adc gone")
	co2Err := errors.New("co2 timeout")
	a := NewAdapter(&FakeADC{Samples: []int{0}, ReadError: adcErr}, DefaultTransform, &FakeCO2{ReadError: co2Err})

	c, err := a.ReadTemperature()
	if !errors.Is(err, adcErr) {
		t.Errorf("ReadTemperature error: got %v, want %v", err, adcErr)
	}
	if math.Abs(c+50) > 1e-9 {
		t.Errorf("ReadTemperature should still convert the driver value, got %v", c)
	}

	if _, err := a.ReadCO2(); !errors.Is(err, co2Err) {
		t.Errorf("ReadCO2 error: got %v, want %v", err, co2Err)
	}
}

func TestFakeADCRepeatsLast(t *testing.T) {
	f := &FakeADC{Samples: []int{1, 2}}
	f.ReadRaw()
	f.ReadRaw()
	if v, _ := f.ReadRaw(); v != 2 {
		t.Errorf("expected last sample to repeat, got %d", v)
	}
}
