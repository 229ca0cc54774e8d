// Package sensor wraps the CO2 sensor and the analog temperature sensor into
// the two reads the duty cycle needs.
package sensor

// ADC samples one analog input channel.
type ADC interface {
	// ReadRaw returns the raw conversion result in counts.
	ReadRaw() (int, error)
}

// CO2Sensor reports the current CO2 concentration.
type CO2Sensor interface {
	// PPM returns the concentration in parts per million, unvalidated.
	PPM() (int, error)
}

// Adapter performs the two independent reads of a duty cycle. It holds no
// state between reads.
type Adapter struct {
	adc       ADC
	transform Transform
	co2       CO2Sensor
}

// NewAdapter creates an Adapter.
func NewAdapter(adc ADC, transform Transform, co2 CO2Sensor) *Adapter {
	return &Adapter{adc: adc, transform: transform, co2: co2}
}

// ReadTemperature samples the analog channel and converts it to °C. On a
// driver error the converted driver value is still returned alongside the error.
func (a *Adapter) ReadTemperature() (float64, error) {
	raw, err := a.adc.ReadRaw()
	return a.transform.Celsius(raw), err
}

// ReadCO2 returns whatever the CO2 driver reports, unmodified.
func (a *Adapter) ReadCO2() (int, error) {
	return a.co2.PPM()
}
