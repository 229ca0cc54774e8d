package sensor

// Transform converts a raw ADC sample to degrees Celsius:
//
//	voltage = raw * VRef / Resolution
//	celsius = (voltage - Offset) / Scale
type Transform struct {
	VRef       float64 // ADC reference voltage (V)
	Resolution int     // ADC counts at full scale
	Offset     float64 // sensor output at 0 °C (V)
	Scale      float64 // sensor slope (V/°C)
}

// Default transform: 10-bit ADC on a 3.3 V reference, TMP36-style sensor
// (10 mV/°C, 0.5 V at 0 °C).
var DefaultTransform = Transform{
	VRef:       3.3,
	Resolution: 1024,
	Offset:     0.5,
	Scale:      0.01,
}

// Voltage returns the input voltage for a raw sample.
func (t Transform) Voltage(raw int) float64 {
	return float64(raw) * t.VRef / float64(t.Resolution)
}

// Celsius returns the temperature for a raw sample.
func (t Transform) Celsius(raw int) float64 {
	return (t.Voltage(raw) - t.Offset) / t.Scale
}
