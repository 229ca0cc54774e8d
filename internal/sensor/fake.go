package sensor

// FakeADC returns scripted raw samples.
type FakeADC struct {
	// Samples are returned in order; the last one repeats.
	Samples []int
	index   int

	// ReadError, if set, is returned alongside the current sample.
	ReadError error
}

// ReadRaw returns the next scripted sample.
func (f *FakeADC) ReadRaw() (int, error) {
	if len(f.Samples) == 0 {
		return 0, f.ReadError
	}
	v := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return v, f.ReadError
}

// FakeCO2 returns scripted concentrations.
type FakeCO2 struct {
	// Values are returned in order; the last one repeats.
	Values []int
	index  int

	// ReadError, if set, is returned alongside the current value.
	ReadError error

	// Calls counts PPM calls.
	Calls int
}

// PPM returns the next scripted value.
func (f *FakeCO2) PPM() (int, error) {
	f.Calls++
	if len(f.Values) == 0 {
		return 0, f.ReadError
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, f.ReadError
}
