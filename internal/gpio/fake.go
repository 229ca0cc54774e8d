package gpio

// FakeLine is a test double that records every value written to it.
type FakeLine struct {
	// Values contains every value passed to SetValue, in order.
	Values []int

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, is returned by SetValue. The value is still recorded.
	SetError error
}

// NewFakeLine creates a FakeLine.
func NewFakeLine() *FakeLine {
	return &FakeLine{}
}

// SetValue records the value.
func (f *FakeLine) SetValue(value int) error {
	f.Values = append(f.Values, value)
	return f.SetError
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.Closed = true
	return nil
}

// Value returns the last written value, or 0 if the line was never driven.
func (f *FakeLine) Value() int {
	if len(f.Values) == 0 {
		return 0
	}
	return f.Values[len(f.Values)-1]
}

// Count returns how many times value was written.
func (f *FakeLine) Count(value int) int {
	n := 0
	for _, v := range f.Values {
		if v == value {
			n++
		}
	}
	return n
}

// Reset clears recorded values.
func (f *FakeLine) Reset() {
	f.Values = nil
	f.Closed = false
}
