package i2cdev

import (
	"errors"
	"fmt"
)

// RegWrite is one recorded register write.
type RegWrite struct {
	Reg  byte
	Data []byte
}

// FakeBus is a test double with a register file and a scripted read queue.
type FakeBus struct {
	// Regs backs ReadReg/WriteReg. WriteReg stores consecutive bytes from Reg upwards.
	Regs map[byte]byte

	// Words, if non-nil, replaces Regs for devices whose register addresses
	// each hold a multi-byte value (e.g. the 16-bit ADS1115 registers).
	Words map[byte][]byte

	// Reads is consumed one entry per Read call.
	Reads [][]byte

	// Writes records raw Write calls.
	Writes [][]byte

	// RegWrites records WriteReg calls.
	RegWrites []RegWrite

	// ReadError, if set, is returned by Read and ReadReg.
	ReadError error

	// WriteError, if set, is returned by Write and WriteReg.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeBus creates an empty FakeBus.
func NewFakeBus() *FakeBus {
	return &FakeBus{Regs: map[byte]byte{}}
}

// Read copies the next scripted response into buf.
func (f *FakeBus) Read(buf []byte) error {
	if f.ReadError != nil {
		return f.ReadError
	}
	if len(f.Reads) == 0 {
		return errors.New("no scripted reads left")
	}
	copy(buf, f.Reads[0])
	f.Reads = f.Reads[1:]
	return nil
}

// Write records buf.
func (f *FakeBus) Write(buf []byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, append([]byte(nil), buf...))
	return nil
}

// NewFakeWordBus creates an empty FakeBus in word-register mode.
func NewFakeWordBus() *FakeBus {
	return &FakeBus{Regs: map[byte]byte{}, Words: map[byte][]byte{}}
}

// ReadReg fills buf from consecutive registers starting at reg, or from the
// single word register reg in word mode.
func (f *FakeBus) ReadReg(reg byte, buf []byte) error {
	if f.ReadError != nil {
		return f.ReadError
	}
	if f.Words != nil {
		v, ok := f.Words[reg]
		if !ok {
			return fmt.Errorf("register 0x%02x not set", reg)
		}
		if len(v) != len(buf) {
			return fmt.Errorf("register 0x%02x holds %d bytes, read of %d", reg, len(v), len(buf))
		}
		copy(buf, v)
		return nil
	}
	for i := range buf {
		v, ok := f.Regs[reg+byte(i)]
		if !ok {
			return fmt.Errorf("register 0x%02x not set", reg+byte(i))
		}
		buf[i] = v
	}
	return nil
}

// WriteReg stores buf into consecutive registers starting at reg, or as the
// whole value of reg in word mode.
func (f *FakeBus) WriteReg(reg byte, buf []byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.RegWrites = append(f.RegWrites, RegWrite{Reg: reg, Data: append([]byte(nil), buf...)})
	if f.Words != nil {
		f.Words[reg] = append([]byte(nil), buf...)
		return nil
	}
	for i, b := range buf {
		f.Regs[reg+byte(i)] = b
	}
	return nil
}

// Close marks the bus as closed.
func (f *FakeBus) Close() error {
	f.Closed = true
	return nil
}
