package sensor

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"

	"github.com/sweeney/cave-logger/internal/i2cdev"
)

// DefaultADS1115Address is the ADS1115 address with ADDR tied to GND.
const DefaultADS1115Address = 0x48

// ADS1115 registers and config bits.
const (
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsOsSingle     uint16 = 0x8000
	adsModeSingle   uint16 = 0x0100
	adsDataRate128  uint16 = 0x0080
	adsCompQueueOff uint16 = 0x0003
)

// conversion poll limits (~8 ms per conversion at 128 SPS)
const (
	adsConvTimeout  = 50 * time.Millisecond
	adsConvPollWait = 500 * time.Microsecond
)

// ADS1115FullScale lists supported full-scale voltages and their PGA bits.
// The full-scale voltage is the VRef to use with a Resolution of 32768.
var ADS1115FullScale = map[float64]uint16{
	6.144: 0x0000,
	4.096: 0x0200,
	2.048: 0x0400,
	1.024: 0x0600,
	0.512: 0x0800,
	0.256: 0x0a00,
}

// ADS1115Resolution is the count at positive full scale.
const ADS1115Resolution = 32768

// ADS1115 reads one single-ended channel of an ADS1115 in single-shot mode.
type ADS1115 struct {
	bus     i2cdev.Bus
	channel int
	gain    uint16
}

// NewADS1115 creates a driver for channel (0-3) with the given full-scale voltage.
func NewADS1115(bus i2cdev.Bus, channel int, fullScale float64) (*ADS1115, error) {
	if channel < 0 || channel > 3 {
		return nil, errors.Errorf("ads1115: channel %d out of range 0-3", channel)
	}
	gain, ok := ADS1115FullScale[fullScale]
	if !ok {
		return nil, errors.Errorf("ads1115: unsupported full scale %.3fV", fullScale)
	}
	return &ADS1115{bus: bus, channel: channel, gain: gain}, nil
}

func (a *ADS1115) config() uint16 {
	mux := uint16(0x4000 + a.channel*0x1000) // AINx vs GND
	return adsOsSingle | mux | a.gain | adsModeSingle | adsDataRate128 | adsCompQueueOff
}

// ReadRaw starts a conversion, waits for it to finish and returns the signed result.
func (a *ADS1115) ReadRaw() (int, error) {
	cfg := a.config()
	if err := a.bus.WriteReg(adsRegConfig, []byte{byte(cfg >> 8), byte(cfg)}); err != nil {
		return 0, errors.Wrap(err, "ads1115: write config")
	}

	deadline := time.Now().Add(adsConvTimeout)
	b := make([]byte, 2)
	for {
		if err := a.bus.ReadReg(adsRegConfig, b); err != nil {
			return 0, errors.Wrap(err, "ads1115: read config")
		}
		if binary.BigEndian.Uint16(b)&adsOsSingle != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, errors.New("ads1115: conversion timeout")
		}
		time.Sleep(adsConvPollWait)
	}

	if err := a.bus.ReadReg(adsRegConversion, b); err != nil {
		return 0, errors.Wrap(err, "ads1115: read conversion")
	}
	return int(int16(binary.BigEndian.Uint16(b))), nil
}

// Close releases the bus.
func (a *ADS1115) Close() error {
	return a.bus.Close()
}
