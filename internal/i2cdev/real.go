//go:build linux

package i2cdev

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/io/i2c"
)

// Open opens the device at addr on the bus dev (e.g. /dev/i2c-1).
func Open(dev string, addr int) (Bus, error) {
	d, err := i2c.Open(&i2c.Devfs{Dev: dev}, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c device 0x%02x on %s", addr, dev)
	}
	return d, nil
}
