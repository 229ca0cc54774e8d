//go:build !linux

package i2cdev

import "errors"

// Open returns an error on non-Linux platforms.
func Open(dev string, addr int) (Bus, error) {
	return nil, errors.New("i2c: not supported on this platform (requires Linux)")
}
