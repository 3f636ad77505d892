// Package eeprom reads and writes an AT24Cxx-style I2C EEPROM, splitting transfers on page boundaries
package eeprom

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

const (
	DefaultAddress    = 0x57
	DefaultPageSize   = 32
	DefaultWriteDelay = 5 * time.Millisecond
)

// Config has the bus and timing values for the chip. Zero values use the defaults, and a negative
// WriteDelay disables the settle delay
type Config struct {
	Address    uint16
	PageSize   int
	WriteDelay time.Duration
}

// Device is an EEPROM on an I2C bus
type Device struct {
	bus        drivers.I2C
	address    uint16
	pageSize   int
	writeDelay time.Duration

	sleep func(time.Duration)
}

// New creates a Device with the default configuration
func New(bus drivers.I2C) *Device {
	d := &Device{bus: bus, sleep: time.Sleep}
	d.Configure(Config{})
	return d
}

// Configure applies the Config
func (d *Device) Configure(cfg Config) {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	switch {
	case cfg.WriteDelay == 0:
		cfg.WriteDelay = DefaultWriteDelay
	case cfg.WriteDelay < 0:
		cfg.WriteDelay = 0
	}

	d.address = cfg.Address
	d.pageSize = cfg.PageSize
	d.writeDelay = cfg.WriteDelay
}

// WriteBytes writes data starting at addr. Each transfer stays inside one page, and the chip is
// given WriteDelay to commit the page before the next transfer
func (d *Device) WriteBytes(addr uint16, data []byte) error {
	for len(data) > 0 {
		n := d.pageSize - int(addr)%d.pageSize
		if n > len(data) {
			n = len(data)
		}

		w := make([]byte, 2+n)
		w[0] = byte(addr >> 8)
		w[1] = byte(addr)
		copy(w[2:], data[:n])

		err := d.bus.Tx(d.address, w, nil)
		if err != nil {
			return fmt.Errorf("error writing %d bytes at 0x%04x: %w", n, addr, err)
		}
		if d.writeDelay > 0 {
			d.sleep(d.writeDelay)
		}

		addr += uint16(n)
		data = data[n:]
	}
	return nil
}

// ReadBytes fills buf starting at addr, reading at most one page per transfer
func (d *Device) ReadBytes(addr uint16, buf []byte) error {
	for len(buf) > 0 {
		n := d.pageSize
		if n > len(buf) {
			n = len(buf)
		}

		err := d.bus.Tx(d.address, []byte{byte(addr >> 8), byte(addr)}, buf[:n])
		if err != nil {
			return fmt.Errorf("error reading %d bytes at 0x%04x: %w", n, addr, err)
		}

		addr += uint16(n)
		buf = buf[n:]
	}
	return nil
}
