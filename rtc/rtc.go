// Package rtc keeps wall-clock time on a DS3231-compatible real-time clock
package rtc

import (
	"fmt"
	"time"

	"github.com/calvinmclean/autofeeder"
	"tinygo.org/x/drivers"
)

const (
	DefaultAddress = 0x68

	regSeconds = 0x00
	numRegs    = 7

	baseYear = 2000
)

// DateTime is a full calendar time as stored in the clock's registers
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// FromTime converts a time.Time
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Time converts to a time.Time in loc
func (dt DateTime) Time(loc *time.Location) time.Time {
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day, dt.Hour, dt.Minute, dt.Second, 0, loc)
}

// TimeOfDay drops everything but the hour and minute
func (dt DateTime) TimeOfDay() autofeeder.TimeOfDay {
	return autofeeder.TimeOfDay{Hour: uint8(dt.Hour), Minute: uint8(dt.Minute)}
}

// Clamp forces every field into the range the registers can hold. The year is limited to the
// 2000-2099 window of the year register
func (dt DateTime) Clamp() DateTime {
	dt.Year = clamp(dt.Year, baseYear, baseYear+99)
	dt.Month = clamp(dt.Month, 1, 12)
	dt.Day = clamp(dt.Day, 0, DaysInMonth(dt.Year, dt.Month))
	dt.Hour = clamp(dt.Hour, 0, 23)
	dt.Minute = clamp(dt.Minute, 0, 59)
	dt.Second = clamp(dt.Second, 0, 59)
	return dt
}

// Device is a real-time clock on an I2C bus
type Device struct {
	bus     drivers.I2C
	Address uint16
}

// New creates a Device at the default address
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: DefaultAddress}
}

// Now reads the current hour and minute. Seconds, minutes, and hours are read in one transfer
// so the values are consistent with each other
func (d *Device) Now() (autofeeder.TimeOfDay, error) {
	buf := make([]byte, 3)
	err := d.bus.Tx(d.Address, []byte{regSeconds}, buf)
	if err != nil {
		return autofeeder.TimeOfDay{}, fmt.Errorf("error reading time: %w", err)
	}

	return autofeeder.TimeOfDay{
		Hour:   DecodeHours(buf[2]),
		Minute: DecodeBCD(buf[1]),
	}, nil
}

// ReadDateTime reads every time register
func (d *Device) ReadDateTime() (DateTime, error) {
	buf := make([]byte, numRegs)
	err := d.bus.Tx(d.Address, []byte{regSeconds}, buf)
	if err != nil {
		return DateTime{}, fmt.Errorf("error reading date: %w", err)
	}
	return decodeRegisters(buf), nil
}

// SetTime clamps dt and writes it to the clock. The day of week is computed from the date
func (d *Device) SetTime(dt DateTime) error {
	w := append([]byte{regSeconds}, encodeRegisters(dt.Clamp())...)
	err := d.bus.Tx(d.Address, w, nil)
	if err != nil {
		return fmt.Errorf("error setting time: %w", err)
	}
	return nil
}

func encodeRegisters(dt DateTime) []byte {
	return []byte{
		EncodeBCD(uint8(dt.Second)),
		EncodeBCD(uint8(dt.Minute)),
		EncodeHours(uint8(dt.Hour)),
		Weekday(dt.Year, dt.Month, dt.Day),
		EncodeBCD(uint8(dt.Day)),
		EncodeBCD(uint8(dt.Month)),
		EncodeBCD(uint8(dt.Year - baseYear)),
	}
}

func decodeRegisters(buf []byte) DateTime {
	return DateTime{
		Second: int(DecodeBCD(buf[0] & 0x7F)),
		Minute: int(DecodeBCD(buf[1])),
		Hour:   int(DecodeHours(buf[2])),
		Day:    int(DecodeBCD(buf[4])),
		// bit 7 is the century flag
		Month: int(DecodeBCD(buf[5] & 0x1F)),
		Year:  int(DecodeBCD(buf[6])) + baseYear,
	}
}
