package rtc

import "time"

// EncodeBCD packs 0-99 into binary-coded decimal
func EncodeBCD(v uint8) uint8 {
	return (v/10)<<4 | v%10
}

// DecodeBCD unpacks a binary-coded decimal register
func DecodeBCD(b uint8) uint8 {
	return (b>>4)*10 + b&0x0F
}

// EncodeHours packs 0-23 into the 24-hour register format, which uses bit 5 for "20" and bit 4
// for "10" instead of a plain tens digit
func EncodeHours(h uint8) uint8 {
	switch {
	case h > 19:
		return 0x20 | h%20
	case h > 9:
		return 0x10 | h%10
	default:
		return h
	}
}

// DecodeHours unpacks the 24-hour register format
func DecodeHours(b uint8) uint8 {
	switch {
	case b&0x20 != 0:
		return b&0x0F + 20
	case b&0x10 != 0:
		return b&0x0F + 10
	default:
		return b & 0x0F
	}
}

// DaysInMonth returns the number of days in the month, accounting for leap years
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weekday returns the ISO day of week (Monday=1 through Sunday=7) stored in the day register
func Weekday(year, month, day int) uint8 {
	wd := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
	if wd == time.Sunday {
		return 7
	}
	return uint8(wd)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
