package gofat12

import (
	"time"
)

var (
	minTimestamp = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxTimestamp = time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC)
)

// ParseDate reads a DOS date stamp:
//
//	Bits 0–4: Day of month, valid value range 1-31 inclusive.
//	Bits 5–8: Month of year, 1 = January, valid value range 1–12 inclusive.
//	Bits 9–15: Count of years from 1980, valid value range 0–127 inclusive
//	(1980–2107).
//
// The result has a time of 00:00:00 in loc, a nil loc means UTC.
//
// Day or month 0 is invalid, in that case time.Time{} is returned so that
// IsZero can be used to detect it.
func ParseDate(input uint16, loc *time.Location) time.Time {
	dayOfMonth := input & 0x1F
	monthOfYear := input & 0x1E0 >> 5
	yearSince1980 := input & 0xFE00 >> 9

	if dayOfMonth == 0 || monthOfYear == 0 {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}

	return time.Date(1980+int(yearSince1980), time.Month(monthOfYear), int(dayOfMonth), 0, 0, 0, 0, loc)
}

// ParseTime reads a DOS time stamp with a granularity of 2 seconds:
//
//	Bits 0–4: 2-second count, valid value range 0–29 inclusive (0 – 58 seconds).
//	Bits 5–10: Minutes, valid value range 0–59 inclusive.
//	Bits 11–15: Hours, valid value range 0–23 inclusive.
//
// It returns the hour, minute and second. Out of range values are capped
// at 23:59:59.
func ParseTime(input uint16) (hour, min, sec int) {
	sec = int(input&0x1F) * 2
	min = int(input & 0x7E0 >> 5)
	hour = int(input & 0xF800 >> 11)

	if hour > 23 || min > 59 || sec > 59 {
		return 23, 59, 59
	}
	return hour, min, sec
}

// ParseTimestamp combines a DOS date and time into one time.Time in loc.
// An invalid date results in time.Time{}.
func ParseTimestamp(date, tm uint16, loc *time.Location) time.Time {
	d := ParseDate(date, loc)
	if d.IsZero() {
		return time.Time{}
	}
	hour, min, sec := ParseTime(tm)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, sec, 0, d.Location())
}

// PackTimestamp converts t into loc and packs it into a DOS date and time.
// Instants before 1980 or after 2107 are clamped to the representable range.
func PackTimestamp(t time.Time, loc *time.Location) (date, tm uint16) {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	if wall.Before(minTimestamp) {
		wall = minTimestamp
	}
	if wall.After(maxTimestamp) {
		wall = maxTimestamp
	}

	tm = uint16(wall.Hour())<<11 |
		uint16(wall.Minute())<<5 |
		uint16(wall.Second()/2)
	date = uint16(wall.Year()-1980)<<9 |
		uint16(wall.Month())<<5 |
		uint16(wall.Day())
	return date, tm
}
