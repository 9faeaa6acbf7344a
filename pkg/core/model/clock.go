package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of a day in minutes
const MinutesPerDay = 24 * 60

// ClockTime is a time of day in minutes since midnight, written as "HH:MM"
type ClockTime int

// ParseClockTime parses a 24-hour "HH:MM" string. Seconds ("HH:MM:SS") are accepted
// and must be zero, which is how Postgres renders TIME columns.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time %q: hour must be 00-23", s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: minute must be 00-59", s)
	}

	if len(parts) == 3 && parts[2] != "00" {
		return 0, fmt.Errorf("invalid time %q: seconds are not supported", s)
	}

	return ClockTime(hours*60 + minutes), nil
}

// MustParseClockTime is ParseClockTime for literals. It panics on error.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Minutes returns minutes since midnight
func (c ClockTime) Minutes() int {
	return int(c)
}

// MarshalText implements encoding.TextMarshaler
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SlotDurationMinutes returns end - start in minutes. An end earlier than the start
// crosses midnight, so a day is added to it first.
func SlotDurationMinutes(start, end ClockTime) int {
	e := end.Minutes()
	if e < start.Minutes() {
		e += MinutesPerDay
	}
	return e - start.Minutes()
}

// Interval returns the slot as [start, end) minutes with end unwrapped past midnight
func Interval(start, end ClockTime) (int, int) {
	return start.Minutes(), start.Minutes() + SlotDurationMinutes(start, end)
}
