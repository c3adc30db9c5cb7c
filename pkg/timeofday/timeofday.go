// Package timeofday parses and compares wall-clock times of day stored as
// zero-padded "HH:MM:SS" strings.
package timeofday

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// strictPattern accepts "H:MM", "HH:MM" and "HH:MM:SS" with in-range fields.
var strictPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

// TimeOfDay is a wall-clock time with second precision. The zero value is
// midnight.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// New builds a TimeOfDay, clamping nothing. Callers are expected to pass
// in-range values.
func New(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}
}

// Normalize parses raw leniently: missing parts and non-numeric segments
// become 0. A segment counts only when it is entirely numeric, so "9:5abc"
// is 09:00:00, not 09:05:00. It never fails. Use Parse at input boundaries
// where malformed values must be rejected.
func Normalize(raw string) TimeOfDay {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	field := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0
		}
		return n
	}
	return TimeOfDay{Hour: field(0), Minute: field(1), Second: field(2)}
}

// Parse is the strict counterpart of Normalize.
func Parse(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if !strictPattern.MatchString(raw) {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", raw)
	}
	return Normalize(raw), nil
}

// Valid reports whether raw would be accepted by Parse.
func Valid(raw string) bool {
	return strictPattern.MatchString(strings.TrimSpace(raw))
}

// String renders the zero-padded HH:MM:SS form used for storage and
// comparison.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// HourMinute renders HH:MM, the granularity at which appointments collide.
func (t TimeOfDay) HourMinute() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// MinutesSinceMidnight truncates seconds.
func (t TimeOfDay) MinutesSinceMidnight() int {
	return t.Hour*60 + t.Minute
}

// Compare returns -1, 0 or 1. For in-range values this agrees with
// comparing the String forms lexicographically.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	a, b := t.Seconds(), o.Seconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether t is strictly earlier than o.
func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }

// AddMinutes advances t, carrying minute overflow into the hour. The hour
// is not wrapped at 24 so that a walk past midnight stays ordered after
// every in-day value.
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	t.Minute += m
	t.Hour += t.Minute / 60
	t.Minute %= 60
	return t
}
