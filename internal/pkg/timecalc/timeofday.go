// Package timecalc derives attendance durations, attendance statuses and shift
// working hours from wall-clock times of day.
//
// Every function in this package is pure: it reads only its arguments and is
// safe to call concurrently.
package timecalc

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is added once to a negative end-minus-start difference to model
// a window that crosses midnight. Spans of 24 hours or more are not representable.
const MinutesPerDay = 24 * 60

// AbsentText is the external rendering of a time or duration that was not recorded.
const AbsentText = "-"

// TimeOfDay is a wall-clock time without a date or timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At builds a TimeOfDay, rejecting out-of-range components.
func At(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, &ValidationError{Value: t.String(), Err: ErrInvalidTimeOfDay}
	}
	return t, nil
}

// ParseTimeOfDay parses "HH:MM". The hour may have one or two digits, the minute
// exactly two.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	return parseField("", s)
}

func parseField(field, s string) (TimeOfDay, error) {
	invalid := &ValidationError{Field: field, Value: s, Err: ErrInvalidTimeOfDay}

	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 || !isDigits(h) || !isDigits(m) {
		return TimeOfDay{}, invalid
	}

	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour > 23 || minute > 59 {
		return TimeOfDay{}, invalid
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// After reports whether t is strictly later than u on the same day.
func (t TimeOfDay) After(u TimeOfDay) bool {
	return t.Minutes() > u.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Span returns the minutes from start to end, wrapping once past midnight when
// end is earlier than start. The result is always in [0, MinutesPerDay).
func Span(start, end TimeOfDay) int {
	total := end.Minutes() - start.Minutes()
	if total < 0 {
		total += MinutesPerDay
	}
	return total
}

// OptionalTime is a TimeOfDay that may be absent ("not recorded").
// The zero value is absent.
type OptionalTime struct {
	t     TimeOfDay
	valid bool
}

// Some wraps a recorded time.
func Some(t TimeOfDay) OptionalTime {
	return OptionalTime{t: t, valid: true}
}

// None is the absent time.
func None() OptionalTime {
	return OptionalTime{}
}

// IsAbsentText reports whether s is one of the "not recorded" encodings: empty,
// blank or "-".
func IsAbsentText(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == AbsentText
}

// ParseOptional maps "", "-" to None and parses anything else as "HH:MM".
func ParseOptional(s string) (OptionalTime, error) {
	return parseOptionalField("", s)
}

func parseOptionalField(field, s string) (OptionalTime, error) {
	if IsAbsentText(s) {
		return None(), nil
	}
	t, err := parseField(field, s)
	if err != nil {
		return None(), err
	}
	return Some(t), nil
}

// ParseOptionalField is ParseOptional with the offending field name attached to
// the returned ValidationError.
func ParseOptionalField(field, s string) (OptionalTime, error) {
	return parseOptionalField(field, s)
}

// Get returns the time and whether it was recorded.
func (o OptionalTime) Get() (TimeOfDay, bool) {
	return o.t, o.valid
}

func (o OptionalTime) IsSet() bool {
	return o.valid
}

// Ptr returns the "HH:MM" text or nil when absent. Used at storage boundaries.
func (o OptionalTime) Ptr() *string {
	if !o.valid {
		return nil
	}
	s := o.t.String()
	return &s
}

func (o OptionalTime) String() string {
	if !o.valid {
		return AbsentText
	}
	return o.t.String()
}

func (o OptionalTime) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OptionalTime) UnmarshalText(b []byte) error {
	parsed, err := ParseOptional(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// OptionalFromPtr is the inverse of Ptr. Stored values are trusted to be valid;
// a malformed value is reported rather than silently treated as absent.
func OptionalFromPtr(s *string) (OptionalTime, error) {
	if s == nil {
		return None(), nil
	}
	return ParseOptional(*s)
}
