package timecalc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeOfDay = errors.New("time must be HH:MM with hour 0-23 and minute 00-59")
	ErrNegativeBreak    = errors.New("break duration must not be negative")

	// ErrBreakExceedsSpan flags a shift configuration whose break is longer than
	// the shift itself. The accompanying duration is clamped to zero.
	ErrBreakExceedsSpan = errors.New("break duration exceeds shift span")
)

// ValidationError reports a rejected input value. Err is one of the sentinel
// errors above so callers can use errors.Is.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("%s: invalid value %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
