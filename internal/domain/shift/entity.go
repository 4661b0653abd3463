package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
)

// Shift is a named working-time template. Net working time is derived from the
// times and break on every read and never stored.
type Shift struct {
	ID           string
	CompanyID    string
	Name         string
	StartTime    timecalc.TimeOfDay
	EndTime      timecalc.TimeOfDay
	BreakMinutes int
	IsFlexible   bool
	Description  *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkingHours returns the span, break and net working time of the shift.
func (s Shift) WorkingHours() timecalc.ShiftResult {
	return timecalc.ShiftHours(s.StartTime, s.EndTime, s.BreakMinutes)
}

// IsOvernight reports whether the shift ends on the next calendar day.
func (s Shift) IsOvernight() bool {
	return s.StartTime.After(s.EndTime)
}
