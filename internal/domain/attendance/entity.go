package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
)

type Attendance struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	CheckIn      timecalc.OptionalTime
	CheckOut     timecalc.OptionalTime
	Duration     timecalc.WorkDuration
	Status       timecalc.Status
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Employee identifies who an attendance record belongs to.
type Employee struct {
	CompanyID    string
	EmployeeID   string
	EmployeeName string
}

// SetTimes records a check-in/check-out pair and recomputes duration and status
// from it. It is the only place the derived fields are assigned.
func (a *Attendance) SetTimes(checkIn, checkOut timecalc.OptionalTime, threshold timecalc.TimeOfDay) {
	a.CheckIn = checkIn
	a.CheckOut = checkOut

	res := timecalc.Evaluate(checkIn, checkOut, threshold)
	a.Duration = res.Duration
	a.Status = res.Status
}

// IsOpen reports whether the day has a check-in without a check-out.
func (a Attendance) IsOpen() bool {
	return a.CheckIn.IsSet() && !a.CheckOut.IsSet()
}

// AppendNote adds line to the notes, separated from existing text by a space.
func (a *Attendance) AppendNote(line string) {
	if a.Notes == nil || *a.Notes == "" {
		a.Notes = &line
		return
	}
	joined := *a.Notes + " " + line
	a.Notes = &joined
}
