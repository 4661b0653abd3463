package timecalc

import "fmt"

// Status classifies an attendance day.
type Status string

const (
	StatusOnTime Status = "on_time"
	StatusLate   Status = "late"
	StatusAbsent Status = "absent"

	// Overtime and weekend are assigned upstream and only ever displayed.
	// Evaluate never returns them.
	StatusOvertime Status = "overtime"
	StatusWeekend  Status = "weekend"
)

var StatusValues = []string{
	string(StatusOnTime),
	string(StatusLate),
	string(StatusAbsent),
	string(StatusOvertime),
	string(StatusWeekend),
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusAbsent, StatusOvertime, StatusWeekend:
		return true
	}
	return false
}

// DefaultLateThreshold is the check-in time after which a day counts as late.
var DefaultLateThreshold = TimeOfDay{Hour: 8, Minute: 0}

// WorkDuration is an elapsed number of minutes, or "not available" when one of
// the bounding times was not recorded.
type WorkDuration struct {
	Minutes   int
	Available bool
}

// DurationOf returns an available duration of n minutes.
func DurationOf(n int) WorkDuration {
	return WorkDuration{Minutes: n, Available: true}
}

// NotAvailable is the duration of a day missing a check-in or check-out.
func NotAvailable() WorkDuration {
	return WorkDuration{}
}

// String renders "{h}h {m}m", or "-" when not available.
func (d WorkDuration) String() string {
	if !d.Available {
		return AbsentText
	}
	return fmt.Sprintf("%dh %dm", d.Minutes/60, d.Minutes%60)
}

// Hours returns the duration in fractional hours, 0 when not available.
func (d WorkDuration) Hours() float64 {
	if !d.Available {
		return 0
	}
	return float64(d.Minutes) / 60
}

// MinutesPtr returns nil when not available. Used at storage boundaries.
func (d WorkDuration) MinutesPtr() *int {
	if !d.Available {
		return nil
	}
	m := d.Minutes
	return &m
}

func (d WorkDuration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Result is the derived pair for one attendance day. Duration and Status always
// come from the same Evaluate call and are stored together.
type Result struct {
	Duration WorkDuration
	Status   Status
}

// Evaluate derives duration and status from a check-in/check-out pair.
//
// Either time absent: duration not available, status absent. Otherwise the
// duration wraps past midnight at most once and the status is late only when
// check-in is strictly after threshold.
func Evaluate(checkIn, checkOut OptionalTime, threshold TimeOfDay) Result {
	in, okIn := checkIn.Get()
	out, okOut := checkOut.Get()
	if !okIn || !okOut {
		return Result{Duration: NotAvailable(), Status: StatusAbsent}
	}

	res := Result{Duration: DurationOf(Span(in, out)), Status: StatusOnTime}
	if in.After(threshold) {
		res.Status = StatusLate
	}
	return res
}

// Recompute parses a raw check-in/check-out pair and evaluates it.
// An absent value on either side wins without validating the other side.
func Recompute(checkIn, checkOut string, threshold TimeOfDay) (Result, error) {
	if IsAbsentText(checkIn) || IsAbsentText(checkOut) {
		return Evaluate(None(), None(), threshold), nil
	}

	in, err := parseField("check_in", checkIn)
	if err != nil {
		return Result{}, err
	}
	out, err := parseField("check_out", checkOut)
	if err != nil {
		return Result{}, err
	}

	return Evaluate(Some(in), Some(out), threshold), nil
}

// ComputeDuration returns the worked duration between two "HH:MM" times, or the
// not-available duration when either is "" or "-".
func ComputeDuration(checkIn, checkOut string) (WorkDuration, error) {
	res, err := Recompute(checkIn, checkOut, DefaultLateThreshold)
	if err != nil {
		return WorkDuration{}, err
	}
	return res.Duration, nil
}

// DeriveStatus classifies a check-in/check-out pair against threshold.
func DeriveStatus(checkIn, checkOut string, threshold TimeOfDay) (Status, error) {
	res, err := Recompute(checkIn, checkOut, threshold)
	if err != nil {
		return "", err
	}
	return res.Status, nil
}
