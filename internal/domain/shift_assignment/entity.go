package shift_assignment

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
)

// Pattern selects which days inside the effective range an assignment covers.
type Pattern string

const (
	PatternAll      Pattern = "all"
	PatternWeekdays Pattern = "weekdays"
	PatternWeekends Pattern = "weekends"
	PatternCustom   Pattern = "custom"
	PatternSpecific Pattern = "specific"
)

var PatternValues = []string{
	string(PatternAll),
	string(PatternWeekdays),
	string(PatternWeekends),
	string(PatternCustom),
	string(PatternSpecific),
}

// Assignment links an employee to a shift for a date range.
type Assignment struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	EmployeeName string
	ShiftID      string

	Pattern       Pattern
	DaysOfWeek    []int // 0 = Sunday, used by PatternCustom
	SpecificDates []time.Time
	EffectiveFrom time.Time
	EffectiveTo   *time.Time

	// Priority orders overlapping assignments; the lowest value wins.
	Priority int
	IsActive bool
	Notes    *string

	// Shift is populated by repository reads.
	Shift shift.Shift

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InRange reports whether date falls inside the effective range, both ends inclusive.
func (a Assignment) InRange(date time.Time) bool {
	day := DateOnly(date)
	if day.Before(DateOnly(a.EffectiveFrom)) {
		return false
	}
	return a.EffectiveTo == nil || !day.After(DateOnly(*a.EffectiveTo))
}

// IsEffectiveOn reports whether the assignment schedules its shift on date.
// Activity of the assignment itself is not considered.
func (a Assignment) IsEffectiveOn(date time.Time) bool {
	if !a.InRange(date) {
		return false
	}

	weekday := int(date.Weekday())
	switch a.Pattern {
	case PatternAll:
		return true
	case PatternWeekdays:
		return weekday >= 1 && weekday <= 5
	case PatternWeekends:
		return weekday == 0 || weekday == 6
	case PatternCustom:
		return slices.Contains(a.DaysOfWeek, weekday)
	case PatternSpecific:
		day := DateOnly(date)
		return slices.ContainsFunc(a.SpecificDates, func(d time.Time) bool {
			return DateOnly(d).Equal(day)
		})
	default:
		return false
	}
}

// Resolve picks the assignment in effect on date from one employee's
// assignments: active ones only, lowest priority first, then the most
// recent effective_from.
func Resolve(assignments []Assignment, date time.Time) (Assignment, bool) {
	candidates := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.IsActive && a.IsEffectiveOn(date) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return Assignment{}, false
	}

	slices.SortStableFunc(candidates, func(x, y Assignment) int {
		if c := cmp.Compare(x.Priority, y.Priority); c != 0 {
			return c
		}
		return y.EffectiveFrom.Compare(x.EffectiveFrom)
	})

	return candidates[0], true
}

// ResolveByEmployee groups assignments per company and employee and resolves
// each group for date. Employees with nothing in effect are left out.
func ResolveByEmployee(assignments []Assignment, date time.Time) []Assignment {
	type key struct{ company, employee string }

	groups := make(map[key][]Assignment)
	var order []key
	for _, a := range assignments {
		k := key{a.CompanyID, a.EmployeeID}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], a)
	}

	resolved := make([]Assignment, 0, len(order))
	for _, k := range order {
		if a, ok := Resolve(groups[k], date); ok {
			resolved = append(resolved, a)
		}
	}
	return resolved
}
