package shift_assignment

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
)

const (
	maxBulkEmployees = 200
	maxScheduleDays  = 62
)

// ========================================
// ASSIGNMENT DTOs
// ========================================

// AssignShiftRequest assigns a shift to one employee. The employee's other
// active assignments are deactivated. EffectiveFrom defaults to today.
type AssignShiftRequest struct {
	ShiftID       string   `json:"-"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name"`
	Pattern       string   `json:"pattern,omitempty"`
	DaysOfWeek    []int    `json:"days_of_week,omitempty"`
	SpecificDates []string `json:"specific_dates,omitempty"` // YYYY-MM-DD
	EffectiveFrom string   `json:"effective_from,omitempty"` // YYYY-MM-DD
	EffectiveTo   *string  `json:"effective_to,omitempty"`   // YYYY-MM-DD
	Priority      *int     `json:"priority,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id must be a valid UUID",
		})
	}

	errs = append(errs, validateEmployee("employee_id", "employee_name", r.EmployeeID, &r.EmployeeName)...)

	if r.Pattern == "" {
		r.Pattern = string(PatternAll)
	}

	if r.Priority != nil && *r.Priority < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be at least 1",
		})
	}

	_, scheduleErrs := r.Schedule()
	errs = append(errs, scheduleErrs...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Schedule parses the schedule fields into an assignment skeleton.
func (r *AssignShiftRequest) Schedule() (Assignment, validator.ValidationErrors) {
	return parseSchedule(r.Pattern, r.DaysOfWeek, r.SpecificDates, r.EffectiveFrom, r.EffectiveTo)
}

type EmployeeRef struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

// BulkAssignRequest assigns one shift to many employees, every day from
// EffectiveFrom on.
type BulkAssignRequest struct {
	ShiftID       string        `json:"-"`
	Employees     []EmployeeRef `json:"employees"`
	EffectiveFrom string        `json:"effective_from,omitempty"` // YYYY-MM-DD
	Notes         *string       `json:"notes,omitempty"`
}

func (r *BulkAssignRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id must be a valid UUID",
		})
	}

	switch {
	case len(r.Employees) == 0:
		errs = append(errs, validator.ValidationError{
			Field:   "employees",
			Message: "employees must not be empty",
		})
	case len(r.Employees) > maxBulkEmployees:
		errs = append(errs, validator.ValidationError{
			Field:   "employees",
			Message: fmt.Sprintf("employees must not exceed %d entries", maxBulkEmployees),
		})
	}

	seen := make(map[string]bool, len(r.Employees))
	for i := range r.Employees {
		prefix := fmt.Sprintf("employees[%d]", i)
		e := &r.Employees[i]
		errs = append(errs, validateEmployee(prefix+".employee_id", prefix+".employee_name", e.EmployeeID, &e.EmployeeName)...)
		if seen[e.EmployeeID] {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".employee_id",
				Message: "employee_id is listed more than once",
			})
		}
		seen[e.EmployeeID] = true
	}

	if _, valid := validator.IsValidDate(r.EffectiveFrom); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_from",
			Message: "effective_from must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateAssignmentRequest is a partial update. The merged schedule is
// validated again by the service. An empty EffectiveTo clears the end date.
type UpdateAssignmentRequest struct {
	ID            string    `json:"-"`
	Pattern       *string   `json:"pattern,omitempty"`
	DaysOfWeek    *[]int    `json:"days_of_week,omitempty"`
	SpecificDates *[]string `json:"specific_dates,omitempty"`
	EffectiveFrom *string   `json:"effective_from,omitempty"`
	EffectiveTo   *string   `json:"effective_to,omitempty"`
	Priority      *int      `json:"priority,omitempty"`
	IsActive      *bool     `json:"is_active,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Pattern != nil && !validator.IsInSlice(*r.Pattern, PatternValues) {
		errs = append(errs, patternError())
	}

	if r.DaysOfWeek != nil {
		errs = append(errs, validateDaysOfWeek(*r.DaysOfWeek)...)
	}

	if r.SpecificDates != nil {
		_, dateErrs := parseDates("specific_dates", *r.SpecificDates)
		errs = append(errs, dateErrs...)
	}

	if r.EffectiveFrom != nil {
		if _, valid := validator.IsValidDate(*r.EffectiveFrom); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_from",
				Message: "effective_from must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EffectiveTo != nil && *r.EffectiveTo != "" {
		if _, valid := validator.IsValidDate(*r.EffectiveTo); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_to",
				Message: "effective_to must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Priority != nil && *r.Priority < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateSchedule checks a merged assignment: the pattern carries the days it
// needs and the effective range is ordered.
func ValidateSchedule(a Assignment) error {
	if errs := scheduleErrors(a); len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeAssignmentFilter lists one employee's assignments. Date keeps only
// assignments whose range covers it.
type EmployeeAssignmentFilter struct {
	EmployeeID string
	IsActive   *bool
	Date       *string
}

func (f *EmployeeAssignmentFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.Date != nil {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ScheduleRequest is a date range for the caller's own schedule. From defaults
// to today and To to a week after From.
type ScheduleRequest struct {
	From string
	To   string
}

// Range parses and checks the range. Call after defaults are applied.
func (r *ScheduleRequest) Range() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	from, validFrom := validator.IsValidDate(r.From)
	if !validFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	to, validTo := validator.IsValidDate(r.To)
	if !validTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}

	if validFrom && validTo {
		switch days := int(to.Sub(from).Hours()/24) + 1; {
		case to.Before(from):
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must not be before from",
			})
		case days > maxScheduleDays:
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: fmt.Sprintf("range must not exceed %d days", maxScheduleDays),
			})
		}
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}

	return from, to, nil
}

// ShiftEmployeesFilter lists the employees working a shift on Date.
type ShiftEmployeesFilter struct {
	ShiftID string
	Date    string
	Search  *string

	Page  int
	Limit int
}

func (f *ShiftEmployeesFilter) Validate() error {
	errs := validator.Paging(&f.Page, &f.Limit)

	if !validator.IsValidUUID(f.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id must be a valid UUID",
		})
	}

	if _, valid := validator.IsValidDate(f.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ShiftSummary is the shift as embedded in assignment responses.
type ShiftSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	WorkingHours string `json:"working_hours"`
	IsOvernight  bool   `json:"is_overnight"`
	IsFlexible   bool   `json:"is_flexible"`
}

type AssignmentResponse struct {
	ID            string       `json:"id"`
	EmployeeID    string       `json:"employee_id"`
	EmployeeName  string       `json:"employee_name"`
	ShiftID       string       `json:"shift_id"`
	Shift         ShiftSummary `json:"shift"`
	Pattern       string       `json:"pattern"`
	DaysOfWeek    []int        `json:"days_of_week"`
	SpecificDates []string     `json:"specific_dates"`
	EffectiveFrom string       `json:"effective_from"`
	EffectiveTo   *string      `json:"effective_to"`
	Priority      int          `json:"priority"`
	IsActive      bool         `json:"is_active"`
	Notes         *string      `json:"notes,omitempty"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}

type BulkAssignResponse struct {
	ShiftID     string               `json:"shift_id"`
	Count       int                  `json:"count"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// EmployeeShiftResponse is the shift an employee works on one date.
type EmployeeShiftResponse struct {
	EmployeeID   string       `json:"employee_id"`
	Date         string       `json:"date"`
	AssignmentID string       `json:"assignment_id"`
	Pattern      string       `json:"pattern"`
	Shift        ShiftSummary `json:"shift"`
}

// ScheduleDay has a nil Shift on days without an assignment in effect.
type ScheduleDay struct {
	Date         string        `json:"date"`
	Weekday      string        `json:"weekday"`
	AssignmentID *string       `json:"assignment_id"`
	Shift        *ShiftSummary `json:"shift"`
}

type ScheduleResponse struct {
	EmployeeID string        `json:"employee_id"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Days       []ScheduleDay `json:"days"`
}

type ShiftEmployeeCount struct {
	ShiftID       string `json:"shift_id"`
	ShiftName     string `json:"shift_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	EmployeeCount int    `json:"employee_count"`
}

type EmployeeCountsResponse struct {
	Date   string               `json:"date"`
	Shifts []ShiftEmployeeCount `json:"shifts"`
}

type ShiftEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	AssignmentID string `json:"assignment_id"`
	Pattern      string `json:"pattern"`
	Priority     int    `json:"priority"`
}

type ListShiftEmployeesResponse struct {
	ShiftID    string          `json:"shift_id"`
	Date       string          `json:"date"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Employees  []ShiftEmployee `json:"employees"`
}

// ScheduledEmployee is one employee expected at work on a date.
type ScheduledEmployee struct {
	CompanyID    string
	EmployeeID   string
	EmployeeName string
	ShiftID      string
}

func validateEmployee(idField, nameField, id string, name *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(id) {
		errs = append(errs, validator.ValidationError{
			Field:   idField,
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(id) {
		errs = append(errs, validator.ValidationError{
			Field:   idField,
			Message: "employee_id must be a valid UUID",
		})
	}

	*name = strings.TrimSpace(*name)
	if *name == "" {
		errs = append(errs, validator.ValidationError{
			Field:   nameField,
			Message: "employee_name is required",
		})
	} else if len(*name) > 150 {
		errs = append(errs, validator.ValidationError{
			Field:   nameField,
			Message: "employee_name must not exceed 150 characters",
		})
	}

	return errs
}

func patternError() validator.ValidationError {
	return validator.ValidationError{
		Field:   "pattern",
		Message: "pattern must be one of: " + strings.Join(PatternValues, ", "),
	}
}

func validateDaysOfWeek(days []int) validator.ValidationErrors {
	for _, d := range days {
		if d < 0 || d > 6 {
			return validator.ValidationErrors{{
				Field:   "days_of_week",
				Message: "days_of_week entries must be between 0 (Sunday) and 6 (Saturday)",
			}}
		}
	}
	return nil
}

func parseDates(field string, raw []string) ([]time.Time, validator.ValidationErrors) {
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, valid := validator.IsValidDate(s)
		if !valid {
			return nil, validator.ValidationErrors{{
				Field:   field,
				Message: field + " entries must be in YYYY-MM-DD format",
			}}
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// parseSchedule reports format errors first and checks consistency only when
// every field parsed.
func parseSchedule(pattern string, days []int, dates []string, from string, to *string) (Assignment, validator.ValidationErrors) {
	var (
		a    Assignment
		errs validator.ValidationErrors
	)

	if !validator.IsInSlice(pattern, PatternValues) {
		errs = append(errs, patternError())
	}
	a.Pattern = Pattern(pattern)

	errs = append(errs, validateDaysOfWeek(days)...)
	a.DaysOfWeek = days

	parsed, dateErrs := parseDates("specific_dates", dates)
	errs = append(errs, dateErrs...)
	a.SpecificDates = parsed

	var valid bool
	if a.EffectiveFrom, valid = validator.IsValidDate(from); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_from",
			Message: "effective_from must be in YYYY-MM-DD format",
		})
	}

	if to != nil && *to != "" {
		end, valid := validator.IsValidDate(*to)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_to",
				Message: "effective_to must be in YYYY-MM-DD format",
			})
		}
		a.EffectiveTo = &end
	}

	if len(errs) > 0 {
		return a, errs
	}

	return a, scheduleErrors(a)
}

func scheduleErrors(a Assignment) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(a.Pattern), PatternValues) {
		errs = append(errs, patternError())
	}

	if a.Pattern == PatternCustom && len(a.DaysOfWeek) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days_of_week",
			Message: "days_of_week is required for the custom pattern",
		})
	}

	if a.Pattern == PatternSpecific && len(a.SpecificDates) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "specific_dates",
			Message: "specific_dates is required for the specific pattern",
		})
	}

	if a.EffectiveTo != nil && DateOnly(*a.EffectiveTo).Before(DateOnly(a.EffectiveFrom)) {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_to",
			Message: "effective_to must not be before effective_from",
		})
	}

	return errs
}
