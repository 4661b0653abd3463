package attendance

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CreateAttendanceRequest records one employee day. CheckIn and CheckOut take
// "HH:MM"; "" or "-" mean the time was not recorded.
type CreateAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"` // YYYY-MM-DD
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	errs = append(errs, validateTime("check_in", r.CheckIn)...)
	errs = append(errs, validateTime("check_out", r.CheckOut)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Times parses the check-in/check-out pair. Call after Validate.
func (r *CreateAttendanceRequest) Times() (checkIn, checkOut timecalc.OptionalTime, err error) {
	checkIn, err = timecalc.ParseOptionalField("check_in", r.CheckIn)
	if err != nil {
		return
	}
	checkOut, err = timecalc.ParseOptionalField("check_out", r.CheckOut)
	return
}

// UpdateAttendanceRequest for admin/HR to fix a recorded day. Only the times and
// notes are editable; duration and status follow from the times.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.CheckIn == nil && r.CheckOut == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of check_in, check_out or notes is required",
		})
	}

	if r.CheckIn != nil {
		errs = append(errs, validateTime("check_in", *r.CheckIn)...)
	}
	if r.CheckOut != nil {
		errs = append(errs, validateTime("check_out", *r.CheckOut)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TouchesTimes reports whether the request changes check-in or check-out.
func (r *UpdateAttendanceRequest) TouchesTimes() bool {
	return r.CheckIn != nil || r.CheckOut != nil
}

// PreviewAttendanceRequest drives the live recompute of an edit form.
type PreviewAttendanceRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type PreviewAttendanceResponse struct {
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	Duration       string  `json:"duration"`
	WorkingMinutes *int    `json:"working_minutes"`
	WorkingHours   float64 `json:"working_hours"`
	Status         string  `json:"status"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Date           string  `json:"date"`
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	Duration       string  `json:"duration"`
	WorkingMinutes *int    `json:"working_minutes"`
	WorkingHours   float64 `json:"working_hours"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, check_in, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	errs := validator.Paging(&f.Page, &f.Limit)

	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, timecalc.StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(timecalc.StatusValues, ", "),
		})
	}

	// Date validation
	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "check_in", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, employee_name, check_in, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AttendanceSummary mirrors the dashboard header counts.
type AttendanceSummary struct {
	Total  int64 `json:"total"`
	OnTime int64 `json:"on_time"`
	Late   int64 `json:"late"`
	Absent int64 `json:"absent"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Summary     AttendanceSummary    `json:"summary"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func validateTime(field, value string) validator.ValidationErrors {
	if _, err := timecalc.ParseOptionalField(field, value); err != nil {
		var verr *timecalc.ValidationError
		if errors.As(err, &verr) {
			return validator.ValidationErrors{{Field: field, Message: field + " must be HH:MM, empty or \"-\""}}
		}
		return validator.ValidationErrors{{Field: field, Message: err.Error()}}
	}
	return nil
}
