package shift

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name         string  `json:"name"`
	StartTime    string  `json:"start_time"` // HH:MM
	EndTime      string  `json:"end_time"`   // HH:MM
	BreakMinutes int     `json:"break_minutes"`
	IsFlexible   bool    `json:"is_flexible"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	errs = append(errs, validateHours(r.StartTime, r.EndTime, r.BreakMinutes)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateShiftRequest is a partial update. The resulting start/end/break
// combination is validated again by the service after merging.
type UpdateShiftRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	IsFlexible   *bool   `json:"is_flexible,omitempty"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		} else if len(name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.StartTime != nil && !validator.IsValidTimeOfDay(*r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	if r.EndTime != nil && !validator.IsValidTimeOfDay(*r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PreviewShiftRequest struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
}

type PreviewShiftResponse struct {
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	BreakMinutes   int     `json:"break_minutes"`
	SpanMinutes    int     `json:"span_minutes"`
	WorkingHours   string  `json:"working_hours"`
	WorkingMinutes int     `json:"working_minutes"`
	IsOvernight    bool    `json:"is_overnight"`
	Warning        *string `json:"warning,omitempty"`
}

type ShiftResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	BreakMinutes   int     `json:"break_minutes"`
	WorkingHours   string  `json:"working_hours"`
	WorkingMinutes int     `json:"working_minutes"`
	IsOvernight    bool    `json:"is_overnight"`
	IsFlexible     bool    `json:"is_flexible"`
	Description    *string `json:"description,omitempty"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type ShiftFilter struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // name, start_time, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ShiftFilter) Validate() error {
	errs := validator.Paging(&f.Page, &f.Limit)

	if f.SortBy != "" {
		validSortFields := []string{"name", "start_time", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: name, start_time, created_at",
			})
		}
	} else {
		f.SortBy = "created_at"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListShiftResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Shifts     []ShiftResponse `json:"shifts"`
}

// validateHours checks a complete start/end/break combination, including a
// break that does not fit inside the shift.
func validateHours(start, end string, breakMinutes int) validator.ValidationErrors {
	_, err := timecalc.ComputeShiftDuration(start, end, breakMinutes)
	if err == nil {
		return nil
	}

	var verr *timecalc.ValidationError
	if !errors.As(err, &verr) {
		return validator.ValidationErrors{{Field: "shift", Message: err.Error()}}
	}

	switch {
	case errors.Is(err, timecalc.ErrBreakExceedsSpan):
		return validator.ValidationErrors{{Field: "break_minutes", Message: "break_minutes must not exceed the shift length"}}
	case errors.Is(err, timecalc.ErrNegativeBreak):
		return validator.ValidationErrors{{Field: "break_minutes", Message: "break_minutes must not be negative"}}
	default:
		return validator.ValidationErrors{{Field: verr.Field, Message: verr.Field + " must be in HH:MM format"}}
	}
}

// ValidateHours is validateHours for callers outside the package that merge a
// partial update before checking it.
func ValidateHours(start, end string, breakMinutes int) error {
	if errs := validateHours(start, end, breakMinutes); len(errs) > 0 {
		return errs
	}
	return nil
}
