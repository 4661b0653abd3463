package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUUID accepts any RFC 4122 UUID.
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidTimeOfDay accepts "HH:MM".
func IsValidTimeOfDay(s string) bool {
	_, err := timecalc.ParseTimeOfDay(s)
	return err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// FromTimecalc converts a timecalc.ValidationError into the per-field form used
// by request DTOs. Other errors are returned unchanged.
func FromTimecalc(err error) error {
	var verr *timecalc.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	field := verr.Field
	if field == "" {
		field = "time"
	}
	return ValidationErrors{{Field: field, Message: verr.Err.Error()}}
}

// Paging normalizes page/limit the way every list endpoint does: page defaults to
// 1, limit to 20, and limit may not exceed 100.
func Paging(page, limit *int) ValidationErrors {
	var errs ValidationErrors

	if *page < 0 {
		errs = append(errs, ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1
	}

	if *limit < 0 {
		errs = append(errs, ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs = append(errs, ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	return errs
}

// Showing renders the "{first}-{last} of {total}" range label for a list page.
// A page past the end renders "0 of {total}".
func Showing(page, limit int, total int64) string {
	offset := int64((page - 1) * limit)
	if total == 0 || offset >= total {
		return fmt.Sprintf("0 of %d", total)
	}
	last := min(offset+int64(limit), total)
	return fmt.Sprintf("%d-%d of %d", offset+1, last, total)
}
