package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var timeErr *timecalc.ValidationError
	if errors.As(err, &timeErr) {
		ValidationError(w, validator.FromTimecalc(timeErr).(validator.ValidationErrors).ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, "Token is missing required claims")
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company membership required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "Attendance for this employee and date already exists")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift name already exists")
	case errors.Is(err, shift.ErrShiftsAlreadyExist):
		Conflict(w, "Company already has shifts defined")

	// Shift assignment domain errors
	case errors.Is(err, shift_assignment.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift_assignment.ErrNoShiftAssigned):
		NotFound(w, "No shift assigned for this date")
	case errors.Is(err, shift_assignment.ErrShiftInactive):
		Conflict(w, "Shift is inactive")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
