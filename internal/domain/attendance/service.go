package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CreateAttendance records a day for an employee (admin/HR).
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance edits check-in, check-out or notes. Duration and status are
	// recomputed together whenever a time changes.
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters and a status summary.
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	// PreviewAttendance computes duration and status without storing anything.
	PreviewAttendance(ctx context.Context, req PreviewAttendanceRequest) (PreviewAttendanceResponse, error)

	// AutoCheckout closes every open record on date with check-out at. It returns
	// the number of records closed.
	AutoCheckout(ctx context.Context, date time.Time, at timecalc.TimeOfDay) (int, error)

	// MarkAbsent records an absent day for every employee without a record on
	// date. It returns the number of records created.
	MarkAbsent(ctx context.Context, date time.Time, employees []Employee) (int, error)
}
