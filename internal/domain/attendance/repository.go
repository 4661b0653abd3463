package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID parameter to prevent cross-company data access attacks.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAttendanceExists when the employee
	// already has a record on that date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// Update writes times, derived fields and notes in a single statement.
	Update(ctx context.Context, attendance Attendance) error

	Delete(ctx context.Context, id string, companyID string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// Summarize counts records per status under the same filter as List,
	// ignoring pagination.
	Summarize(ctx context.Context, filter AttendanceFilter, companyID string) (AttendanceSummary, error)

	// ListOpenByDate returns every record on date, across companies, that has a
	// check-in and no check-out. Rows are locked until the transaction ends.
	ListOpenByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// CreateIfMissing inserts the record unless the employee already has one on
	// that date. It reports whether a row was inserted.
	CreateIfMissing(ctx context.Context, attendance Attendance) (bool, error)
}
