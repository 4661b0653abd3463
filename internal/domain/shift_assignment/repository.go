package shift_assignment

import (
	"context"
	"time"
)

// ActiveFilter selects active assignments of active shifts whose effective
// range overlaps From..To. An empty CompanyID spans every company.
type ActiveFilter struct {
	CompanyID  string
	EmployeeID *string
	From       time.Time
	To         time.Time
}

// AssignmentRepository defines data access methods for shift assignments.
// Reads join the assigned shift.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment Assignment) (Assignment, error)
	GetByID(ctx context.Context, id string, companyID string) (Assignment, error)

	// Update writes the schedule fields, priority, activity and notes.
	Update(ctx context.Context, assignment Assignment) error

	// DeactivateByEmployee deactivates every active assignment of the employee
	// and returns how many changed.
	DeactivateByEmployee(ctx context.Context, companyID, employeeID string) (int64, error)

	// DeactivateEmployeeShift deactivates the employee's active assignments to
	// one shift and returns how many changed.
	DeactivateEmployeeShift(ctx context.Context, companyID, shiftID, employeeID string) (int64, error)

	// ListByEmployee returns the employee's assignments ordered by priority,
	// then effective_from descending.
	ListByEmployee(ctx context.Context, companyID, employeeID string, isActive *bool) ([]Assignment, error)

	ListActive(ctx context.Context, filter ActiveFilter) ([]Assignment, error)
}
