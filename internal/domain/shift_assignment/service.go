package shift_assignment

import (
	"context"
	"time"
)

// AssignmentService manages which shift each employee works. Dates given as
// "" default to today.
type AssignmentService interface {
	AssignShift(ctx context.Context, req AssignShiftRequest) (AssignmentResponse, error)
	BulkAssign(ctx context.Context, req BulkAssignRequest) (BulkAssignResponse, error)
	UpdateAssignment(ctx context.Context, req UpdateAssignmentRequest) (AssignmentResponse, error)
	DeactivateAssignment(ctx context.Context, id string) error

	// RemoveEmployeeFromShift deactivates the employee's active assignments to
	// the shift.
	RemoveEmployeeFromShift(ctx context.Context, shiftID, employeeID string) error

	ListEmployeeAssignments(ctx context.Context, filter EmployeeAssignmentFilter) ([]AssignmentResponse, error)

	// GetEmployeeShift resolves the shift an employee works on date. Returns
	// ErrNoShiftAssigned when no assignment is in effect.
	GetEmployeeShift(ctx context.Context, employeeID string, date string) (EmployeeShiftResponse, error)

	// GetMyShift and GetMySchedule resolve for the authenticated user.
	GetMyShift(ctx context.Context, date string) (EmployeeShiftResponse, error)
	GetMySchedule(ctx context.Context, req ScheduleRequest) (ScheduleResponse, error)

	// GetEmployeeCounts counts employees per active shift on date.
	GetEmployeeCounts(ctx context.Context, date string) (EmployeeCountsResponse, error)
	ListShiftEmployees(ctx context.Context, filter ShiftEmployeesFilter) (ListShiftEmployeesResponse, error)

	// ScheduledEmployees lists, across companies, everyone with a shift in
	// effect on date.
	ScheduledEmployees(ctx context.Context, date time.Time) ([]ScheduledEmployee, error)
}
