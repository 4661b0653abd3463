package shift_assignment

import "errors"

var (
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrShiftInactive      = errors.New("shift is inactive")
	ErrNoShiftAssigned    = errors.New("no shift assigned for this date")
)
