package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftNameExists    = errors.New("shift name already exists")
	ErrShiftsAlreadyExist = errors.New("company already has shifts defined")
)
