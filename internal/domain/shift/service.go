package shift

import "context"

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)

	// PreviewShift computes working hours without storing anything. A break
	// longer than the shift yields zero hours and a warning, not an error.
	PreviewShift(ctx context.Context, req PreviewShiftRequest) (PreviewShiftResponse, error)

	// SeedDefaults creates the default shifts for a company that has none.
	SeedDefaults(ctx context.Context) ([]ShiftResponse, error)
}
