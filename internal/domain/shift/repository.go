package shift

import "context"

// ShiftRepository defines data access methods for shift definitions.
// All methods include companyID parameter to prevent cross-company data access attacks.
type ShiftRepository interface {
	// Create returns ErrShiftNameExists when the name is taken in the company.
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)
	Update(ctx context.Context, shift Shift) error
	Delete(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, filter ShiftFilter, companyID string) ([]Shift, int64, error)
	CountByCompany(ctx context.Context, companyID string) (int64, error)

	// ListActive returns the company's active shifts ordered by start time.
	ListActive(ctx context.Context, companyID string) ([]Shift, error)
}
