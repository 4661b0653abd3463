package fixtures

import (
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// ==========================================
// DEFAULT SHIFTS
// ==========================================

// GetDefaultShifts returns the shift definitions seeded for a company that has
// none yet.
func GetDefaultShifts(companyID string) []shift.Shift {
	return []shift.Shift{
		{
			CompanyID:    companyID,
			Name:         "Office Hours",
			StartTime:    timecalc.TimeOfDay{Hour: 8, Minute: 0},
			EndTime:      timecalc.TimeOfDay{Hour: 17, Minute: 0},
			BreakMinutes: 60,
			Description:  strPtr("Standard office day"),
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Name:         "Night Shift",
			StartTime:    timecalc.TimeOfDay{Hour: 22, Minute: 0},
			EndTime:      timecalc.TimeOfDay{Hour: 6, Minute: 0},
			BreakMinutes: 60,
			Description:  strPtr("Overnight shift ending the next morning"),
			IsActive:     true,
		},
	}
}
