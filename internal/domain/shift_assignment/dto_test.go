package shift_assignment

import (
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssign() AssignShiftRequest {
	return AssignShiftRequest{
		ShiftID:       uuid.NewString(),
		EmployeeID:    uuid.NewString(),
		EmployeeName:  " Budi ",
		EffectiveFrom: "2026-03-02",
	}
}

func TestAssignShiftRequest_Validate(t *testing.T) {
	req := validAssign()
	require.NoError(t, req.Validate())
	assert.Equal(t, string(PatternAll), req.Pattern)
	assert.Equal(t, "Budi", req.EmployeeName)

	tests := []struct {
		name   string
		mutate func(r *AssignShiftRequest)
		field  string
	}{
		{"bad pattern", func(r *AssignShiftRequest) { r.Pattern = "fortnightly" }, "pattern"},
		{"custom without days", func(r *AssignShiftRequest) { r.Pattern = "custom" }, "days_of_week"},
		{"day out of range", func(r *AssignShiftRequest) { r.Pattern = "custom"; r.DaysOfWeek = []int{7} }, "days_of_week"},
		{"specific without dates", func(r *AssignShiftRequest) { r.Pattern = "specific" }, "specific_dates"},
		{"bad specific date", func(r *AssignShiftRequest) { r.Pattern = "specific"; r.SpecificDates = []string{"03/10/2026"} }, "specific_dates"},
		{"missing from", func(r *AssignShiftRequest) { r.EffectiveFrom = "" }, "effective_from"},
		{"to before from", func(r *AssignShiftRequest) { r.EffectiveTo = ptr("2026-03-01") }, "effective_to"},
		{"zero priority", func(r *AssignShiftRequest) { r.Priority = ptr(0) }, "priority"},
		{"missing employee", func(r *AssignShiftRequest) { r.EmployeeID = "" }, "employee_id"},
		{"blank name", func(r *AssignShiftRequest) { r.EmployeeName = "  " }, "employee_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validAssign()
			tt.mutate(&req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, req.Validate(), &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestAssignShiftRequest_Schedule(t *testing.T) {
	req := validAssign()
	req.Pattern = "specific"
	req.SpecificDates = []string{"2026-03-10", "2026-03-12"}
	req.EffectiveTo = ptr("2026-03-31")
	require.NoError(t, req.Validate())

	a, errs := req.Schedule()
	require.Empty(t, errs)
	assert.Equal(t, PatternSpecific, a.Pattern)
	assert.Len(t, a.SpecificDates, 2)
	require.NotNil(t, a.EffectiveTo)
	assert.Equal(t, "2026-03-31", a.EffectiveTo.Format("2006-01-02"))
}

func TestBulkAssignRequest_Validate(t *testing.T) {
	id := uuid.NewString()
	req := BulkAssignRequest{
		ShiftID:       uuid.NewString(),
		EffectiveFrom: "2026-03-02",
		Employees: []EmployeeRef{
			{EmployeeID: id, EmployeeName: "Ani"},
			{EmployeeID: id, EmployeeName: "Ani again"},
		},
	}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "employees[1].employee_id")

	req.Employees = nil
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "employees")
}

func TestValidateSchedule(t *testing.T) {
	a := Assignment{Pattern: PatternCustom, DaysOfWeek: []int{1}, EffectiveFrom: day("2026-03-02")}
	assert.NoError(t, ValidateSchedule(a))

	a.DaysOfWeek = nil
	a.EffectiveTo = ptr(day("2026-03-01"))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, ValidateSchedule(a), &verrs)
	assert.Contains(t, verrs.ToMap(), "days_of_week")
	assert.Contains(t, verrs.ToMap(), "effective_to")
}

func TestScheduleRequest_Range(t *testing.T) {
	req := ScheduleRequest{From: "2026-03-01", To: "2026-03-07"}
	from, to, err := req.Range()
	require.NoError(t, err)
	assert.Equal(t, 6*24.0, to.Sub(from).Hours())

	req = ScheduleRequest{From: "2026-03-07", To: "2026-03-01"}
	_, _, err = req.Range()
	assert.Error(t, err)

	req = ScheduleRequest{From: "2026-01-01", To: "2026-06-01"}
	_, _, err = req.Range()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "to")
}
