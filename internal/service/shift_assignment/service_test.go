package shift_assignment

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "0193a5b0-7c1e-7000-8000-0000000000bb"

type fakeShiftRepo struct {
	shift.ShiftRepository
	shifts map[string]shift.Shift
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string, companyID string) (shift.Shift, error) {
	s, ok := r.shifts[id]
	if !ok || s.CompanyID != companyID {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *fakeShiftRepo) ListActive(_ context.Context, companyID string) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.CompanyID == companyID && s.IsActive {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b shift.Shift) int { return a.StartTime.Minutes() - b.StartTime.Minutes() })
	return out, nil
}

// fakeAssignmentRepo keeps assignments in insertion order and joins shifts
// from the shift fake on read.
type fakeAssignmentRepo struct {
	shifts      *fakeShiftRepo
	assignments []shift_assignment.Assignment
	inTx        []bool
}

type txMarker struct{}

func (r *fakeAssignmentRepo) join(a shift_assignment.Assignment) shift_assignment.Assignment {
	a.Shift = r.shifts.shifts[a.ShiftID]
	return a
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a shift_assignment.Assignment) (shift_assignment.Assignment, error) {
	r.inTx = append(r.inTx, ctx.Value(txMarker{}) == true)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.assignments = append(r.assignments, a)
	return r.join(a), nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id string, companyID string) (shift_assignment.Assignment, error) {
	for _, a := range r.assignments {
		if a.ID == id && a.CompanyID == companyID {
			return r.join(a), nil
		}
	}
	return shift_assignment.Assignment{}, shift_assignment.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) Update(_ context.Context, a shift_assignment.Assignment) error {
	for i := range r.assignments {
		if r.assignments[i].ID == a.ID && r.assignments[i].CompanyID == a.CompanyID {
			r.assignments[i] = a
			return nil
		}
	}
	return shift_assignment.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) DeactivateByEmployee(_ context.Context, companyID, employeeID string) (int64, error) {
	var n int64
	for i := range r.assignments {
		a := &r.assignments[i]
		if a.CompanyID == companyID && a.EmployeeID == employeeID && a.IsActive {
			a.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeAssignmentRepo) DeactivateEmployeeShift(_ context.Context, companyID, shiftID, employeeID string) (int64, error) {
	var n int64
	for i := range r.assignments {
		a := &r.assignments[i]
		if a.CompanyID == companyID && a.ShiftID == shiftID && a.EmployeeID == employeeID && a.IsActive {
			a.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeAssignmentRepo) ListByEmployee(_ context.Context, companyID, employeeID string, isActive *bool) ([]shift_assignment.Assignment, error) {
	var out []shift_assignment.Assignment
	for _, a := range r.assignments {
		if a.CompanyID != companyID || a.EmployeeID != employeeID {
			continue
		}
		if isActive != nil && a.IsActive != *isActive {
			continue
		}
		out = append(out, r.join(a))
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListActive(_ context.Context, f shift_assignment.ActiveFilter) ([]shift_assignment.Assignment, error) {
	var out []shift_assignment.Assignment
	for _, a := range r.assignments {
		a = r.join(a)
		if !a.IsActive || !a.Shift.IsActive {
			continue
		}
		if f.CompanyID != "" && a.CompanyID != f.CompanyID {
			continue
		}
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if a.EffectiveFrom.After(f.To) || (a.EffectiveTo != nil && a.EffectiveTo.Before(f.From)) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarker{}, true))
}

type fixture struct {
	svc     *AssignmentServiceImpl
	repo    *fakeAssignmentRepo
	shifts  *fakeShiftRepo
	day     shift.Shift
	night   shift.Shift
	retired shift.Shift
}

// 2026-03-02 is a Monday.
var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	mk := func(name string, start, end timecalc.TimeOfDay, active bool) shift.Shift {
		return shift.Shift{ID: uuid.NewString(), CompanyID: testCompanyID, Name: name, StartTime: start, EndTime: end, BreakMinutes: 60, IsActive: active}
	}
	f := &fixture{
		day:     mk("Day", timecalc.TimeOfDay{Hour: 8}, timecalc.TimeOfDay{Hour: 17}, true),
		night:   mk("Night", timecalc.TimeOfDay{Hour: 22}, timecalc.TimeOfDay{Hour: 6}, true),
		retired: mk("Retired", timecalc.TimeOfDay{Hour: 7}, timecalc.TimeOfDay{Hour: 15}, false),
	}
	f.shifts = &fakeShiftRepo{shifts: map[string]shift.Shift{f.day.ID: f.day, f.night.ID: f.night, f.retired.ID: f.retired}}
	f.repo = &fakeAssignmentRepo{shifts: f.shifts}

	svc := NewAssignmentService(fakeTransactor{}, f.repo, f.shifts, time.UTC).(*AssignmentServiceImpl)
	svc.now = func() time.Time { return testNow }
	f.svc = svc
	return f
}

func contextFor(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()

	svc := jwt.NewJWTService("test-secret", time.Hour)
	tokenString, _, err := svc.GenerateAccessToken(userID, testCompanyID, role)
	require.NoError(t, err)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func hrContext(t *testing.T) context.Context {
	return contextFor(t, uuid.NewString(), user.RoleHRManager)
}

func TestAssignShift_ReplacesActiveAssignments(t *testing.T) {
	f := newFixture()
	ctx := hrContext(t)
	employeeID := uuid.NewString()

	first, err := f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: f.day.ID, EmployeeID: employeeID, EmployeeName: "Budi"})
	require.NoError(t, err)
	assert.Equal(t, "all", first.Pattern)
	assert.Equal(t, "2026-03-02", first.EffectiveFrom, "defaults to today")
	assert.Equal(t, 1, first.Priority)
	assert.Equal(t, "8h 0m", first.Shift.WorkingHours)

	second, err := f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{
		ShiftID:       f.night.ID,
		EmployeeID:    employeeID,
		EmployeeName:  "Budi",
		Pattern:       "custom",
		DaysOfWeek:    []int{1, 3, 5},
		EffectiveFrom: "2026-03-01",
		EffectiveTo:   ptr("2026-03-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, second.DaysOfWeek)
	require.NotNil(t, second.EffectiveTo)
	assert.Equal(t, "2026-03-31", *second.EffectiveTo)
	assert.True(t, second.Shift.IsOvernight)

	all, err := f.svc.ListEmployeeAssignments(ctx, shift_assignment.EmployeeAssignmentFilter{EmployeeID: employeeID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	active := 0
	for _, a := range all {
		if a.IsActive {
			active++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, []bool{true, true}, f.repo.inTx)
}

func TestAssignShift_ShiftChecks(t *testing.T) {
	f := newFixture()
	ctx := hrContext(t)

	_, err := f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: f.retired.ID, EmployeeID: uuid.NewString(), EmployeeName: "Ani"})
	assert.ErrorIs(t, err, shift_assignment.ErrShiftInactive)

	_, err = f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: uuid.NewString(), EmployeeID: uuid.NewString(), EmployeeName: "Ani"})
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	_, err = f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: f.day.ID, EmployeeID: uuid.NewString(), EmployeeName: "Ani", Pattern: "specific"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "specific_dates")
	assert.Empty(t, f.repo.assignments)
}

func TestBulkAssign(t *testing.T) {
	f := newFixture()
	ctx := hrContext(t)

	req := shift_assignment.BulkAssignRequest{
		ShiftID: f.day.ID,
		Employees: []shift_assignment.EmployeeRef{
			{EmployeeID: uuid.NewString(), EmployeeName: "Ani"},
			{EmployeeID: uuid.NewString(), EmployeeName: "Budi"},
		},
	}
	resp, err := f.svc.BulkAssign(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	for _, a := range resp.Assignments {
		assert.Equal(t, "all", a.Pattern)
		assert.Equal(t, "2026-03-02", a.EffectiveFrom)
	}

	req.ShiftID = f.retired.ID
	_, err = f.svc.BulkAssign(ctx, req)
	assert.ErrorIs(t, err, shift_assignment.ErrShiftInactive)
}

func TestUpdateAssignment(t *testing.T) {
	f := newFixture()
	ctx := hrContext(t)

	created, err := f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: f.day.ID, EmployeeID: uuid.NewString(), EmployeeName: "Citra"})
	require.NoError(t, err)

	// Switching to custom without days leaves the merged schedule invalid.
	_, err = f.svc.UpdateAssignment(ctx, shift_assignment.UpdateAssignmentRequest{ID: created.ID, Pattern: ptr("custom")})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "days_of_week")

	days := []int{2, 4}
	updated, err := f.svc.UpdateAssignment(ctx, shift_assignment.UpdateAssignmentRequest{
		ID:          created.ID,
		Pattern:     ptr("custom"),
		DaysOfWeek:  &days,
		EffectiveTo: ptr("2026-04-30"),
		Priority:    ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", updated.Pattern)
	assert.Equal(t, []int{2, 4}, updated.DaysOfWeek)
	assert.Equal(t, 3, updated.Priority)
	require.NotNil(t, updated.EffectiveTo)

	cleared, err := f.svc.UpdateAssignment(ctx, shift_assignment.UpdateAssignmentRequest{ID: created.ID, EffectiveTo: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.EffectiveTo)

	_, err = f.svc.UpdateAssignment(ctx, shift_assignment.UpdateAssignmentRequest{ID: uuid.NewString(), Priority: ptr(2)})
	assert.ErrorIs(t, err, shift_assignment.ErrAssignmentNotFound)
}

func TestDeactivateAndRemove(t *testing.T) {
	f := newFixture()
	ctx := hrContext(t)
	employeeID := uuid.NewString()

	created, err := f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: f.day.ID, EmployeeID: employeeID, EmployeeName: "Dewi"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeactivateAssignment(ctx, created.ID))
	_, err = f.svc.GetEmployeeShift(ctx, employeeID, "")
	assert.ErrorIs(t, err, shift_assignment.ErrNoShiftAssigned)
	assert.ErrorIs(t, f.svc.DeactivateAssignment(ctx, uuid.NewString()), shift_assignment.ErrAssignmentNotFound)

	_, err = f.svc.AssignShift(ctx, shift_assignment.AssignShiftRequest{ShiftID: f.day.ID, EmployeeID: employeeID, EmployeeName: "Dewi"})
	require.NoError(t, err)
	require.NoError(t, f.svc.RemoveEmployeeFromShift(ctx, f.day.ID, employeeID))
	assert.ErrorIs(t, f.svc.RemoveEmployeeFromShift(ctx, f.day.ID, employeeID), shift_assignment.ErrAssignmentNotFound)
	assert.ErrorIs(t, f.svc.RemoveEmployeeFromShift(ctx, uuid.NewString(), employeeID), shift.ErrShiftNotFound)
}

func TestGetEmployeeShift_ResolvesByPatternAndPriority(t *testing.T) {
	f := newFixture()
	employeeID := uuid.NewString()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f.repo.assignments = []shift_assignment.Assignment{
		{ID: "weekday-night", CompanyID: testCompanyID, EmployeeID: employeeID, EmployeeName: "Eko", ShiftID: f.night.ID, Pattern: shift_assignment.PatternWeekdays, EffectiveFrom: from, Priority: 1, IsActive: true},
		{ID: "fallback-day", CompanyID: testCompanyID, EmployeeID: employeeID, EmployeeName: "Eko", ShiftID: f.day.ID, Pattern: shift_assignment.PatternAll, EffectiveFrom: from, Priority: 2, IsActive: true},
	}
	ctx := hrContext(t)

	monday, err := f.svc.GetEmployeeShift(ctx, employeeID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "weekday-night", monday.AssignmentID)
	assert.Equal(t, "Night", monday.Shift.Name)

	saturday, err := f.svc.GetEmployeeShift(ctx, employeeID, "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, "fallback-day", saturday.AssignmentID)

	_, err = f.svc.GetEmployeeShift(ctx, employeeID, "2025-12-31")
	assert.ErrorIs(t, err, shift_assignment.ErrNoShiftAssigned)

	_, err = f.svc.GetEmployeeShift(ctx, employeeID, "07-03-2026")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
}

func TestMyShiftAndSchedule(t *testing.T) {
	f := newFixture()
	me := uuid.NewString()
	f.repo.assignments = []shift_assignment.Assignment{
		{ID: "mine", CompanyID: testCompanyID, EmployeeID: me, EmployeeName: "Fajar", ShiftID: f.day.ID, Pattern: shift_assignment.PatternWeekdays, EffectiveFrom: testNow.AddDate(0, 0, -7), Priority: 1, IsActive: true},
	}
	ctx := contextFor(t, me, user.RoleEmployee)

	today, err := f.svc.GetMyShift(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", today.Date)
	assert.Equal(t, "mine", today.AssignmentID)

	schedule, err := f.svc.GetMySchedule(ctx, shift_assignment.ScheduleRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", schedule.From)
	assert.Equal(t, "2026-03-08", schedule.To)
	require.Len(t, schedule.Days, 7)
	for _, d := range schedule.Days[:5] {
		require.NotNil(t, d.Shift, d.Date)
		assert.Equal(t, "Day", d.Shift.Name)
	}
	assert.Equal(t, "Saturday", schedule.Days[5].Weekday)
	assert.Nil(t, schedule.Days[5].Shift)
	assert.Nil(t, schedule.Days[6].Shift)

	_, err = f.svc.GetMyShift(contextFor(t, "", user.RoleEmployee), "")
	assert.ErrorIs(t, err, auth.ErrMissingClaims)
}

func TestEmployeeCountsAndShiftEmployees(t *testing.T) {
	f := newFixture()
	ctx := hrContext(t)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	add := func(name string, shiftID string, pattern shift_assignment.Pattern, priority int) {
		f.repo.assignments = append(f.repo.assignments, shift_assignment.Assignment{
			ID: uuid.NewString(), CompanyID: testCompanyID, EmployeeID: uuid.NewString(), EmployeeName: name,
			ShiftID: shiftID, Pattern: pattern, EffectiveFrom: from, Priority: priority, IsActive: true,
		})
	}
	add("Gita", f.day.ID, shift_assignment.PatternAll, 1)
	add("Hadi", f.day.ID, shift_assignment.PatternWeekdays, 1)
	add("Indra", f.night.ID, shift_assignment.PatternWeekends, 1)
	add("Joko", f.retired.ID, shift_assignment.PatternAll, 1)
	// Another company's employee never shows up.
	f.repo.assignments = append(f.repo.assignments, shift_assignment.Assignment{
		ID: uuid.NewString(), CompanyID: uuid.NewString(), EmployeeID: uuid.NewString(), EmployeeName: "Other",
		ShiftID: f.day.ID, Pattern: shift_assignment.PatternAll, EffectiveFrom: from, Priority: 1, IsActive: true,
	})

	counts, err := f.svc.GetEmployeeCounts(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, counts.Shifts, 2, "inactive shifts are not listed")
	assert.Equal(t, "Day", counts.Shifts[0].ShiftName)
	assert.Equal(t, 2, counts.Shifts[0].EmployeeCount)
	assert.Equal(t, 0, counts.Shifts[1].EmployeeCount)

	weekend, err := f.svc.GetEmployeeCounts(ctx, "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, 1, weekend.Shifts[0].EmployeeCount)
	assert.Equal(t, 1, weekend.Shifts[1].EmployeeCount)

	list, err := f.svc.ListShiftEmployees(ctx, shift_assignment.ShiftEmployeesFilter{ShiftID: f.day.ID, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.TotalCount)
	assert.Equal(t, 2, list.TotalPages)
	require.Len(t, list.Employees, 1)
	assert.Equal(t, "Gita", list.Employees[0].EmployeeName)
	assert.Equal(t, "1-1 of 2", list.Showing)

	search := "HAD"
	list, err = f.svc.ListShiftEmployees(ctx, shift_assignment.ShiftEmployeesFilter{ShiftID: f.day.ID, Search: &search})
	require.NoError(t, err)
	require.Len(t, list.Employees, 1)
	assert.Equal(t, "Hadi", list.Employees[0].EmployeeName)

	list, err = f.svc.ListShiftEmployees(ctx, shift_assignment.ShiftEmployeesFilter{ShiftID: f.day.ID, Page: 5})
	require.NoError(t, err)
	assert.Empty(t, list.Employees)
	assert.Equal(t, "0 of 2", list.Showing)
}

func TestScheduledEmployees_SpansCompanies(t *testing.T) {
	f := newFixture()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	otherCompany := uuid.NewString()

	f.repo.assignments = []shift_assignment.Assignment{
		{ID: "a", CompanyID: testCompanyID, EmployeeID: "e1", EmployeeName: "Kiki", ShiftID: f.day.ID, Pattern: shift_assignment.PatternWeekdays, EffectiveFrom: from, Priority: 1, IsActive: true},
		{ID: "b", CompanyID: otherCompany, EmployeeID: "e2", EmployeeName: "Lina", ShiftID: f.day.ID, Pattern: shift_assignment.PatternAll, EffectiveFrom: from, Priority: 1, IsActive: true},
		{ID: "c", CompanyID: testCompanyID, EmployeeID: "e3", EmployeeName: "Maya", ShiftID: f.day.ID, Pattern: shift_assignment.PatternAll, EffectiveFrom: from, Priority: 1, IsActive: false},
	}

	monday, err := f.svc.ScheduledEmployees(context.Background(), time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.ElementsMatch(t, []shift_assignment.ScheduledEmployee{
		{CompanyID: testCompanyID, EmployeeID: "e1", EmployeeName: "Kiki", ShiftID: f.day.ID},
		{CompanyID: otherCompany, EmployeeID: "e2", EmployeeName: "Lina", ShiftID: f.day.ID},
	}, monday)

	saturday, err := f.svc.ScheduledEmployees(context.Background(), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, saturday, 1)
	assert.Equal(t, "e2", saturday[0].EmployeeID)
}

func ptr[T any](v T) *T { return &v }
