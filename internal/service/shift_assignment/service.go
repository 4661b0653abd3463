package shift_assignment

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type AssignmentServiceImpl struct {
	tx database.Transactor
	shift_assignment.AssignmentRepository
	shiftRepo shift.ShiftRepository
	location  *time.Location
	now       func() time.Time
}

// AssignShift implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) AssignShift(ctx context.Context, req shift_assignment.AssignShiftRequest) (shift_assignment.AssignmentResponse, error) {
	if req.EffectiveFrom == "" {
		req.EffectiveFrom = s.today().Format(dateLayout)
	}
	if err := req.Validate(); err != nil {
		return shift_assignment.AssignmentResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift_assignment.AssignmentResponse{}, err
	}

	// Validate passed, so the schedule parses.
	assignment, _ := req.Schedule()
	assignment.CompanyID = claims.CompanyID
	assignment.EmployeeID = req.EmployeeID
	assignment.EmployeeName = req.EmployeeName
	assignment.ShiftID = req.ShiftID
	assignment.Priority = 1
	if req.Priority != nil {
		assignment.Priority = *req.Priority
	}
	assignment.IsActive = true
	assignment.Notes = req.Notes

	var created shift_assignment.Assignment
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requireActiveShift(txCtx, req.ShiftID, claims.CompanyID); err != nil {
			return err
		}
		created, err = s.replaceAssignments(txCtx, assignment)
		return err
	})
	if err != nil {
		return shift_assignment.AssignmentResponse{}, err
	}

	slog.Info("Shift assigned", "assignment_id", created.ID, "employee_id", created.EmployeeID, "shift_id", created.ShiftID, "pattern", created.Pattern)
	return mapAssignmentToResponse(created), nil
}

// BulkAssign implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) BulkAssign(ctx context.Context, req shift_assignment.BulkAssignRequest) (shift_assignment.BulkAssignResponse, error) {
	if req.EffectiveFrom == "" {
		req.EffectiveFrom = s.today().Format(dateLayout)
	}
	if err := req.Validate(); err != nil {
		return shift_assignment.BulkAssignResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift_assignment.BulkAssignResponse{}, err
	}

	from, _ := validator.IsValidDate(req.EffectiveFrom)

	var created []shift_assignment.Assignment
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created = created[:0]

		if err := s.requireActiveShift(txCtx, req.ShiftID, claims.CompanyID); err != nil {
			return err
		}

		for _, emp := range req.Employees {
			a, err := s.replaceAssignments(txCtx, shift_assignment.Assignment{
				CompanyID:     claims.CompanyID,
				EmployeeID:    emp.EmployeeID,
				EmployeeName:  emp.EmployeeName,
				ShiftID:       req.ShiftID,
				Pattern:       shift_assignment.PatternAll,
				EffectiveFrom: from,
				Priority:      1,
				IsActive:      true,
				Notes:         req.Notes,
			})
			if err != nil {
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		return shift_assignment.BulkAssignResponse{}, err
	}

	responses := make([]shift_assignment.AssignmentResponse, 0, len(created))
	for _, a := range created {
		responses = append(responses, mapAssignmentToResponse(a))
	}

	slog.Info("Shift bulk assigned", "shift_id", req.ShiftID, "count", len(created))
	return shift_assignment.BulkAssignResponse{
		ShiftID:     req.ShiftID,
		Count:       len(created),
		Assignments: responses,
	}, nil
}

// UpdateAssignment implements shift_assignment.AssignmentService.
// The merged schedule is checked as a whole.
func (s *AssignmentServiceImpl) UpdateAssignment(ctx context.Context, req shift_assignment.UpdateAssignmentRequest) (shift_assignment.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift_assignment.AssignmentResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift_assignment.AssignmentResponse{}, err
	}

	existing, err := s.AssignmentRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		if errors.Is(err, shift_assignment.ErrAssignmentNotFound) {
			return shift_assignment.AssignmentResponse{}, err
		}
		return shift_assignment.AssignmentResponse{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}

	// Formats were checked by Validate.
	if req.Pattern != nil {
		existing.Pattern = shift_assignment.Pattern(*req.Pattern)
	}
	if req.DaysOfWeek != nil {
		existing.DaysOfWeek = *req.DaysOfWeek
	}
	if req.SpecificDates != nil {
		existing.SpecificDates = existing.SpecificDates[:0:0]
		for _, raw := range *req.SpecificDates {
			d, _ := validator.IsValidDate(raw)
			existing.SpecificDates = append(existing.SpecificDates, d)
		}
	}
	if req.EffectiveFrom != nil {
		existing.EffectiveFrom, _ = validator.IsValidDate(*req.EffectiveFrom)
	}
	if req.EffectiveTo != nil {
		existing.EffectiveTo = nil
		if *req.EffectiveTo != "" {
			end, _ := validator.IsValidDate(*req.EffectiveTo)
			existing.EffectiveTo = &end
		}
	}
	if req.Priority != nil {
		existing.Priority = *req.Priority
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}

	if err := shift_assignment.ValidateSchedule(existing); err != nil {
		return shift_assignment.AssignmentResponse{}, err
	}

	if err := s.AssignmentRepository.Update(ctx, existing); err != nil {
		if errors.Is(err, shift_assignment.ErrAssignmentNotFound) {
			return shift_assignment.AssignmentResponse{}, err
		}
		return shift_assignment.AssignmentResponse{}, fmt.Errorf("failed to update shift assignment: %w", err)
	}

	updated, err := s.AssignmentRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return shift_assignment.AssignmentResponse{}, fmt.Errorf("failed to get updated shift assignment: %w", err)
	}

	return mapAssignmentToResponse(updated), nil
}

// DeactivateAssignment implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) DeactivateAssignment(ctx context.Context, id string) error {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := s.AssignmentRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		if errors.Is(err, shift_assignment.ErrAssignmentNotFound) {
			return err
		}
		return fmt.Errorf("failed to get shift assignment: %w", err)
	}

	if !existing.IsActive {
		return nil
	}
	existing.IsActive = false

	if err := s.AssignmentRepository.Update(ctx, existing); err != nil {
		if errors.Is(err, shift_assignment.ErrAssignmentNotFound) {
			return err
		}
		return fmt.Errorf("failed to deactivate shift assignment: %w", err)
	}

	return nil
}

// RemoveEmployeeFromShift implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) RemoveEmployeeFromShift(ctx context.Context, shiftID, employeeID string) error {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.shiftRepo.GetByID(ctx, shiftID, claims.CompanyID); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return err
		}
		return fmt.Errorf("failed to get shift: %w", err)
	}

	n, err := s.AssignmentRepository.DeactivateEmployeeShift(ctx, claims.CompanyID, shiftID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to remove employee from shift: %w", err)
	}
	if n == 0 {
		return shift_assignment.ErrAssignmentNotFound
	}

	return nil
}

// ListEmployeeAssignments implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) ListEmployeeAssignments(ctx context.Context, filter shift_assignment.EmployeeAssignmentFilter) ([]shift_assignment.AssignmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.AssignmentRepository.ListByEmployee(ctx, claims.CompanyID, filter.EmployeeID, filter.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee shift assignments: %w", err)
	}

	var on *time.Time
	if filter.Date != nil {
		d, _ := validator.IsValidDate(*filter.Date)
		on = &d
	}

	responses := make([]shift_assignment.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		if on != nil && !a.InRange(*on) {
			continue
		}
		responses = append(responses, mapAssignmentToResponse(a))
	}

	return responses, nil
}

// GetEmployeeShift implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) GetEmployeeShift(ctx context.Context, employeeID string, date string) (shift_assignment.EmployeeShiftResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return shift_assignment.EmployeeShiftResponse{}, validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		}}
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift_assignment.EmployeeShiftResponse{}, err
	}

	return s.employeeShift(ctx, claims.CompanyID, employeeID, date)
}

// GetMyShift implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) GetMyShift(ctx context.Context, date string) (shift_assignment.EmployeeShiftResponse, error) {
	claims, err := s.selfClaims(ctx)
	if err != nil {
		return shift_assignment.EmployeeShiftResponse{}, err
	}

	return s.employeeShift(ctx, claims.CompanyID, claims.UserID, date)
}

// GetMySchedule implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) GetMySchedule(ctx context.Context, req shift_assignment.ScheduleRequest) (shift_assignment.ScheduleResponse, error) {
	if req.From == "" {
		req.From = s.today().Format(dateLayout)
	}
	if req.To == "" {
		if from, valid := validator.IsValidDate(req.From); valid {
			req.To = from.AddDate(0, 0, 6).Format(dateLayout)
		}
	}

	from, to, err := req.Range()
	if err != nil {
		return shift_assignment.ScheduleResponse{}, err
	}

	claims, err := s.selfClaims(ctx)
	if err != nil {
		return shift_assignment.ScheduleResponse{}, err
	}

	assignments, err := s.AssignmentRepository.ListActive(ctx, shift_assignment.ActiveFilter{
		CompanyID:  claims.CompanyID,
		EmployeeID: &claims.UserID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return shift_assignment.ScheduleResponse{}, fmt.Errorf("failed to list active shift assignments: %w", err)
	}

	var days []shift_assignment.ScheduleDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := shift_assignment.ScheduleDay{
			Date:    d.Format(dateLayout),
			Weekday: d.Weekday().String(),
		}
		if a, ok := shift_assignment.Resolve(assignments, d); ok {
			id := a.ID
			summary := summarizeShift(a.Shift)
			day.AssignmentID = &id
			day.Shift = &summary
		}
		days = append(days, day)
	}

	return shift_assignment.ScheduleResponse{
		EmployeeID: claims.UserID,
		From:       from.Format(dateLayout),
		To:         to.Format(dateLayout),
		Days:       days,
	}, nil
}

// GetEmployeeCounts implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) GetEmployeeCounts(ctx context.Context, date string) (shift_assignment.EmployeeCountsResponse, error) {
	day, err := s.parseDay(date)
	if err != nil {
		return shift_assignment.EmployeeCountsResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift_assignment.EmployeeCountsResponse{}, err
	}

	shifts, err := s.shiftRepo.ListActive(ctx, claims.CompanyID)
	if err != nil {
		return shift_assignment.EmployeeCountsResponse{}, fmt.Errorf("failed to list active shifts: %w", err)
	}

	working, err := s.workingOn(ctx, claims.CompanyID, day)
	if err != nil {
		return shift_assignment.EmployeeCountsResponse{}, err
	}

	perShift := make(map[string]int, len(shifts))
	for _, a := range working {
		perShift[a.ShiftID]++
	}

	counts := make([]shift_assignment.ShiftEmployeeCount, 0, len(shifts))
	for _, sh := range shifts {
		counts = append(counts, shift_assignment.ShiftEmployeeCount{
			ShiftID:       sh.ID,
			ShiftName:     sh.Name,
			StartTime:     sh.StartTime.String(),
			EndTime:       sh.EndTime.String(),
			EmployeeCount: perShift[sh.ID],
		})
	}

	return shift_assignment.EmployeeCountsResponse{
		Date:   day.Format(dateLayout),
		Shifts: counts,
	}, nil
}

// ListShiftEmployees implements shift_assignment.AssignmentService.
// Resolution is per employee, so paging happens after it.
func (s *AssignmentServiceImpl) ListShiftEmployees(ctx context.Context, filter shift_assignment.ShiftEmployeesFilter) (shift_assignment.ListShiftEmployeesResponse, error) {
	if filter.Date == "" {
		filter.Date = s.today().Format(dateLayout)
	}
	if err := filter.Validate(); err != nil {
		return shift_assignment.ListShiftEmployeesResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift_assignment.ListShiftEmployeesResponse{}, err
	}

	if _, err := s.shiftRepo.GetByID(ctx, filter.ShiftID, claims.CompanyID); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift_assignment.ListShiftEmployeesResponse{}, err
		}
		return shift_assignment.ListShiftEmployeesResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	day, _ := validator.IsValidDate(filter.Date)
	working, err := s.workingOn(ctx, claims.CompanyID, day)
	if err != nil {
		return shift_assignment.ListShiftEmployeesResponse{}, err
	}

	var search string
	if filter.Search != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.Search))
	}

	var employees []shift_assignment.ShiftEmployee
	for _, a := range working {
		if a.ShiftID != filter.ShiftID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.EmployeeName), search) {
			continue
		}
		employees = append(employees, shift_assignment.ShiftEmployee{
			EmployeeID:   a.EmployeeID,
			EmployeeName: a.EmployeeName,
			AssignmentID: a.ID,
			Pattern:      string(a.Pattern),
			Priority:     a.Priority,
		})
	}
	slices.SortFunc(employees, func(x, y shift_assignment.ShiftEmployee) int {
		if c := cmp.Compare(x.EmployeeName, y.EmployeeName); c != 0 {
			return c
		}
		return cmp.Compare(x.EmployeeID, y.EmployeeID)
	})

	total := int64(len(employees))
	start := min((filter.Page-1)*filter.Limit, len(employees))
	end := min(start+filter.Limit, len(employees))
	page := employees[start:end]
	if page == nil {
		page = []shift_assignment.ShiftEmployee{}
	}

	return shift_assignment.ListShiftEmployeesResponse{
		ShiftID:    filter.ShiftID,
		Date:       filter.Date,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:    validator.Showing(filter.Page, filter.Limit, total),
		Employees:  page,
	}, nil
}

// ScheduledEmployees implements shift_assignment.AssignmentService.
func (s *AssignmentServiceImpl) ScheduledEmployees(ctx context.Context, date time.Time) ([]shift_assignment.ScheduledEmployee, error) {
	working, err := s.workingOn(ctx, "", shift_assignment.DateOnly(date))
	if err != nil {
		return nil, err
	}

	scheduled := make([]shift_assignment.ScheduledEmployee, 0, len(working))
	for _, a := range working {
		scheduled = append(scheduled, shift_assignment.ScheduledEmployee{
			CompanyID:    a.CompanyID,
			EmployeeID:   a.EmployeeID,
			EmployeeName: a.EmployeeName,
			ShiftID:      a.ShiftID,
		})
	}

	return scheduled, nil
}

func (s *AssignmentServiceImpl) today() time.Time {
	return shift_assignment.DateOnly(s.now().In(s.location))
}

// parseDay reads a YYYY-MM-DD query value, "" meaning today.
func (s *AssignmentServiceImpl) parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return s.today(), nil
	}
	d, valid := validator.IsValidDate(raw)
	if !valid {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return d, nil
}

// selfClaims is ClaimsFromContext for endpoints acting on the caller, which
// need the user id as well.
func (s *AssignmentServiceImpl) selfClaims(ctx context.Context) (auth.Claims, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return auth.Claims{}, err
	}
	if !validator.IsValidUUID(claims.UserID) {
		return auth.Claims{}, fmt.Errorf("user_id claim is missing or invalid: %w", auth.ErrMissingClaims)
	}
	return claims, nil
}

func (s *AssignmentServiceImpl) requireActiveShift(ctx context.Context, shiftID, companyID string) error {
	sh, err := s.shiftRepo.GetByID(ctx, shiftID, companyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return err
		}
		return fmt.Errorf("failed to get shift: %w", err)
	}
	if !sh.IsActive {
		return shift_assignment.ErrShiftInactive
	}
	return nil
}

// replaceAssignments deactivates the employee's active assignments and creates
// a. Must run inside a transaction.
func (s *AssignmentServiceImpl) replaceAssignments(ctx context.Context, a shift_assignment.Assignment) (shift_assignment.Assignment, error) {
	if _, err := s.AssignmentRepository.DeactivateByEmployee(ctx, a.CompanyID, a.EmployeeID); err != nil {
		return shift_assignment.Assignment{}, fmt.Errorf("failed to deactivate previous assignments: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return shift_assignment.Assignment{}, fmt.Errorf("failed to generate shift assignment id: %w", err)
	}
	a.ID = id.String()

	created, err := s.AssignmentRepository.Create(ctx, a)
	if err != nil {
		return shift_assignment.Assignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}
	return created, nil
}

func (s *AssignmentServiceImpl) employeeShift(ctx context.Context, companyID, employeeID, date string) (shift_assignment.EmployeeShiftResponse, error) {
	day, err := s.parseDay(date)
	if err != nil {
		return shift_assignment.EmployeeShiftResponse{}, err
	}

	assignments, err := s.AssignmentRepository.ListActive(ctx, shift_assignment.ActiveFilter{
		CompanyID:  companyID,
		EmployeeID: &employeeID,
		From:       day,
		To:         day,
	})
	if err != nil {
		return shift_assignment.EmployeeShiftResponse{}, fmt.Errorf("failed to list active shift assignments: %w", err)
	}

	a, ok := shift_assignment.Resolve(assignments, day)
	if !ok {
		return shift_assignment.EmployeeShiftResponse{}, shift_assignment.ErrNoShiftAssigned
	}

	return shift_assignment.EmployeeShiftResponse{
		EmployeeID:   employeeID,
		Date:         day.Format(dateLayout),
		AssignmentID: a.ID,
		Pattern:      string(a.Pattern),
		Shift:        summarizeShift(a.Shift),
	}, nil
}

// workingOn resolves one assignment per employee for day. An empty companyID
// spans every company.
func (s *AssignmentServiceImpl) workingOn(ctx context.Context, companyID string, day time.Time) ([]shift_assignment.Assignment, error) {
	assignments, err := s.AssignmentRepository.ListActive(ctx, shift_assignment.ActiveFilter{
		CompanyID: companyID,
		From:      day,
		To:        day,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active shift assignments: %w", err)
	}
	return shift_assignment.ResolveByEmployee(assignments, day), nil
}

func summarizeShift(sh shift.Shift) shift_assignment.ShiftSummary {
	return shift_assignment.ShiftSummary{
		ID:           sh.ID,
		Name:         sh.Name,
		StartTime:    sh.StartTime.String(),
		EndTime:      sh.EndTime.String(),
		BreakMinutes: sh.BreakMinutes,
		WorkingHours: sh.WorkingHours().Net.String(),
		IsOvernight:  sh.IsOvernight(),
		IsFlexible:   sh.IsFlexible,
	}
}

func mapAssignmentToResponse(a shift_assignment.Assignment) shift_assignment.AssignmentResponse {
	days := a.DaysOfWeek
	if days == nil {
		days = []int{}
	}
	dates := make([]string, 0, len(a.SpecificDates))
	for _, d := range a.SpecificDates {
		dates = append(dates, d.Format(dateLayout))
	}

	var effectiveTo *string
	if a.EffectiveTo != nil {
		to := a.EffectiveTo.Format(dateLayout)
		effectiveTo = &to
	}

	return shift_assignment.AssignmentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		ShiftID:       a.ShiftID,
		Shift:         summarizeShift(a.Shift),
		Pattern:       string(a.Pattern),
		DaysOfWeek:    days,
		SpecificDates: dates,
		EffectiveFrom: a.EffectiveFrom.Format(dateLayout),
		EffectiveTo:   effectiveTo,
		Priority:      a.Priority,
		IsActive:      a.IsActive,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewAssignmentService(
	tx database.Transactor,
	assignmentRepo shift_assignment.AssignmentRepository,
	shiftRepo shift.ShiftRepository,
	location *time.Location,
) shift_assignment.AssignmentService {
	if location == nil {
		location = time.Local
	}
	return &AssignmentServiceImpl{
		tx:                   tx,
		AssignmentRepository: assignmentRepo,
		shiftRepo:            shiftRepo,
		location:             location,
		now:                  time.Now,
	}
}
