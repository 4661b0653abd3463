package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/jackc/pgx/v5"
)

type shiftAssignmentRepository struct {
	db *database.DB
}

const assignmentSelect = `
	SELECT a.id, a.company_id, a.employee_id, a.employee_name, a.shift_id,
		a.pattern, a.days_of_week, a.specific_dates, a.effective_from, a.effective_to,
		a.priority, a.is_active, a.notes, a.created_at, a.updated_at,
		s.id, s.company_id, s.name, s.start_time, s.end_time, s.break_minutes,
		s.is_flexible, s.description, s.is_active, s.created_at, s.updated_at
	FROM shift_assignments a
	JOIN shifts s ON s.id = a.shift_id`

func scanAssignment(row pgx.Row) (shift_assignment.Assignment, error) {
	var (
		a          shift_assignment.Assignment
		pattern    string
		days       []int32
		start, end string
	)

	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.EmployeeName, &a.ShiftID,
		&pattern, &days, &a.SpecificDates, &a.EffectiveFrom, &a.EffectiveTo,
		&a.Priority, &a.IsActive, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.Shift.ID, &a.Shift.CompanyID, &a.Shift.Name, &start, &end, &a.Shift.BreakMinutes,
		&a.Shift.IsFlexible, &a.Shift.Description, &a.Shift.IsActive, &a.Shift.CreatedAt, &a.Shift.UpdatedAt,
	)
	if err != nil {
		return shift_assignment.Assignment{}, err
	}

	a.Pattern = shift_assignment.Pattern(pattern)
	a.DaysOfWeek = make([]int, len(days))
	for i, d := range days {
		a.DaysOfWeek[i] = int(d)
	}

	if a.Shift.StartTime, err = timecalc.ParseTimeOfDay(start); err != nil {
		return shift_assignment.Assignment{}, fmt.Errorf("stored start_time of shift %s: %w", a.Shift.ID, err)
	}
	if a.Shift.EndTime, err = timecalc.ParseTimeOfDay(end); err != nil {
		return shift_assignment.Assignment{}, fmt.Errorf("stored end_time of shift %s: %w", a.Shift.ID, err)
	}

	return a, nil
}

func collectAssignments(rows pgx.Rows) ([]shift_assignment.Assignment, error) {
	defer rows.Close()

	var assignments []shift_assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift assignments: %w", err)
	}

	return assignments, nil
}

// arrays never encodes a nil slice, the columns are NOT NULL.
func arrays(a shift_assignment.Assignment) ([]int32, []time.Time) {
	days := make([]int32, 0, len(a.DaysOfWeek))
	for _, d := range a.DaysOfWeek {
		days = append(days, int32(d))
	}
	dates := make([]time.Time, 0, len(a.SpecificDates))
	dates = append(dates, a.SpecificDates...)
	return days, dates
}

// Create implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) Create(ctx context.Context, a shift_assignment.Assignment) (shift_assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			id, company_id, employee_id, employee_name, shift_id, pattern,
			days_of_week, specific_dates, effective_from, effective_to,
			priority, is_active, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	days, dates := arrays(a)
	var id string
	err := q.QueryRow(ctx, query,
		a.ID,
		a.CompanyID,
		a.EmployeeID,
		a.EmployeeName,
		a.ShiftID,
		string(a.Pattern),
		days,
		dates,
		a.EffectiveFrom,
		a.EffectiveTo,
		a.Priority,
		a.IsActive,
		a.Notes,
	).Scan(&id)
	if err != nil {
		return shift_assignment.Assignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return r.GetByID(ctx, id, a.CompanyID)
}

// GetByID implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) GetByID(ctx context.Context, id string, companyID string) (shift_assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssignment(q.QueryRow(ctx, assignmentSelect+` WHERE a.id = $1 AND a.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift_assignment.Assignment{}, shift_assignment.ErrAssignmentNotFound
		}
		return shift_assignment.Assignment{}, fmt.Errorf("failed to get shift assignment by id: %w", err)
	}

	return a, nil
}

// Update implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) Update(ctx context.Context, a shift_assignment.Assignment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET pattern = $1,
			days_of_week = $2,
			specific_dates = $3,
			effective_from = $4,
			effective_to = $5,
			priority = $6,
			is_active = $7,
			notes = $8,
			updated_at = NOW()
		WHERE id = $9 AND company_id = $10
	`

	days, dates := arrays(a)
	commandTag, err := q.Exec(ctx, query,
		string(a.Pattern),
		days,
		dates,
		a.EffectiveFrom,
		a.EffectiveTo,
		a.Priority,
		a.IsActive,
		a.Notes,
		a.ID,
		a.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift assignment: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift_assignment.ErrAssignmentNotFound
	}

	return nil
}

// DeactivateByEmployee implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) DeactivateByEmployee(ctx context.Context, companyID, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET is_active = FALSE, updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND is_active
	`

	commandTag, err := q.Exec(ctx, query, companyID, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate shift assignments: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

// DeactivateEmployeeShift implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) DeactivateEmployeeShift(ctx context.Context, companyID, shiftID, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET is_active = FALSE, updated_at = NOW()
		WHERE company_id = $1 AND shift_id = $2 AND employee_id = $3 AND is_active
	`

	commandTag, err := q.Exec(ctx, query, companyID, shiftID, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove employee from shift: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

// ListByEmployee implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) ListByEmployee(ctx context.Context, companyID, employeeID string, isActive *bool) ([]shift_assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := assignmentSelect + ` WHERE a.company_id = $1 AND a.employee_id = $2`
	args := []interface{}{companyID, employeeID}
	if isActive != nil {
		query += ` AND a.is_active = $3`
		args = append(args, *isActive)
	}
	query += ` ORDER BY a.priority, a.effective_from DESC, a.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee shift assignments: %w", err)
	}

	return collectAssignments(rows)
}

// ListActive implements shift_assignment.AssignmentRepository.
func (r *shiftAssignmentRepository) ListActive(ctx context.Context, filter shift_assignment.ActiveFilter) ([]shift_assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	where := `a.is_active AND s.is_active
		AND a.effective_from <= $1
		AND (a.effective_to IS NULL OR a.effective_to >= $2)`
	args := []interface{}{filter.To, filter.From}
	argIdx := 3

	if filter.CompanyID != "" {
		where += fmt.Sprintf(" AND a.company_id = $%d", argIdx)
		args = append(args, filter.CompanyID)
		argIdx++
	}

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
	}

	query := assignmentSelect + ` WHERE ` + where + `
		ORDER BY a.company_id, a.employee_id, a.priority, a.effective_from DESC, a.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active shift assignments: %w", err)
	}

	return collectAssignments(rows)
}

func NewShiftAssignmentRepository(db *database.DB) shift_assignment.AssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}
