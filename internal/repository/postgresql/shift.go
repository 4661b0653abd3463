package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

const shiftColumns = `
	id, company_id, name, start_time, end_time, break_minutes,
	is_flexible, description, is_active, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s          shift.Shift
		start, end string
	)

	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &start, &end, &s.BreakMinutes,
		&s.IsFlexible, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}

	if s.StartTime, err = timecalc.ParseTimeOfDay(start); err != nil {
		return shift.Shift{}, fmt.Errorf("stored start_time of %s: %w", s.ID, err)
	}
	if s.EndTime, err = timecalc.ParseTimeOfDay(end); err != nil {
		return shift.Shift{}, fmt.Errorf("stored end_time of %s: %w", s.ID, err)
	}

	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, newShift shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, company_id, name, start_time, end_time, break_minutes,
			is_flexible, description, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query,
		newShift.ID,
		newShift.CompanyID,
		newShift.Name,
		newShift.StartTime.String(),
		newShift.EndTime.String(),
		newShift.BreakMinutes,
		newShift.IsFlexible,
		newShift.Description,
		newShift.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return shift.Shift{}, shift.ErrShiftNameExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return created, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 AND company_id = $2`

	s, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by id: %w", err)
	}

	return s, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET name = $1,
			start_time = $2,
			end_time = $3,
			break_minutes = $4,
			is_flexible = $5,
			description = $6,
			is_active = $7,
			updated_at = NOW()
		WHERE id = $8 AND company_id = $9
	`

	commandTag, err := q.Exec(ctx, query,
		s.Name,
		s.StartTime.String(),
		s.EndTime.String(),
		s.BreakMinutes,
		s.IsFlexible,
		s.Description,
		s.IsActive,
		s.ID,
		s.CompanyID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shift.ErrShiftNameExists
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter, companyID string) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Name != nil && *filter.Name != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}

	if filter.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shifts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	orderByField := "created_at"
	switch filter.SortBy {
	case "name":
		orderByField = "name"
	case "start_time":
		orderByField = "start_time"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM shifts
		WHERE %s
		ORDER BY %s %s, id
		LIMIT $%d OFFSET $%d
	`, shiftColumns, where, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, total, nil
}

// CountByCompany implements shift.ShiftRepository.
func (r *shiftRepository) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shifts WHERE company_id = $1`, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	return count, nil
}

// ListActive implements shift.ShiftRepository.
func (r *shiftRepository) ListActive(ctx context.Context, companyID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE company_id = $1 AND is_active ORDER BY start_time, name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active shifts: %w", err)
	}

	return shifts, nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
