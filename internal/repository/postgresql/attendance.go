package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, company_id, employee_id, employee_name, date,
	check_in, check_out, duration_minutes, status, notes,
	created_at, updated_at`

// scanAttendance maps one row selected with attendanceColumns.
func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att             attendance.Attendance
		checkIn         *string
		checkOut        *string
		durationMinutes *int
		status          string
	)

	err := row.Scan(
		&att.ID, &att.CompanyID, &att.EmployeeID, &att.EmployeeName, &att.Date,
		&checkIn, &checkOut, &durationMinutes, &status, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if att.CheckIn, err = timecalc.OptionalFromPtr(checkIn); err != nil {
		return attendance.Attendance{}, fmt.Errorf("stored check_in of %s: %w", att.ID, err)
	}
	if att.CheckOut, err = timecalc.OptionalFromPtr(checkOut); err != nil {
		return attendance.Attendance{}, fmt.Errorf("stored check_out of %s: %w", att.ID, err)
	}

	att.Duration = timecalc.NotAvailable()
	if durationMinutes != nil {
		att.Duration = timecalc.DurationOf(*durationMinutes)
	}
	att.Status = timecalc.Status(status)

	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, company_id, employee_id, employee_name, date,
			check_in, check_out, duration_minutes, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.CompanyID,
		newAttendance.EmployeeID,
		newAttendance.EmployeeName,
		newAttendance.Date,
		newAttendance.CheckIn.Ptr(),
		newAttendance.CheckOut.Ptr(),
		newAttendance.Duration.MinutesPtr(),
		string(newAttendance.Status),
		newAttendance.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1 AND company_id = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository.
// Times and derived fields are always written together.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in = $1,
			check_out = $2,
			duration_minutes = $3,
			status = $4,
			notes = $5,
			updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	commandTag, err := q.Exec(ctx, query,
		att.CheckIn.Ptr(),
		att.CheckOut.Ptr(),
		att.Duration.MinutesPtr(),
		string(att.Status),
		att.Notes,
		att.ID,
		att.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, a.db)

	query := `DELETE FROM attendances WHERE id = $1 AND company_id = $2`

	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// buildAttendanceWhere returns the WHERE clause shared by List and Summarize and
// the index of the next free placeholder.
func buildAttendanceWhere(filter attendance.AttendanceFilter, companyID string, withStatus bool) (string, []interface{}, int) {
	where := "company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Employee name filter (search)
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		where += fmt.Sprintf(" AND employee_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		where += fmt.Sprintf(" AND date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	// Date range filters
	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if withStatus && filter.Status != nil && *filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	return where, args, argIdx
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args, argIdx := buildAttendanceWhere(filter, companyID, true)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "date"
	switch filter.SortBy {
	case "employee_name":
		orderByField = "employee_name"
	case "check_in":
		orderByField = "check_in"
	case "status":
		orderByField = "status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE %s
		ORDER BY %s %s NULLS LAST, id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// Summarize implements attendance.AttendanceRepository.
// The status filter is ignored so the header always shows the full breakdown.
func (a *attendanceRepository) Summarize(ctx context.Context, filter attendance.AttendanceFilter, companyID string) (attendance.AttendanceSummary, error) {
	q := GetQuerier(ctx, a.db)

	where, args, _ := buildAttendanceWhere(filter, companyID, false)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'on_time'),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'absent')
		FROM attendances
		WHERE ` + where

	var s attendance.AttendanceSummary
	if err := q.QueryRow(ctx, query, args...).Scan(&s.Total, &s.OnTime, &s.Late, &s.Absent); err != nil {
		return attendance.AttendanceSummary{}, fmt.Errorf("failed to summarize attendances: %w", err)
	}

	return s, nil
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		  AND check_in IS NOT NULL
		  AND check_out IS NULL
		ORDER BY company_id, check_in
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendances: %w", err)
	}
	defer rows.Close()

	var open []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		open = append(open, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open attendances: %w", err)
	}

	return open, nil
}

// CreateIfMissing implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfMissing(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, company_id, employee_id, employee_name, date,
			check_in, check_out, duration_minutes, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (company_id, employee_id, date) DO NOTHING
	`

	commandTag, err := q.Exec(ctx, query,
		att.ID,
		att.CompanyID,
		att.EmployeeID,
		att.EmployeeName,
		att.Date,
		att.CheckIn.Ptr(),
		att.CheckOut.Ptr(),
		att.Duration.MinutesPtr(),
		string(att.Status),
		att.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance if missing: %w", err)
	}

	return commandTag.RowsAffected() == 1, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
