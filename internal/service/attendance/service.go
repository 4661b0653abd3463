package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	lateThreshold timecalc.TimeOfDay
}

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		recordValidationFailure(err)
		return attendance.AttendanceResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	checkIn, checkOut, err := req.Times()
	if err != nil {
		return attendance.AttendanceResponse{}, validator.FromTimecalc(err)
	}
	date, _ := validator.IsValidDate(req.Date)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	att := attendance.Attendance{
		ID:           id.String(),
		CompanyID:    claims.CompanyID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		Date:         date,
		Notes:        req.Notes,
	}
	att.SetTimes(checkIn, checkOut, a.lateThreshold)
	metrics.IncAttendanceRecomputed("create", string(att.Status))

	created, err := a.AttendanceRepository.Create(ctx, att)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
// A changed time always recomputes duration and status from the resulting pair;
// the three are then written in one statement.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		recordValidationFailure(err)
		return attendance.AttendanceResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.AttendanceRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if req.TouchesTimes() {
		checkIn, checkOut := att.CheckIn, att.CheckOut
		if req.CheckIn != nil {
			if checkIn, err = timecalc.ParseOptionalField("check_in", *req.CheckIn); err != nil {
				return attendance.AttendanceResponse{}, validator.FromTimecalc(err)
			}
		}
		if req.CheckOut != nil {
			if checkOut, err = timecalc.ParseOptionalField("check_out", *req.CheckOut); err != nil {
				return attendance.AttendanceResponse{}, validator.FromTimecalc(err)
			}
		}
		att.SetTimes(checkIn, checkOut, a.lateThreshold)
		metrics.IncAttendanceRecomputed("update", string(att.Status))
	}

	if req.Notes != nil {
		att.Notes = req.Notes
	}

	if err := a.AttendanceRepository.Update(ctx, att); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	// Fetch updated record
	updatedAtt, err := a.AttendanceRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}

	return mapAttendanceToResponse(updatedAtt), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.AttendanceRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapAttendanceToResponse(att), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	summary, err := a.AttendanceRepository.Summarize(ctx, filter, claims.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to summarize attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     validator.Showing(filter.Page, filter.Limit, total),
		Summary:     summary,
		Attendances: responses,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.AttendanceRepository.Delete(ctx, id, claims.CompanyID); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	return nil
}

// PreviewAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PreviewAttendance(ctx context.Context, req attendance.PreviewAttendanceRequest) (attendance.PreviewAttendanceResponse, error) {
	res, err := timecalc.Recompute(req.CheckIn, req.CheckOut, a.lateThreshold)
	if err != nil {
		recordValidationFailure(err)
		return attendance.PreviewAttendanceResponse{}, err
	}
	metrics.IncAttendanceRecomputed("preview", string(res.Status))

	return attendance.PreviewAttendanceResponse{
		CheckIn:        displayTime(req.CheckIn),
		CheckOut:       displayTime(req.CheckOut),
		Duration:       res.Duration.String(),
		WorkingMinutes: res.Duration.MinutesPtr(),
		WorkingHours:   res.Duration.Hours(),
		Status:         string(res.Status),
	}, nil
}

// AutoCheckout implements attendance.AttendanceService.
// Records whose check-in is later than at are left open.
func (a *AttendanceServiceImpl) AutoCheckout(ctx context.Context, date time.Time, at timecalc.TimeOfDay) (int, error) {
	note := fmt.Sprintf("[auto check-out at %s]", at)
	closed := 0

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		closed = 0

		open, err := a.AttendanceRepository.ListOpenByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("failed to list open attendances: %w", err)
		}

		for _, att := range open {
			checkIn, _ := att.CheckIn.Get()
			if checkIn.After(at) {
				slog.Debug("Skipping auto check-out for late check-in", "attendance_id", att.ID, "check_in", checkIn.String())
				continue
			}

			att.SetTimes(att.CheckIn, timecalc.Some(at), a.lateThreshold)
			att.AppendNote(note)
			metrics.IncAttendanceRecomputed("auto_checkout", string(att.Status))

			if err := a.AttendanceRepository.Update(txCtx, att); err != nil {
				return fmt.Errorf("failed to auto check-out attendance %s: %w", att.ID, err)
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.AddAutoCheckouts(closed)
	return closed, nil
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time, employees []attendance.Employee) (int, error) {
	note := "[auto absent: no attendance recorded]"
	marked := 0

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		marked = 0

		for _, emp := range employees {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate attendance id: %w", err)
			}

			att := attendance.Attendance{
				ID:           id.String(),
				CompanyID:    emp.CompanyID,
				EmployeeID:   emp.EmployeeID,
				EmployeeName: emp.EmployeeName,
				Date:         date,
			}
			att.SetTimes(timecalc.None(), timecalc.None(), a.lateThreshold)
			att.AppendNote(note)

			created, err := a.AttendanceRepository.CreateIfMissing(txCtx, att)
			if err != nil {
				return fmt.Errorf("failed to mark employee %s absent: %w", emp.EmployeeID, err)
			}
			if created {
				metrics.IncAttendanceRecomputed("auto_absent", string(att.Status))
				marked++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return marked, nil
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:             att.ID,
		EmployeeID:     att.EmployeeID,
		EmployeeName:   att.EmployeeName,
		Date:           att.Date.Format("2006-01-02"),
		CheckIn:        att.CheckIn.String(),
		CheckOut:       att.CheckOut.String(),
		Duration:       att.Duration.String(),
		WorkingMinutes: att.Duration.MinutesPtr(),
		WorkingHours:   att.Duration.Hours(),
		Status:         string(att.Status),
		Notes:          att.Notes,
		CreatedAt:      att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// displayTime echoes an input time the way the form shows it.
func displayTime(s string) string {
	if timecalc.IsAbsentText(s) {
		return timecalc.AbsentText
	}
	return strings.TrimSpace(s)
}

func recordValidationFailure(err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs {
			metrics.IncValidationFailure(v.Field)
		}
		return
	}
	var terr *timecalc.ValidationError
	if errors.As(err, &terr) {
		metrics.IncValidationFailure(terr.Field)
	}
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	lateThreshold timecalc.TimeOfDay,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		lateThreshold:        lateThreshold,
	}
}
