package shift

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const breakClampedWarning = "break is longer than the shift; working hours clamped to 0h 0m"

type ShiftServiceImpl struct {
	tx database.Transactor
	shift.ShiftRepository
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		countBreakRejection(req.StartTime, req.EndTime, req.BreakMinutes)
		return shift.ShiftResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	start, _ := timecalc.ParseTimeOfDay(req.StartTime)
	end, _ := timecalc.ParseTimeOfDay(req.EndTime)

	id, err := uuid.NewV7()
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to generate shift id: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		ID:           id.String(),
		CompanyID:    claims.CompanyID,
		Name:         req.Name,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: req.BreakMinutes,
		IsFlexible:   req.IsFlexible,
		Description:  req.Description,
		IsActive:     isActive,
	})
	if err != nil {
		if errors.Is(err, shift.ErrShiftNameExists) {
			return shift.ShiftResponse{}, shift.ErrShiftNameExists
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return mapShiftToResponse(created), nil
}

// UpdateShift implements shift.ShiftService.
// The merged start/end/break is checked as a whole, so a partial update cannot
// leave a break longer than the shift.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.ShiftRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.StartTime != nil {
		existing.StartTime, _ = timecalc.ParseTimeOfDay(*req.StartTime)
	}
	if req.EndTime != nil {
		existing.EndTime, _ = timecalc.ParseTimeOfDay(*req.EndTime)
	}
	if req.BreakMinutes != nil {
		existing.BreakMinutes = *req.BreakMinutes
	}
	if req.IsFlexible != nil {
		existing.IsFlexible = *req.IsFlexible
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := shift.ValidateHours(existing.StartTime.String(), existing.EndTime.String(), existing.BreakMinutes); err != nil {
		countBreakRejection(existing.StartTime.String(), existing.EndTime.String(), existing.BreakMinutes)
		return shift.ShiftResponse{}, err
	}

	if err := s.ShiftRepository.Update(ctx, existing); err != nil {
		if errors.Is(err, shift.ErrShiftNameExists) || errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	updated, err := s.ShiftRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get updated shift: %w", err)
	}

	return mapShiftToResponse(updated), nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	found, err := s.ShiftRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return mapShiftToResponse(found), nil
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.ShiftRepository.Delete(ctx, id, claims.CompanyID); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	return nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}

	shifts, total, err := s.ShiftRepository.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return shift.ListShiftResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, mapShiftToResponse(sh))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return shift.ListShiftResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    validator.Showing(filter.Page, filter.Limit, total),
		Shifts:     responses,
	}, nil
}

// PreviewShift implements shift.ShiftService.
func (s *ShiftServiceImpl) PreviewShift(ctx context.Context, req shift.PreviewShiftRequest) (shift.PreviewShiftResponse, error) {
	net, err := timecalc.ComputeShiftDuration(req.StartTime, req.EndTime, req.BreakMinutes)

	var warning *string
	if err != nil {
		if !errors.Is(err, timecalc.ErrBreakExceedsSpan) {
			var verr *timecalc.ValidationError
			if errors.As(err, &verr) {
				metrics.IncValidationFailure(verr.Field)
			}
			return shift.PreviewShiftResponse{}, err
		}
		w := breakClampedWarning
		warning = &w
		metrics.IncShiftBreakClamped()
	}

	// Both times parsed above.
	start, _ := timecalc.ParseTimeOfDay(req.StartTime)
	end, _ := timecalc.ParseTimeOfDay(req.EndTime)

	return shift.PreviewShiftResponse{
		StartTime:      start.String(),
		EndTime:        end.String(),
		BreakMinutes:   req.BreakMinutes,
		SpanMinutes:    timecalc.Span(start, end),
		WorkingHours:   net.String(),
		WorkingMinutes: net.Minutes,
		IsOvernight:    start.After(end),
		Warning:        warning,
	}, nil
}

// SeedDefaults implements shift.ShiftService.
func (s *ShiftServiceImpl) SeedDefaults(ctx context.Context) ([]shift.ShiftResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var created []shift.Shift
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		count, err := s.ShiftRepository.CountByCompany(txCtx, claims.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to count shifts: %w", err)
		}
		if count > 0 {
			return shift.ErrShiftsAlreadyExist
		}

		created = created[:0]
		for _, def := range fixtures.GetDefaultShifts(claims.CompanyID) {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate shift id: %w", err)
			}
			def.ID = id.String()

			sh, err := s.ShiftRepository.Create(txCtx, def)
			if err != nil {
				return fmt.Errorf("failed to create default shift %q: %w", def.Name, err)
			}
			created = append(created, sh)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]shift.ShiftResponse, 0, len(created))
	for _, sh := range created {
		responses = append(responses, mapShiftToResponse(sh))
	}
	return responses, nil
}

// countBreakRejection records a write rejected because the break outlasts the shift.
func countBreakRejection(start, end string, breakMinutes int) {
	if _, err := timecalc.ComputeShiftDuration(start, end, breakMinutes); errors.Is(err, timecalc.ErrBreakExceedsSpan) {
		metrics.IncShiftBreakClamped()
	}
}

func mapShiftToResponse(s shift.Shift) shift.ShiftResponse {
	hours := s.WorkingHours()

	return shift.ShiftResponse{
		ID:             s.ID,
		Name:           s.Name,
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		BreakMinutes:   s.BreakMinutes,
		WorkingHours:   hours.Net.String(),
		WorkingMinutes: hours.Net.Minutes,
		IsOvernight:    s.IsOvernight(),
		IsFlexible:     s.IsFlexible,
		Description:    s.Description,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewShiftService(tx database.Transactor, shiftRepo shift.ShiftRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		tx:              tx,
		ShiftRepository: shiftRepo,
	}
}
