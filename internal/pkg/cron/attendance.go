package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
)

// Roster lists the employees whose shift assignment covers a date.
type Roster interface {
	ScheduledEmployees(ctx context.Context, date time.Time) ([]shift_assignment.ScheduledEmployee, error)
}

type AttendanceJobsConfig struct {
	CheckoutAt   timecalc.TimeOfDay
	Interval     time.Duration
	Location     *time.Location
	SkipWeekends bool
}

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	roster            Roster
	checkoutAt        timecalc.TimeOfDay
	interval          time.Duration
	location          *time.Location
	skipWeekends      bool
	now               func() time.Time
}

// NewAttendanceJobs builds the end-of-day jobs. A nil roster disables absent marking.
func NewAttendanceJobs(attendanceService attendance.AttendanceService, roster Roster, cfg AttendanceJobsConfig) *AttendanceJobs {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		roster:            roster,
		checkoutAt:        cfg.CheckoutAt,
		interval:          cfg.Interval,
		location:          location,
		skipWeekends:      cfg.SkipWeekends,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_checkout_attendances", j.interval, j.AutoCheckout)
	if j.roster != nil {
		scheduler.AddJob("mark_absent_attendances", j.interval, j.MarkAbsent)
	}
}

// workday returns today's date once the local clock has passed the check-out
// time, and false on skipped weekends or earlier in the day.
func (j *AttendanceJobs) workday() (time.Time, bool) {
	now := j.now().In(j.location)
	if j.skipWeekends && (now.Weekday() == time.Saturday || now.Weekday() == time.Sunday) {
		return time.Time{}, false
	}

	current := timecalc.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}
	if current.Minutes() < j.checkoutAt.Minutes() {
		return time.Time{}, false
	}

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
}

// AutoCheckout closes today's open records once the local clock has passed the
// configured check-out time. Later runs on the same day find nothing to close.
func (j *AttendanceJobs) AutoCheckout(ctx context.Context) error {
	today, ok := j.workday()
	if !ok {
		return nil
	}

	closed, err := j.attendanceService.AutoCheckout(ctx, today, j.checkoutAt)
	if err != nil {
		return fmt.Errorf("auto check-out for %s: %w", today.Format("2006-01-02"), err)
	}

	if closed > 0 {
		slog.Info("Cron: Auto checked-out open attendances", "date", today.Format("2006-01-02"), "count", closed)
	}
	return nil
}

// MarkAbsent records an absent day for every rostered employee with no
// attendance today. Employees who already have a record are left alone.
func (j *AttendanceJobs) MarkAbsent(ctx context.Context) error {
	today, ok := j.workday()
	if !ok || j.roster == nil {
		return nil
	}

	scheduled, err := j.roster.ScheduledEmployees(ctx, today)
	if err != nil {
		return fmt.Errorf("roster for %s: %w", today.Format("2006-01-02"), err)
	}
	if len(scheduled) == 0 {
		return nil
	}

	employees := make([]attendance.Employee, 0, len(scheduled))
	for _, s := range scheduled {
		employees = append(employees, attendance.Employee{
			CompanyID:    s.CompanyID,
			EmployeeID:   s.EmployeeID,
			EmployeeName: s.EmployeeName,
		})
	}

	marked, err := j.attendanceService.MarkAbsent(ctx, today, employees)
	if err != nil {
		return fmt.Errorf("mark absent for %s: %w", today.Format("2006-01-02"), err)
	}

	if marked > 0 {
		slog.Info("Cron: Marked employees absent", "date", today.Format("2006-01-02"), "count", marked)
	}
	return nil
}
