package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/shift_assignment"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceService struct {
	attendance.AttendanceService

	calls  int
	date   time.Time
	at     timecalc.TimeOfDay
	closed int
	err    error

	absentCalls int
	absent      []attendance.Employee
}

func (f *fakeAttendanceService) AutoCheckout(_ context.Context, date time.Time, at timecalc.TimeOfDay) (int, error) {
	f.calls++
	f.date = date
	f.at = at
	return f.closed, f.err
}

func (f *fakeAttendanceService) MarkAbsent(_ context.Context, date time.Time, employees []attendance.Employee) (int, error) {
	f.absentCalls++
	f.date = date
	f.absent = employees
	return len(employees), f.err
}

type fakeRoster struct {
	calls     int
	scheduled []shift_assignment.ScheduledEmployee
	err       error
}

func (f *fakeRoster) ScheduledEmployees(_ context.Context, _ time.Time) ([]shift_assignment.ScheduledEmployee, error) {
	f.calls++
	return f.scheduled, f.err
}

func newJobsAt(svc attendance.AttendanceService, now time.Time) *AttendanceJobs {
	return newRosterJobsAt(svc, nil, now)
}

func newRosterJobsAt(svc attendance.AttendanceService, roster Roster, now time.Time) *AttendanceJobs {
	jobs := NewAttendanceJobs(svc, roster, AttendanceJobsConfig{
		CheckoutAt:   timecalc.TimeOfDay{Hour: 18},
		Interval:     time.Hour,
		Location:     time.UTC,
		SkipWeekends: true,
	})
	jobs.now = func() time.Time { return now }
	return jobs
}

func TestAutoCheckout_BeforeCheckoutTime(t *testing.T) {
	svc := &fakeAttendanceService{}
	jobs := newJobsAt(svc, time.Date(2026, 3, 2, 17, 59, 0, 0, time.UTC))

	require.NoError(t, jobs.AutoCheckout(context.Background()))
	assert.Zero(t, svc.calls)
}

func TestAutoCheckout_AfterCheckoutTime(t *testing.T) {
	svc := &fakeAttendanceService{closed: 4}
	jobs := newJobsAt(svc, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))

	require.NoError(t, jobs.AutoCheckout(context.Background()))
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "2026-03-02", svc.date.Format("2006-01-02"))
	assert.Equal(t, "18:00", svc.at.String())
}

func TestAutoCheckout_UsesLocation(t *testing.T) {
	svc := &fakeAttendanceService{}
	jakarta := time.FixedZone("WIB", 7*60*60)
	jobs := NewAttendanceJobs(svc, nil, AttendanceJobsConfig{CheckoutAt: timecalc.TimeOfDay{Hour: 18}, Interval: time.Hour, Location: jakarta})
	// 11:30 UTC is 18:30 in UTC+7.
	jobs.now = func() time.Time { return time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.AutoCheckout(context.Background()))
	assert.Equal(t, 1, svc.calls)
}

func TestAutoCheckout_WrapsServiceError(t *testing.T) {
	boom := errors.New("boom")
	svc := &fakeAttendanceService{err: boom}
	jobs := newJobsAt(svc, time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC))

	err := jobs.AutoCheckout(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAutoCheckout_SkipsWeekend(t *testing.T) {
	svc := &fakeAttendanceService{}
	roster := &fakeRoster{scheduled: []shift_assignment.ScheduledEmployee{{CompanyID: "c1", EmployeeID: "e1"}}}
	// Saturday.
	jobs := newRosterJobsAt(svc, roster, time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC))

	require.NoError(t, jobs.AutoCheckout(context.Background()))
	require.NoError(t, jobs.MarkAbsent(context.Background()))
	assert.Zero(t, svc.calls)
	assert.Zero(t, svc.absentCalls)
	assert.Zero(t, roster.calls)

	// Sunday.
	jobs.now = func() time.Time { return time.Date(2026, 3, 8, 19, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.AutoCheckout(context.Background()))
	assert.Zero(t, svc.calls)
}

func TestAutoCheckout_WeekendWhenEnabled(t *testing.T) {
	svc := &fakeAttendanceService{}
	jobs := NewAttendanceJobs(svc, nil, AttendanceJobsConfig{CheckoutAt: timecalc.TimeOfDay{Hour: 18}, Interval: time.Hour, Location: time.UTC})
	jobs.now = func() time.Time { return time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.AutoCheckout(context.Background()))
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "2026-03-07", svc.date.Format("2006-01-02"))
}

func TestMarkAbsent_UsesRoster(t *testing.T) {
	svc := &fakeAttendanceService{}
	roster := &fakeRoster{scheduled: []shift_assignment.ScheduledEmployee{
		{CompanyID: "c1", EmployeeID: "e1", EmployeeName: "Ani", ShiftID: "s1"},
		{CompanyID: "c2", EmployeeID: "e2", EmployeeName: "Budi", ShiftID: "s2"},
	}}

	jobs := newRosterJobsAt(svc, roster, time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC))
	require.NoError(t, jobs.MarkAbsent(context.Background()))
	assert.Zero(t, roster.calls, "not before check-out time")

	jobs.now = func() time.Time { return time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC) }
	require.NoError(t, jobs.MarkAbsent(context.Background()))
	assert.Equal(t, 1, svc.absentCalls)
	assert.Equal(t, "2026-03-02", svc.date.Format("2006-01-02"))
	assert.Equal(t, []attendance.Employee{
		{CompanyID: "c1", EmployeeID: "e1", EmployeeName: "Ani"},
		{CompanyID: "c2", EmployeeID: "e2", EmployeeName: "Budi"},
	}, svc.absent)
}

func TestMarkAbsent_EmptyRosterAndErrors(t *testing.T) {
	svc := &fakeAttendanceService{}
	roster := &fakeRoster{}
	jobs := newRosterJobsAt(svc, roster, time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC))

	require.NoError(t, jobs.MarkAbsent(context.Background()))
	assert.Equal(t, 1, roster.calls)
	assert.Zero(t, svc.absentCalls)

	boom := errors.New("boom")
	roster.err = boom
	assert.ErrorIs(t, jobs.MarkAbsent(context.Background()), boom)

	roster.err = nil
	roster.scheduled = []shift_assignment.ScheduledEmployee{{CompanyID: "c1", EmployeeID: "e1"}}
	svc.err = boom
	assert.ErrorIs(t, jobs.MarkAbsent(context.Background()), boom)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())
	boom := errors.New("boom")

	var ran []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "second")
		return boom
	})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	started := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestAttendanceJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler(context.Background())
	jobs := NewAttendanceJobs(&fakeAttendanceService{}, &fakeRoster{}, AttendanceJobsConfig{CheckoutAt: timecalc.TimeOfDay{Hour: 18}, Interval: 30 * time.Minute})
	jobs.RegisterJobs(s)

	require.Len(t, s.jobs, 2)
	assert.Equal(t, "auto_checkout_attendances", s.jobs[0].Name)
	assert.Equal(t, "mark_absent_attendances", s.jobs[1].Name)
	assert.Equal(t, 30*time.Minute, s.jobs[1].Interval)

	s = NewScheduler(context.Background())
	NewAttendanceJobs(&fakeAttendanceService{}, nil, AttendanceJobsConfig{Interval: time.Hour}).RegisterJobs(s)
	require.Len(t, s.jobs, 1)
}
