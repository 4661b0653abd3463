package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hris_timekeeping"

var (
	once sync.Once

	attendanceRecomputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_recomputed_total",
			Help:      "Count of attendance duration/status recomputations by source and resulting status.",
		},
		[]string{"source", "status"},
	)

	autoCheckouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_auto_checkout_total",
			Help:      "Count of attendance records closed by the auto check-out job.",
		},
	)

	shiftBreakClamped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shift_break_clamped_total",
			Help:      "Count of shift computations where the break exceeded the shift span.",
		},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Count of rejected time inputs by field.",
		},
		[]string{"field"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Count of requests rejected by the rate limiter by route.",
		},
		[]string{"route"},
	)

	cronRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Count of scheduled job executions by job and result.",
		},
		[]string{"job", "result"},
	)

	cronDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cron_job_duration_seconds",
			Help:      "Duration of scheduled job executions.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			attendanceRecomputed,
			autoCheckouts,
			shiftBreakClamped,
			validationFailures,
			rateLimited,
			cronRuns,
			cronDuration,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncAttendanceRecomputed(source, status string) {
	attendanceRecomputed.WithLabelValues(source, status).Inc()
}

func AddAutoCheckouts(n int) {
	autoCheckouts.Add(float64(n))
}

func IncShiftBreakClamped() {
	shiftBreakClamped.Inc()
}

func IncValidationFailure(field string) {
	validationFailures.WithLabelValues(field).Inc()
}

func IncRateLimited(route string) {
	rateLimited.WithLabelValues(route).Inc()
}

// ObserveCronRun records one job execution.
func ObserveCronRun(job string, took time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	cronRuns.WithLabelValues(job, result).Inc()
	cronDuration.WithLabelValues(job).Observe(took.Seconds())
}
