package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the app settings the router needs for logging and CORS.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	previewLimiter ratelimit.Limiter,
	attendanceHandler AttendanceHandler,
	shiftHandler ShiftHandler,
	assignmentHandler AssignmentHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)

			r.Route("/attendance", func(r chi.Router) {
				r.With(
					middleware.RequirePermission(user.PermissionAttendancePreview),
					middleware.RateLimit(previewLimiter, "attendance_preview"),
				).Post("/preview", attendanceHandler.Preview)

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", attendanceHandler.List)
				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Post("/", attendanceHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", attendanceHandler.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
						r.Put("/", attendanceHandler.Update)
						r.Delete("/", attendanceHandler.Delete)
					})
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.With(
					middleware.RequirePermission(user.PermissionShiftPreview),
					middleware.RateLimit(previewLimiter, "shift_preview"),
				).Post("/preview", shiftHandler.Preview)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftView))
					r.Get("/", shiftHandler.List)
					r.Get("/my-shift", assignmentHandler.MyShift)
					r.Get("/my-schedule", assignmentHandler.MySchedule)
					r.Get("/{id}", shiftHandler.Get)
				})

				// HR and admins
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftAssign))
					r.Get("/employee-counts", assignmentHandler.EmployeeCounts)
					r.Get("/assignments/employee/{employeeId}", assignmentHandler.ListEmployeeAssignments)
					r.Get("/assignments/employee/{employeeId}/shift", assignmentHandler.EmployeeShift)
					r.Put("/assignments/{assignmentId}", assignmentHandler.Update)
					r.Delete("/assignments/{assignmentId}", assignmentHandler.Deactivate)
					r.Get("/{id}/employees", assignmentHandler.ShiftEmployees)
					r.Post("/{id}/assign", assignmentHandler.Assign)
					r.Post("/{id}/assign/bulk", assignmentHandler.BulkAssign)
					r.Delete("/{id}/assign/{employeeId}", assignmentHandler.RemoveEmployee)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftManage))
					r.Post("/", shiftHandler.Create)
					r.Post("/defaults", shiftHandler.SeedDefaults)
					r.Put("/{id}", shiftHandler.Update)
					r.Delete("/{id}", shiftHandler.Delete)
				})
			})
		})
	})
	return r
}
