package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timekeeping-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping-go/internal/service/attendance"
	shiftService "github.com/cmlabs-hris/hris-timekeeping-go/internal/service/shift"
	assignmentService "github.com/cmlabs-hris/hris-timekeeping-go/internal/service/shift_assignment"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	}

	metrics.Register()

	previewLimiter, closeLimiter := newPreviewLimiter(ctx, cfg)
	defer func() {
		if err := closeLimiter(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	transactor := postgresql.NewTransactor(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)

	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, timecalc.DefaultLateThreshold)
	shiftSvc := shiftService.NewShiftService(transactor, shiftRepo)
	assignmentSvc := assignmentService.NewAssignmentService(transactor, assignmentRepo, shiftRepo, cfg.Attendance.Timezone)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	assignmentHandler := appHTTP.NewAssignmentHandler(assignmentSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        "hris-timekeeping",
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       cfg.LogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		previewLimiter,
		attendanceHandler,
		shiftHandler,
		assignmentHandler,
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceSvc, assignmentSvc, cron.AttendanceJobsConfig{
		CheckoutAt:   cfg.Attendance.AutoCheckoutTime,
		Interval:     cfg.Attendance.AutoCheckoutInterval,
		Location:     cfg.Attendance.Timezone,
		SkipWeekends: cfg.Attendance.SkipWeekends,
	}).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// newPreviewLimiter uses Redis when REDIS_ADDR is set and reachable at startup,
// otherwise an in-process limiter. The returned func releases the Redis client.
func newPreviewLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func() error) {
	limit, window := cfg.RateLimit.PreviewRequests, cfg.RateLimit.PreviewWindow
	noop := func() error { return nil }

	if cfg.Redis.Addr == "" {
		return ratelimit.NewLocalLimiter(limit, window), noop
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, using in-process rate limiter", "addr", cfg.Redis.Addr, "error", err)
		_ = rdb.Close()
		return ratelimit.NewLocalLimiter(limit, window), noop
	}

	return ratelimit.NewRedisLimiter(rdb, limit, window), rdb.Close
}
