package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds the shared secret used to verify access tokens.
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	Version        string
	LogLevel       string
	AllowedOrigins []string
}

// RedisConfig is optional. With an empty Addr the preview rate limit is kept
// per process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	PreviewRequests int
	PreviewWindow   time.Duration
}

type AttendanceConfig struct {
	AutoCheckoutTime     timecalc.TimeOfDay
	AutoCheckoutInterval time.Duration
	Timezone             *time.Location
	// SkipWeekends suppresses auto check-out and absent marking on Saturday and Sunday.
	SkipWeekends bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using environment only", "error", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "hris_timekeeping"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Rate limit configuration
	previewRequests, err := strconv.Atoi(getEnv("PREVIEW_RATE_LIMIT", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid PREVIEW_RATE_LIMIT: %w", err)
	}
	previewWindow, err := time.ParseDuration(getEnv("PREVIEW_RATE_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PREVIEW_RATE_WINDOW: %w", err)
	}

	config.RateLimit = RateLimitConfig{
		PreviewRequests: previewRequests,
		PreviewWindow:   previewWindow,
	}

	// Attendance jobs configuration
	checkoutAt, err := timecalc.ParseTimeOfDay(getEnv("AUTO_CHECKOUT_TIME", "18:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_CHECKOUT_TIME: %w", err)
	}
	checkoutInterval, err := time.ParseDuration(getEnv("AUTO_CHECKOUT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_CHECKOUT_INTERVAL: %w", err)
	}
	location, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	skipWeekends, err := strconv.ParseBool(getEnv("AUTO_CHECKOUT_SKIP_WEEKENDS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_CHECKOUT_SKIP_WEEKENDS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		AutoCheckoutTime:     checkoutAt,
		AutoCheckoutInterval: checkoutInterval,
		Timezone:             location,
		SkipWeekends:         skipWeekends,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.RateLimit.PreviewRequests <= 0 {
		errs = append(errs, errors.New("PREVIEW_RATE_LIMIT must be positive"))
	}
	if c.RateLimit.PreviewWindow <= 0 {
		errs = append(errs, errors.New("PREVIEW_RATE_WINDOW must be positive"))
	}
	if c.Attendance.AutoCheckoutInterval <= 0 {
		errs = append(errs, errors.New("AUTO_CHECKOUT_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}

	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
