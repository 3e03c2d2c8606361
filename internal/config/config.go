package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "hotel.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultHotelTimezone   = "UTC"
	defaultMetricsEnabled  = "true"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = "10s"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	HotelLocation   *time.Location
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	MetricsEnabled  bool
	LogLevel        string
	LogPretty       bool
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// InternalToken enables the machine-facing /internal routes.
	InternalToken      string
	InternalAllowedIPs []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.MetricsEnabled = parseBoolEnv("METRICS_ENABLED", defaultMetricsEnabled)
	cfg.LogPretty = parseBoolEnv("LOG_PRETTY", strconv.FormatBool(!isProdLike(cfg.AppEnv)))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.InternalToken = strings.TrimSpace(os.Getenv("INTERNAL_TOKEN"))
	cfg.InternalAllowedIPs = splitList(os.Getenv("INTERNAL_ALLOWED_IPS"))

	var err error
	tz := strings.TrimSpace(getEnv("HOTEL_TIMEZONE", defaultHotelTimezone))
	cfg.HotelLocation, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid HOTEL_TIMEZONE value %q: %w", tz, err)
	}

	cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
