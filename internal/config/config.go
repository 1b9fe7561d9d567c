package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Dashboard DashboardConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// UpstreamConfig locates the helpdesk REST API.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// DashboardConfig tunes per-viewer sessions and report computation.
type DashboardConfig struct {
	PollIntervalSeconds   int
	SessionIdleTTLMinutes int
	SnapshotCacheTTLSec   int
	MetricsTimezone       string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig holds the secret shared with the helpdesk API to verify its access tokens.
type AuthConfig struct {
	JWTSecret string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tz := getEnv("METRICS_TIMEZONE", "Local")
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid METRICS_TIMEZONE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Upstream: UpstreamConfig{
			BaseURL:        getEnv("UPSTREAM_BASE_URL", "http://localhost:8000"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 15),
		},
		Dashboard: DashboardConfig{
			PollIntervalSeconds:   getEnvAsInt("POLL_INTERVAL_SECONDS", 30),
			SessionIdleTTLMinutes: getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 30),
			SnapshotCacheTTLSec:   getEnvAsInt("SNAPSHOT_CACHE_TTL_SECONDS", 300),
			MetricsTimezone:       tz,
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout bounds every call to the helpdesk API.
func (u UpstreamConfig) Timeout() time.Duration {
	return secondsOr(u.TimeoutSeconds, 15*time.Second)
}

// PollInterval is the snapshot refresh period.
func (d DashboardConfig) PollInterval() time.Duration {
	return secondsOr(d.PollIntervalSeconds, 30*time.Second)
}

// SessionIdleTTL is how long an unused session is kept.
func (d DashboardConfig) SessionIdleTTL() time.Duration {
	if d.SessionIdleTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(d.SessionIdleTTLMinutes) * time.Minute
}

// SnapshotCacheTTL bounds how long a cached snapshot may warm a new session.
func (d DashboardConfig) SnapshotCacheTTL() time.Duration {
	return secondsOr(d.SnapshotCacheTTLSec, 5*time.Minute)
}

// Location resolves the timezone used for weekday buckets.
func (d DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(d.MetricsTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
