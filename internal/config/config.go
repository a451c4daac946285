package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB    DatabaseConfig
	Redis RedisConfig
	Admin AdminConfig
	Kiosk KioskConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AdminConfig contains the admin dashboard gate settings. Pin is compared
// byte-for-byte against login input; when PinHash (bcrypt) is set it takes
// precedence over Pin. An empty gate disables the admin path only, never the
// deposit path.
type AdminConfig struct {
	Pin      string
	PinHash  string
	TokenTTL time.Duration
}

// KioskConfig contains deposit-flow tuning parameters.
type KioskConfig struct {
	// ScanCooldown is the window within which the same barcode is not
	// accepted twice from one scanning session.
	ScanCooldown time.Duration
	// SessionTTL is how long an idle kiosk session is kept before the
	// manager sweeps it.
	SessionTTL time.Duration
	// Sections is the closed set of canonical section names used by the
	// fuzzy section corrector.
	Sections []string
	// SemesterGoal is the scan-count target shown on the admin dashboard.
	SemesterGoal int
	// StatsCacheTTL is how long the public global stats are cached in Redis.
	StatsCacheTTL time.Duration
}

// DefaultSections is the deployed section enumeration; override with
// KIOSK_SECTIONS (comma-separated).
var DefaultSections = []string{"Prowess", "Fortitude", "Integrity", "Resilience", "Valor", "Harmony"}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Admin gate. A missing pin is not fatal here: the login handler reports
	// a configuration error for the admin path while the kiosk keeps running.
	cfg.Admin = AdminConfig{
		Pin:     getEnv("ADMIN_PIN", ""),
		PinHash: getEnv("ADMIN_PIN_HASH", ""),
	}

	// Kiosk tuning
	cfg.Kiosk = KioskConfig{
		Sections:     splitSections(getEnv("KIOSK_SECTIONS", "")),
		SemesterGoal: getEnvInt("KIOSK_SEMESTER_GOAL", 10000),
	}

	var err error
	if cfg.Admin.TokenTTL, err = parseDurationEnv("ADMIN_TOKEN_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TOKEN_TTL: %w", err)
	}
	if cfg.Kiosk.ScanCooldown, err = parseDurationEnv("KIOSK_SCAN_COOLDOWN", "3s"); err != nil {
		return nil, fmt.Errorf("invalid KIOSK_SCAN_COOLDOWN: %w", err)
	}
	if cfg.Kiosk.SessionTTL, err = parseDurationEnv("KIOSK_SESSION_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid KIOSK_SESSION_TTL: %w", err)
	}
	if cfg.Kiosk.StatsCacheTTL, err = parseDurationEnv("KIOSK_STATS_CACHE_TTL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid KIOSK_STATS_CACHE_TTL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// splitSections parses a comma-separated section list, falling back to the
// deployed default when unset.
func splitSections(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return DefaultSections
	}
	parts := strings.Split(raw, ",")
	sections := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sections = append(sections, s)
		}
	}
	if len(sections) == 0 {
		return DefaultSections
	}
	return sections
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
