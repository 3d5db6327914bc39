// Package config reads server settings from the environment.
// A .env file in the working directory (or its parent) is loaded first if present;
// variables already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearview-aqi/dashboard/internal/model"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Report defaults for the embedded air quality dashboard
const (
	DefaultReportTitle = "ClearView: Interactive Air Quality Insights"
	DefaultReportURL   = "https://app.powerbi.com/reportEmbed?reportId=203fd22d-2b27-4c5b-9a1a-0ecfd99c8db5&autoAuth=true&ctid=69bd989a-927d-44ee-9edd-609acff82f52"
	DefaultLinkedInURL = "https://www.linkedin.com/in/deshmukhgayatri18"
	DefaultContactMail = "deshmukhgayatri018@gmail.com"
)

// Config holds all server settings
type Config struct {
	// Server
	Port string

	// Storage
	StorageType string
	RedisURL    string
	SQLitePath  string
	DatabaseURL string

	// Auth
	SessionDuration time.Duration
	BcryptCost      int
	LoginRateLimit  float64 // attempts per second per client
	LoginRateBurst  int

	// CookieSecure marks the session cookie Secure; enable behind TLS
	CookieSecure bool
	// TrustProxyHeaders keys the login limiter on X-Forwarded-For/X-Real-IP
	TrustProxyHeaders bool

	// Dashboard content
	ReportTitle  string
	ReportURL    string
	ReportWidth  int
	ReportHeight int
	LinkedInURL  string
	ContactEmail string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	loadEnvFile()

	var errs []error
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		StorageType: strings.ToLower(getEnv("STORAGE_TYPE", StorageSQLite)),
		RedisURL:    getEnv("REDIS_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "clearview.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		SessionDuration: getEnvAsDuration("SESSION_DURATION", 24*time.Hour, &errs),
		BcryptCost:      getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost, &errs),
		LoginRateLimit:  getEnvAsFloat("LOGIN_RATE_LIMIT", 0.2, &errs),
		LoginRateBurst:  getEnvAsInt("LOGIN_RATE_BURST", 5, &errs),

		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false, &errs),
		TrustProxyHeaders: getEnvAsBool("TRUST_PROXY_HEADERS", false, &errs),

		ReportTitle:  getEnv("REPORT_TITLE", DefaultReportTitle),
		ReportURL:    getEnv("REPORT_URL", DefaultReportURL),
		ReportWidth:  getEnvAsInt("REPORT_WIDTH", 1050, &errs),
		ReportHeight: getEnvAsInt("REPORT_HEIGHT", 950, &errs),
		LinkedInURL:  getEnv("LINKEDIN_URL", DefaultLinkedInURL),
		ContactEmail: getEnv("CONTACT_EMAIL", DefaultContactMail),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:  getEnv("LOG_FILE", ""),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env"))
}

// Validate checks that the settings are usable together
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q must be a number between 1 and 65535", c.Port))
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE=redis"))
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when STORAGE_TYPE=sqlite"))
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE %q must be one of memory, redis, sqlite, postgres", c.StorageType))
	}

	if c.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.LoginRateLimit < 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT must not be negative"))
	}
	if c.LoginRateLimit > 0 && c.LoginRateBurst < 1 {
		errs = append(errs, errors.New("LOGIN_RATE_BURST must be at least 1"))
	}

	if u, err := url.Parse(c.ReportURL); err != nil || u.Scheme != "https" {
		errs = append(errs, errors.New("REPORT_URL must be an https URL"))
	}

	if c.ReportWidth <= 0 || c.ReportHeight <= 0 {
		errs = append(errs, errors.New("REPORT_WIDTH and REPORT_HEIGHT must be positive"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of debug, info, warn, error", c.LogLevel))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// PortNumber returns Port as an integer, or 0 if it does not parse
func (c *Config) PortNumber() int {
	port, _ := strconv.Atoi(c.Port)
	return port
}

// Report describes the dashboard shown to signed-in users
func (c *Config) Report() model.Report {
	return model.Report{
		Title:        c.ReportTitle,
		EmbedURL:     c.ReportURL,
		Width:        c.ReportWidth,
		Height:       c.ReportHeight,
		LinkedInURL:  c.LinkedInURL,
		ContactEmail: c.ContactEmail,
	}
}

// getEnv returns the environment variable or the default when unset
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not an integer", key, valueStr))
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64, errs *[]error) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not a number", key, valueStr))
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not a duration", key, valueStr))
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool, errs *[]error) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not a boolean", key, valueStr))
		return defaultValue
	}
	return value
}
