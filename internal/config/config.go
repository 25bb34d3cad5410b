// Package config loads and validates configuration from environment
// variables. A .env file in the working directory is read first; variables
// already set in the environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/visaflow/internal/visa"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (Expo web dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// AlertPollInterval is how often the dispatcher looks for due alerts.
	// Defaults to one minute.
	AlertPollInterval time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or
// naming the first variable that fails to parse.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081")),
	}

	var err error
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer")
	}
	if cfg.AlertPollInterval, err = time.ParseDuration(getEnv("ALERT_POLL_INTERVAL", "1m")); err != nil || cfg.AlertPollInterval <= 0 {
		return Config{}, fmt.Errorf("ALERT_POLL_INTERVAL must be a positive duration such as 30s or 1m")
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// ClientConfig holds the settings of the visaflow command-line client.
type ClientConfig struct {
	// APIURL is the backend base URL, without the /api prefix.
	// Defaults to "http://localhost:8080".
	APIURL string

	// SessionFile is where the session identifier is persisted.
	// Defaults to <user config dir>/visaflow/session.json.
	SessionFile string

	// AlertHour is the local hour expiry alerts fire at. Defaults to 9.
	AlertHour int

	// ExpiryDayAlert adds an alert on the exit date itself.
	ExpiryDayAlert bool

	// ActiveRule picks the trip shown on the dashboard: "first" or "soonest".
	// Unrecognised values fall back to "first".
	ActiveRule visa.ActiveRule

	// Location is the time zone dates are interpreted in. Defaults to the
	// system zone; set VISAFLOW_TZ to an IANA name to override.
	Location *time.Location

	// LogLevel controls the minimum log level. Defaults to "warn".
	LogLevel string
}

// LoadClient reads the client configuration from environment variables.
func LoadClient() (ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		APIURL:   strings.TrimSuffix(getEnv("VISAFLOW_API_URL", "http://localhost:8080"), "/"),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
		Location: time.Local,
	}

	cfg.SessionFile = os.Getenv("VISAFLOW_SESSION_FILE")
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ClientConfig{}, fmt.Errorf("VISAFLOW_SESSION_FILE not set and no user config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "visaflow", "session.json")
	}

	hour, err := strconv.Atoi(getEnv("VISAFLOW_ALERT_HOUR", strconv.Itoa(visa.DefaultAlertHour)))
	if err != nil || hour < 0 || hour > 23 {
		return ClientConfig{}, fmt.Errorf("VISAFLOW_ALERT_HOUR must be an hour between 0 and 23")
	}
	cfg.AlertHour = hour

	if cfg.ExpiryDayAlert, err = strconv.ParseBool(getEnv("VISAFLOW_EXPIRY_DAY_ALERT", "false")); err != nil {
		return ClientConfig{}, fmt.Errorf("VISAFLOW_EXPIRY_DAY_ALERT must be true or false")
	}

	cfg.ActiveRule = visa.ParseActiveRule(getEnv("VISAFLOW_ACTIVE_RULE", string(visa.FirstMatch)))

	if tz := os.Getenv("VISAFLOW_TZ"); tz != "" {
		if cfg.Location, err = time.LoadLocation(tz); err != nil {
			return ClientConfig{}, fmt.Errorf("VISAFLOW_TZ: %w", err)
		}
	}

	return cfg, nil
}

// loadDotEnv reads .env from the working directory if present.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
