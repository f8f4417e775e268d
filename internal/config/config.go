// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// defaultMaxUploadBytes bounds a roster upload when MAX_UPLOAD_BYTES is unset.
const defaultMaxUploadBytes = 5 << 20

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// ProfilePath is the merge profile YAML file. Empty means the profile
	// embedded in the binary.
	ProfilePath string

	// ScheduleLinkURL is the schedule link used when a merge request does
	// not supply one. Optional.
	ScheduleLinkURL string

	// MaxUploadBytes caps the size of a roster upload. Defaults to 5 MiB.
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable whose value is malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ProfilePath:     os.Getenv("MERGE_PROFILE"),
		ScheduleLinkURL: os.Getenv("SCHEDULE_LINK_URL"),
		MaxUploadBytes:  defaultMaxUploadBytes,
	}

	var invalid []string

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			invalid = append(invalid, "MAX_UPLOAD_BYTES")
		} else {
			cfg.MaxUploadBytes = n
		}
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		invalid = append(invalid, "PORT")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
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
