// Package config loads and validates application configuration.
//
// Every setting comes from an environment variable. When CONFIG_FILE names a
// YAML file, its keys (the variable names in lower case) supply values for
// variables that are unset; the environment always wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // listing zone must resolve on hosts without zoneinfo

	"go.yaml.in/yaml/v4"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level: debug, info, warn, or error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins []string

	// JWTSecret verifies HS256 bearer tokens. Required.
	JWTSecret string

	// ListingLocation is the zone departure dates and times are read in.
	ListingLocation *time.Location

	// ExpiryGrace is how long after departure a listing stays actionable.
	ExpiryGrace time.Duration

	// WhatsAppCountryCode prefixes local phone numbers in contact links.
	WhatsAppCountryCode string

	// RedisAddr enables rate limiting of contact and rating requests.
	// Empty disables it.
	RedisAddr string

	// ContactRateLimit is the number of contact or rating requests a caller
	// may make per minute.
	ContactRateLimit int64

	// KafkaBrokers enables domain event publishing. Empty disables it.
	KafkaBrokers []string

	// KafkaTopic receives the domain events.
	KafkaTopic string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
}

// Load reads configuration and returns a Config. It reports every missing
// required variable and every malformed value in one error.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:                src.get("PORT", "8080"),
		DatabaseURL:         src.get("DATABASE_URL", ""),
		LogLevel:            src.get("LOG_LEVEL", "info"),
		CORSOrigins:         splitCSV(src.get("CORS_ORIGINS", "http://localhost:5173")),
		JWTSecret:           src.get("JWT_SECRET", ""),
		WhatsAppCountryCode: src.get("WHATSAPP_COUNTRY_CODE", "55"),
		RedisAddr:           src.get("REDIS_ADDR", ""),
		KafkaBrokers:        splitCSV(src.get("KAFKA_BROKERS", "")),
		KafkaTopic:          src.get("KAFKA_TOPIC", "caronas.events"),
	}

	var missing, invalid []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	loc, err := time.LoadLocation(src.get("LISTING_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		invalid = append(invalid, "LISTING_TIMEZONE")
	}
	cfg.ListingLocation = loc

	if cfg.ExpiryGrace, err = time.ParseDuration(src.get("EXPIRY_GRACE", "12h")); err != nil || cfg.ExpiryGrace <= 0 {
		invalid = append(invalid, "EXPIRY_GRACE")
	}
	if cfg.ContactRateLimit, err = strconv.ParseInt(src.get("CONTACT_RATE_LIMIT", "10"), 10, 64); err != nil || cfg.ContactRateLimit <= 0 {
		invalid = append(invalid, "CONTACT_RATE_LIMIT")
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(src.get("MAX_BODY_BYTES", "65536"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(src.get("MIGRATE_ON_START", "false")); err != nil {
		invalid = append(invalid, "MIGRATE_ON_START")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid values for: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// source resolves a key from the environment, then the optional file.
type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	if path == "" {
		return source{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var file map[string]string
	if err := yaml.Unmarshal(data, &file); err != nil {
		return source{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return source{file: file}, nil
}

// get returns the value of the environment variable named by key, then the
// file's lower-cased key, or fallback if neither is set or both are empty.
func (s source) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.file[strings.ToLower(key)]; v != "" {
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
