package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PortalBaseURL points at the remote portal API when the engine runs
	// against an external backend instead of the in-process store.
	PortalBaseURL string

	// MessagingHost is the host of the external messaging channel used for
	// reminder deep links.
	MessagingHost string

	// BookingHorizonDays bounds how far ahead the availability resolver
	// searches for an eligible date.
	BookingHorizonDays int

	// CORSAllowedOrigins lists the browser origins allowed to call the
	// API. Empty leaves CORS disabled.
	CORSAllowedOrigins []string

	HTTPTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		PortalBaseURL:      getEnv("PORTAL_BASE_URL", ""),
		MessagingHost:      getEnv("MESSAGING_HOST", "wa.me"),
		BookingHorizonDays: getEnvAsInt("BOOKING_HORIZON_DAYS", 14),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		HTTPTimeout:        getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
	}
}

// IsDevelopment returns true when running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
