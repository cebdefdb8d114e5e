// internal/config/config.go
//
// Process configuration, read once at startup from the environment and
// treated as immutable. Core components never read env vars themselves;
// they receive validated values from here as explicit parameters.

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	// Server
	Port          string
	ClientOrigin  string
	SecureCookies bool // Secure flag on the player cookie; on behind TLS

	// Redis (day-scoped game state). Empty addr falls back to the
	// in-memory store, for development and tests.
	RedisAddr string
	RedisDB   int

	// SQLite (durable preferences and score ledger)
	SQLitePath string

	// Word lists; empty paths use the embedded defaults.
	AnswersFile string
	AllowedFile string

	// Rate limiting, requests per minute per player.
	RateLimitPerMin int
	RateLimitBurst  int

	// Logging
	LogLevel string

	// RequestTimeout bounds handler time.
	RequestTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "5175"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SecureCookies:   getEnvBool("COOKIE_SECURE", false),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisDB:         getEnvInt("REDIS_DB", 2),
		SQLitePath:      getEnv("SQLITE_PATH", "./data/wordlebot.db"),
		AnswersFile:     getEnv("WORDS_ANSWERS_FILE", ""),
		AllowedFile:     getEnv("WORDS_ALLOWED_FILE", ""),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 60),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
