package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Logging
	LogFile string

	// Observability (optional)
	SentryDSN string

	// HTTP
	CORSAllowedOrigins []string

	// Reminders
	RemindersEnabled bool
	RemindersCadence time.Duration
	ReminderEmailTo  string

	// Email (RESEND_API_KEY optional, dev logs instead of sending)
	EmailFrom    string
	ResendAPIKey string

	// LLM review assistant
	OllamaURL     string
	OllamaModel   string
	ReviewMaxDays int
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "goal-tracker"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/goaltracker.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Logging
		LogFile: envString("LOG_FILE", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// HTTP
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		// Reminders
		RemindersEnabled: envBool("REMINDERS_ENABLED", true),
		RemindersCadence: envDuration("REMINDERS_CADENCE", 60*time.Minute),
		ReminderEmailTo:  envString("REMINDER_EMAIL_TO", ""),

		// Email
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// LLM
		OllamaURL:     envString("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   envString("OLLAMA_MODEL", "llama3.2:1b"),
		ReviewMaxDays: envInt("REVIEW_MAX_DAYS", 60),
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

// envList reads a comma-separated value, trimming whitespace around items.
func envList(key, def string) []string {
	raw := envString(key, def)

	var values []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			values = append(values, item)
		}
	}
	return values
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
