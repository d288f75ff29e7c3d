package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Optional API key required on mutating requests; empty disables the check
	APIKey string

	// Dashboard summary cache
	SummaryCacheSeconds int

	// Renewal reminder configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string
	ReminderEmail  string
	ReminderDays   int
	ReminderCron   string

	ServiceName string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                getEnv("PORT", "8080"),
		Mode:                getEnv("GIN_MODE", "debug"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		APIKey:              getEnv("API_KEY", ""),
		SummaryCacheSeconds: getEnvInt("SUMMARY_CACHE_SECONDS", 300),
		BrevoAPIKey:         getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:      getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:       getEnv("BREVO_FROM_NAME", "Subscription Tracker"),
		ReminderEmail:       getEnv("REMINDER_EMAIL", ""),
		ReminderDays:        getEnvInt("REMINDER_DAYS", 7),
		ReminderCron:        getEnv("REMINDER_CRON", "0 9 * * *"),
		ServiceName:         getEnv("SERVICE_NAME", "Subscription Tracker"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
