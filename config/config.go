package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisURL string

	// Payment gateway configuration
	ChapaBaseURL     string
	ChapaSecretKey   string
	ChapaCallbackURL string
	ChapaReturnURL   string
	GatewayTimeout   time.Duration

	// Platform defaults
	DefaultCurrency string

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailName    string

	// Notification dispatcher configuration
	NotificationWorkers      int
	NotificationMaxRetries   int
	NotificationRetryBackoff time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "travel_booking"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		// Payment gateway
		ChapaBaseURL:     getEnv("CHAPA_BASE_URL", "https://api.chapa.co/v1"),
		ChapaSecretKey:   getEnv("CHAPA_SECRET_KEY", ""),
		ChapaCallbackURL: getEnv("CHAPA_CALLBACK_URL", ""),
		ChapaReturnURL:   getEnv("CHAPA_RETURN_URL", ""),
		GatewayTimeout:   getEnvAsDuration("GATEWAY_TIMEOUT", "10s"),

		// Platform defaults
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "ETB"),

		// SMTP
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@travelbooking.local"),
		EmailName:    getEnv("EMAIL_FROM_NAME", "Travel Booking"),

		// Notifications
		NotificationWorkers:      getEnvAsInt("NOTIFICATION_WORKERS", 4),
		NotificationMaxRetries:   getEnvAsInt("NOTIFICATION_MAX_RETRIES", 3),
		NotificationRetryBackoff: getEnvAsDuration("NOTIFICATION_RETRY_BACKOFF", "1m"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
