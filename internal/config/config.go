package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database: sqlite path by default, postgres DSN for postgres:// URLs
	DatabaseURL string

	// JWT
	JWTSecret         string
	JWTIssuer         string
	JWTAudience       string
	JWTExpiryMinutes  int
	RefreshExpiryDays int

	// Cross-service notification. Empty URL means the in-process notifier.
	TransactionServiceURL string
	NotifyTimeout         time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           getEnv("ENVIRONMENT", "development"),
		DatabaseURL:           getEnv("DATABASE_URL", "dispute_portal.db"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTIssuer:             getEnv("JWT_ISSUER", "dispute-portal"),
		JWTAudience:           getEnv("JWT_AUDIENCE", "dispute-portal-clients"),
		JWTExpiryMinutes:      getEnvInt("JWT_EXPIRY_MINUTES", 60),
		RefreshExpiryDays:     getEnvInt("REFRESH_EXPIRY_DAYS", 7),
		TransactionServiceURL: getEnv("TRANSACTION_SERVICE_URL", ""),
		NotifyTimeout:         time.Duration(getEnvInt("NOTIFY_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}

	return cfg, nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshExpiryDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
