package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Email    EmailConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	QueryTimeout      time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type AuthConfig struct {
	// Secrets. All three are required at startup; a missing one is a fatal
	// configuration error, never a runtime-recoverable one.
	SigningSecret        string // signs session and access tokens
	RefreshSigningSecret string // signs refresh tokens
	EncryptionSecret     string // derives the outer AES key

	SessionTokenExpiry time.Duration
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	MaxLoginAttempts int
	BlockDuration    time.Duration

	ResetTokenTTL   time.Duration
	CleanupInterval time.Duration
}

type EmailConfig struct {
	AWSRegion   string
	FromAddress string
	LinkBaseURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	signingSecret := os.Getenv("JWT_SECRET")
	if signingSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	refreshSecret := os.Getenv("JWT_REFRESH_SECRET")
	if refreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	encryptionSecret := os.Getenv("CRYPTO_SECRET")
	if encryptionSecret == "" {
		return nil, fmt.Errorf("CRYPTO_SECRET is required")
	}

	for name, secret := range map[string]string{
		"JWT_SECRET":         signingSecret,
		"JWT_REFRESH_SECRET": refreshSecret,
		"CRYPTO_SECRET":      encryptionSecret,
	} {
		if err := validateSecret(name, secret, env); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "leaguehq"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			QueryTimeout:      getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Auth: AuthConfig{
			SigningSecret:        signingSecret,
			RefreshSigningSecret: refreshSecret,
			EncryptionSecret:     encryptionSecret,
			SessionTokenExpiry:   getEnvAsDuration("SESSION_TOKEN_EXPIRY", 60*time.Minute),
			AccessTokenExpiry:    getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry:   getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			MaxLoginAttempts:     getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			BlockDuration:        getEnvAsDuration("BLOCK_DURATION", 2*time.Hour),
			ResetTokenTTL:        getEnvAsDuration("RESET_TOKEN_TTL", 1*time.Hour),
			CleanupInterval:      getEnvAsDuration("CLEANUP_INTERVAL", 1*time.Hour),
		},
		Email: EmailConfig{
			AWSRegion:   getEnv("AWS_REGION", "eu-west-1"),
			FromAddress: getEnv("EMAIL_FROM", "no-reply@leaguehq.app"),
			LinkBaseURL: getEnv("EMAIL_LINK_BASE_URL", "http://localhost:3000"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// validateSecret enforces minimum strength for server secrets
func validateSecret(name, secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in %s environment (got %d)",
			name, minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}
	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8000",
		"http://127.0.0.1:5173",
	}
}
