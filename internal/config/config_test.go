package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-signing-secret-long-enough")
	t.Setenv("JWT_REFRESH_SECRET", "a-refresh-secret-long-enough")
	t.Setenv("CRYPTO_SECRET", "an-encryption-secret-long-enough")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 2*time.Hour, cfg.Auth.BlockDuration)
	assert.Equal(t, 1*time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, 60*time.Minute, cfg.Auth.SessionTokenExpiry)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenExpiry)
}

func TestLoad_MissingSecretsFatal(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"signing secret", "JWT_SECRET"},
		{"refresh secret", "JWT_REFRESH_SECRET"},
		{"encryption secret", "CRYPTO_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredSecrets(t)
			t.Setenv(tt.missing, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoad_WeakSecretRejected(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("BLOCK_DURATION", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Auth.BlockDuration)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "pw", Name: "auth", SSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=auth sslmode=require", cfg.DSN())
}
