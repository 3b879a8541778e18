package config_test

import (
	"testing"
	"time"

	"github.com/remotebingo/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "access-secret-for-tests-0123")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-tests-0123")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "local", cfg.Profile)
	assert.False(t, cfg.Debug)
	assert.NotEmpty(t, cfg.DSN)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshExpiry)
	assert.Equal(t, "remotebingo", cfg.Auth.Issuer)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("JWT_REFRESH_EXPIRY", "72h")
	t.Setenv("JWT_ISSUER", "staging")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessExpiry)
	assert.Equal(t, 72*time.Hour, cfg.Auth.RefreshExpiry)
	assert.Equal(t, "staging", cfg.Auth.Issuer)
	assert.Equal(t, ":9000", cfg.Addr())
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-tests-0123")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "70000")

	_, err := config.Load()
	assert.Error(t, err)
}
