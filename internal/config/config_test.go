package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	for _, key := range []string{"PORT", "MONGO_DB", "DB_DRIVER", "TOKEN_EXPIRY", "APP_ENV", "CORS_ALLOWED_ORIGINS", "LOGIN_RATE_BURST", "PROVIDER_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "language_exchange", cfg.DBName)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.LoginRateBurst)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("TOKEN_EXPIRY", "1h")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOGIN_RATE_BURST", "not-a-number")
	t.Setenv("LOGIN_RATE_PER_SEC", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.TokenExpiry)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.LoginRateBurst)
	assert.Equal(t, 2.5, cfg.LoginRatePerSec)
}
