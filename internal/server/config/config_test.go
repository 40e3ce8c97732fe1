package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddress)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "access-secret", cfg.AccessTokenSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshTokenSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "720h")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.RunAddress)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}
