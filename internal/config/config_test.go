package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "data/gamestore.db", cfg.Database.Path)
	assert.Equal(t, "gamestore_session", cfg.Auth.CookieName)
	assert.Equal(t, 1440, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "covers", cfg.Storage.KeyPrefix)
	assert.False(t, cfg.Production())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GAMESTORE_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("GAMESTORE_SERVER_ENVIRONMENT", "production")
	t.Setenv("GAMESTORE_AUTH_JWTSECRET", "supersecret")
	t.Setenv("GAMESTORE_STORAGE_BUCKET", "gamestore-media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "supersecret", cfg.Auth.JWTSecret)
	assert.Equal(t, "gamestore-media", cfg.Storage.Bucket)
	assert.True(t, cfg.Production())
}

func TestProductionIsCaseInsensitive(t *testing.T) {
	var cfg Config
	cfg.Server.Environment = "Production"
	assert.True(t, cfg.Production())

	cfg.Server.Environment = "staging"
	assert.False(t, cfg.Production())
}
