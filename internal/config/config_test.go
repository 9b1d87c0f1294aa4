package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "./data/conanbot.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5, cfg.RCONTimeoutSeconds)
	assert.Equal(t, 300, cfg.HealthIntervalSeconds)
	assert.Empty(t, cfg.SteamAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DATABASE_PATH", "/tmp/whitelist.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RCON_TIMEOUT_SECONDS", "10")
	t.Setenv("HEALTH_INTERVAL_SECONDS", "0")
	t.Setenv("STEAM_API_KEY", "steamkey")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/whitelist.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.RCONTimeoutSeconds)
	assert.Equal(t, 0, cfg.HealthIntervalSeconds)
	assert.Equal(t, "steamkey", cfg.SteamAPIKey)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadInteger(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("RCON_TIMEOUT_SECONDS", "soon")

	_, err := Load()
	assert.Error(t, err)
}
