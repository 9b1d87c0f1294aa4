package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string

	// Steam Web API (optional; enriches /linksteam replies)
	SteamAPIKey string

	// Database
	DatabasePath string

	// RCON
	RCONTimeoutSeconds int

	// Health monitor (0 disables)
	HealthIntervalSeconds int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_BOT_TOKEN"),
		SteamAPIKey:  os.Getenv("STEAM_API_KEY"),
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "./data/conanbot.db"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	timeout, err := getEnvInt("RCON_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	cfg.RCONTimeoutSeconds = timeout

	interval, err := getEnvInt("HEALTH_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.HealthIntervalSeconds = interval

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
