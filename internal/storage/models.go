package storage

import "time"

// Link maps a Discord user to their claimed SteamID64
type Link struct {
	DiscordID string
	SteamID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuildConfig stores per-server whitelist sync policy
type GuildConfig struct {
	GuildID      string
	RoleID       string // role whose presence means "should be whitelisted"
	Game         string // driver key, e.g. "conan" or "minecraft"
	RCONHost     string
	RCONPort     int
	RCONPassword string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
