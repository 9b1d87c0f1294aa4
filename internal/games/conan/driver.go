package conan

import (
	"fmt"

	"github.com/Apt22/ConanWhitelistBot/internal/game"
)

// Driver implements game.Driver for Conan Exiles dedicated servers
type Driver struct{}

// NewDriver creates a new Conan Exiles driver
func NewDriver() *Driver {
	return &Driver{}
}

// Name returns the human-readable name of the game
func (d *Driver) Name() string {
	return "Conan Exiles"
}

// Type returns the game type identifier
func (d *Driver) Type() game.Type {
	return game.TypeConan
}

// Description returns a brief description of the game
func (d *Driver) Description() string {
	return "Whitelist players on a Conan Exiles dedicated server by SteamID64"
}

// GrantCommand returns the console command that whitelists the player
func (d *Driver) GrantCommand(identity string) string {
	return fmt.Sprintf("whitelistplayer %s", identity)
}

// RevokeCommand returns the console command that removes the player from the whitelist
func (d *Driver) RevokeCommand(identity string) string {
	return fmt.Sprintf("unwhitelistplayer %s", identity)
}
