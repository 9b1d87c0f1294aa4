package minecraft

import (
	"fmt"

	"github.com/Apt22/ConanWhitelistBot/internal/game"
)

// Driver implements game.Driver for Minecraft servers that whitelist by
// a numeric platform identifier (e.g. Bedrock servers fronted by a
// whitelist plugin keyed on the player's platform ID)
type Driver struct{}

// NewDriver creates a new Minecraft driver
func NewDriver() *Driver {
	return &Driver{}
}

// Name returns the human-readable name of the game
func (d *Driver) Name() string {
	return "Minecraft"
}

// Type returns the game type identifier
func (d *Driver) Type() game.Type {
	return game.TypeMinecraft
}

// Description returns a brief description of the game
func (d *Driver) Description() string {
	return "Whitelist players on a Minecraft server via the whitelist command"
}

// GrantCommand returns the console command that whitelists the player
func (d *Driver) GrantCommand(identity string) string {
	return fmt.Sprintf("whitelist add %s", identity)
}

// RevokeCommand returns the console command that removes the player from the whitelist
func (d *Driver) RevokeCommand(identity string) string {
	return fmt.Sprintf("whitelist remove %s", identity)
}
