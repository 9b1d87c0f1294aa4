package game

// Type represents a supported game server type
type Type string

const (
	TypeConan     Type = "conan"
	TypeMinecraft Type = "minecraft"
)

// Driver defines the interface that all game server drivers must implement.
// A driver knows how a particular game server spells its whitelist console
// commands and what a valid player identity looks like for that game.
type Driver interface {
	// Name returns the human-readable name of the game
	Name() string

	// Type returns the game type identifier
	Type() Type

	// Description returns a brief description of the game
	Description() string

	// GrantCommand returns the console command that whitelists the player
	GrantCommand(identity string) string

	// RevokeCommand returns the console command that removes the player
	// from the whitelist
	RevokeCommand(identity string) string
}
