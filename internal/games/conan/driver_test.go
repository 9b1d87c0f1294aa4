package conan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Apt22/ConanWhitelistBot/internal/game"
)

func TestDriverCommands(t *testing.T) {
	d := NewDriver()

	assert.Equal(t, game.TypeConan, d.Type())
	assert.Equal(t, "whitelistplayer 76561198000000001", d.GrantCommand("76561198000000001"))
	assert.Equal(t, "unwhitelistplayer 76561198000000001", d.RevokeCommand("76561198000000001"))
}
