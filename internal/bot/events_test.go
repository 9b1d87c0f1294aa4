package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRoleID(t *testing.T) {
	roles := []string{"100", "200", "300"}

	assert.True(t, hasRoleID(roles, "200"))
	assert.False(t, hasRoleID(roles, "400"))
	assert.False(t, hasRoleID(nil, "100"))
}
