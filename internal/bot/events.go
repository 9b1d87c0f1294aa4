package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// handleMemberUpdate reacts to role changes on guild members. The engine
// filters everything irrelevant (unchanged role, unconfigured guild,
// unlinked user), so this just derives the before/after role flags and
// hands the transition over.
func (b *Bot) handleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	cfg, err := b.repo.GetGuildConfig(context.Background(), m.GuildID)
	if err != nil {
		return // guild not configured, or storage down; nothing to reconcile
	}

	hasRole := hasRoleID(m.Roles, cfg.RoleID)

	// BeforeUpdate is only populated while the member was in the state
	// cache. Without it, treat the event as a transition into the current
	// state; the whitelist commands are idempotent on the server side.
	hadRole := !hasRole
	if m.BeforeUpdate != nil {
		hadRole = hasRoleID(m.BeforeUpdate.Roles, cfg.RoleID)
	}

	if hadRole == hasRole {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := b.engine.HandleRoleChange(ctx, m.GuildID, m.User.ID, hadRole, hasRole); err != nil {
		slog.Error("Failed to reconcile role change", "guildID", m.GuildID, "userID", m.User.ID, "error", err)
	}
}

func hasRoleID(roles []string, roleID string) bool {
	for _, id := range roles {
		if id == roleID {
			return true
		}
	}
	return false
}
