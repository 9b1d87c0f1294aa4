package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Apt22/ConanWhitelistBot/internal/storage"
	"github.com/Apt22/ConanWhitelistBot/internal/whitelist"
)

// buildGameChoices creates the game selection choices for slash commands
func (b *Bot) buildGameChoices() []*discordgo.ApplicationCommandOptionChoice {
	games := b.registry.List()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(games))
	for i, g := range games {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{
			Name:  g.Name,
			Value: string(g.Type),
		}
	}
	return choices
}

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageServer)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "linksteam",
			Description: "Link your SteamID64 so staff can whitelist you",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "steamid",
					Description: "17-digit SteamID64",
					Required:    true,
				},
			},
		},
		{
			Name:        "unlinksteam",
			Description: "Remove your linked SteamID64",
		},
		{
			Name:        "whoami",
			Description: "Show your currently linked SteamID64",
		},
		{
			Name:                     "setconfig",
			Description:              "Configure RCON & whitelist role for this server",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role that triggers whitelisting",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rcon_host",
					Description: "RCON host",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "rcon_port",
					Description: "RCON port",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "rcon_password",
					Description: "RCON password",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "game",
					Description: "Game server type (default: Conan Exiles)",
					Required:    false,
					Choices:     b.buildGameChoices(),
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleLinkSteam handles the /linksteam command
func (b *Bot) handleLinkSteam(s *discordgo.Session, i *discordgo.InteractionCreate) {
	raw := i.ApplicationCommandData().Options[0].StringValue()

	// Linking may dispatch an RCON command; defer to avoid the 3s timeout
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := b.engine.Link(ctx, i.GuildID, i.Member.User.ID, raw)
	if errors.Is(err, whitelist.ErrInvalidIdentity) {
		b.editResponse(s, i, "❌ That is not a valid 17-digit SteamID64.")
		return
	}
	if err != nil {
		slog.Error("Failed to link SteamID", "userID", i.Member.User.ID, "error", err)
		b.editResponse(s, i, "❌ Something went wrong while saving your SteamID. Please try again.")
		return
	}

	reply := fmt.Sprintf("✅ Stored **%s**. Ask a mod for the whitelist role when ready!", result.SteamID)

	if b.steam != nil {
		if name, err := b.steam.GetPersonaName(ctx, result.SteamID); err == nil && name != "" {
			reply = fmt.Sprintf("✅ Stored **%s** (%s). Ask a mod for the whitelist role when ready!", result.SteamID, name)
		}
	}

	if result.Synced {
		if result.SyncErr != nil {
			reply += "\n⚠️ You hold the whitelist role but the server could not be updated; it will sync on the next role change."
		} else {
			reply += "\nYou already hold the whitelist role, so you have been whitelisted."
		}
	}

	b.editResponse(s, i, reply)
}

// handleUnlinkSteam handles the /unlinksteam command
func (b *Bot) handleUnlinkSteam(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := b.engine.Unlink(ctx, i.GuildID, i.Member.User.ID)
	if errors.Is(err, whitelist.ErrNotLinked) {
		b.editResponse(s, i, "❌ You do not have a SteamID linked.")
		return
	}
	if err != nil {
		slog.Error("Failed to unlink SteamID", "userID", i.Member.User.ID, "error", err)
		b.editResponse(s, i, "❌ Something went wrong while removing your SteamID. Please try again.")
		return
	}

	reply := "✅ Your SteamID has been unlinked."
	if result.Synced && result.SyncErr != nil {
		reply += "\n⚠️ The server could not be updated; you may still be whitelisted until the next role change."
	}

	b.editResponse(s, i, reply)
}

// handleSetConfig handles the /setconfig command
func (b *Bot) handleSetConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options

	cfg := &storage.GuildConfig{
		GuildID: i.GuildID,
		Game:    "conan",
	}
	for _, opt := range options {
		switch opt.Name {
		case "role":
			cfg.RoleID = opt.RoleValue(s, i.GuildID).ID
		case "rcon_host":
			cfg.RCONHost = opt.StringValue()
		case "rcon_port":
			cfg.RCONPort = int(opt.IntValue())
		case "rcon_password":
			cfg.RCONPassword = opt.StringValue()
		case "game":
			cfg.Game = opt.StringValue()
		}
	}

	canManage := i.Member.Permissions&discordgo.PermissionManageServer != 0

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := b.engine.SetConfig(ctx, cfg, canManage)
	if errors.Is(err, whitelist.ErrUnauthorized) {
		respondWithMessage(s, i, "❌ You need the Manage Server permission to do that.")
		return
	}
	if err != nil {
		slog.Error("Failed to save guild config", "guildID", i.GuildID, "error", err)
		respondWithMessage(s, i, "❌ Failed to save configuration. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf(
		"✅ Configuration saved.\nRole: <@&%s> • RCON: `%s:%d`",
		cfg.RoleID, cfg.RCONHost, cfg.RCONPort,
	))
}

// handleWhoAmI handles the /whoami command
func (b *Bot) handleWhoAmI(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	link, err := b.repo.GetLink(ctx, i.Member.User.ID)
	if errors.Is(err, storage.ErrNotFound) {
		respondWithMessage(s, i, "You have no SteamID linked. Use `/linksteam` to link one.")
		return
	}
	if err != nil {
		slog.Error("Failed to load link", "userID", i.Member.User.ID, "error", err)
		respondWithMessage(s, i, "❌ Something went wrong. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Your linked SteamID64 is **%s**.", link.SteamID))
}

// Helper functions

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
