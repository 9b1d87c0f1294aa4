package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Apt22/ConanWhitelistBot/internal/config"
	"github.com/Apt22/ConanWhitelistBot/internal/game"
	"github.com/Apt22/ConanWhitelistBot/internal/games/conan"
	"github.com/Apt22/ConanWhitelistBot/internal/games/minecraft"
	"github.com/Apt22/ConanWhitelistBot/internal/health"
	"github.com/Apt22/ConanWhitelistBot/internal/rcon"
	"github.com/Apt22/ConanWhitelistBot/internal/steam"
	"github.com/Apt22/ConanWhitelistBot/internal/storage"
	"github.com/Apt22/ConanWhitelistBot/internal/whitelist"
)

// Bot represents the Discord bot instance
type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	repo     *storage.Repository
	registry *game.Registry
	engine   *whitelist.Engine
	steam    *steam.Client
	health   *health.Poller
	commands []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// GuildMembers is a privileged intent; it must also be enabled in the
	// developer portal or member update events never arrive
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize the driver registry
	registry := game.NewRegistry()
	registry.Register(conan.NewDriver())
	registry.Register(minecraft.NewDriver())

	dispatcher := rcon.NewDispatcher(time.Duration(cfg.RCONTimeoutSeconds) * time.Second)

	b := &Bot{
		config:   cfg,
		session:  session,
		repo:     repo,
		registry: registry,
	}

	// The engine talks back to Discord (DMs, role lookups) through small
	// adapters over the session
	b.engine = whitelist.NewEngine(
		repo,
		dispatcher,
		&sessionNotifier{session: session},
		&sessionRoles{session: session},
		registry,
	)

	if cfg.SteamAPIKey != "" {
		b.steam = steam.NewClient(cfg.SteamAPIKey)
	}

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Start the RCON health monitor
	if b.config.HealthIntervalSeconds > 0 {
		b.health = health.New(b.repo, b.config.HealthIntervalSeconds, b.config.RCONTimeoutSeconds)
		go b.health.Start(ctx)
	}

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	// Stop the health monitor
	if b.health != nil {
		b.health.Stop()
	}

	// Close storage
	if b.repo != nil {
		b.repo.Close()
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMemberUpdate)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	// Member is nil when a command arrives over DM
	if i.Member == nil {
		respondWithMessage(s, i, "❌ This command can only be used in a server.")
		return
	}

	switch data.Name {
	case "linksteam":
		b.handleLinkSteam(s, i)
	case "unlinksteam":
		b.handleUnlinkSteam(s, i)
	case "setconfig":
		b.handleSetConfig(s, i)
	case "whoami":
		b.handleWhoAmI(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}

// sessionNotifier sends direct messages through the Discord session. The
// engine treats delivery as best-effort, so errors are just returned.
type sessionNotifier struct {
	session *discordgo.Session
}

func (n *sessionNotifier) Notify(_ context.Context, userID, message string) error {
	channel, err := n.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := n.session.ChannelMessageSend(channel.ID, message); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

// sessionRoles answers "does this member hold that role right now" with a
// fresh member fetch, falling back to the REST API when the state cache
// has no entry
type sessionRoles struct {
	session *discordgo.Session
}

func (r *sessionRoles) HasRole(_ context.Context, guildID, userID, roleID string) (bool, error) {
	member, err := r.session.State.Member(guildID, userID)
	if err != nil {
		member, err = r.session.GuildMember(guildID, userID)
		if err != nil {
			return false, fmt.Errorf("failed to fetch member: %w", err)
		}
	}

	for _, id := range member.Roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}
