package whitelist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Apt22/ConanWhitelistBot/internal/game"
	"github.com/Apt22/ConanWhitelistBot/internal/rcon"
	"github.com/Apt22/ConanWhitelistBot/internal/storage"
)

var (
	// ErrInvalidIdentity means the submitted value is not a 17-digit SteamID64
	ErrInvalidIdentity = errors.New("whitelist: not a valid 17-digit SteamID64")
	// ErrNotLinked means the user has no SteamID to unlink
	ErrNotLinked = errors.New("whitelist: no SteamID linked")
	// ErrUnauthorized means the actor lacks the Manage Server permission
	ErrUnauthorized = errors.New("whitelist: manage server permission required")
)

var steamIDPattern = regexp.MustCompile(`^\d{17}$`)

// Verb is the direction of a whitelist change
type Verb string

const (
	VerbGrant  Verb = "grant"
	VerbRevoke Verb = "revoke"
)

// Store is the persistence the engine needs: single-key point reads and
// writes over links and guild configs. *storage.Repository satisfies it.
type Store interface {
	GetLink(ctx context.Context, discordID string) (*storage.Link, error)
	UpsertLink(ctx context.Context, link *storage.Link) error
	DeleteLink(ctx context.Context, discordID string) error
	GetGuildConfig(ctx context.Context, guildID string) (*storage.GuildConfig, error)
	UpsertGuildConfig(ctx context.Context, cfg *storage.GuildConfig) error
}

// Dispatcher sends a single console command to an RCON endpoint
type Dispatcher interface {
	Dispatch(ctx context.Context, endpoint rcon.Endpoint, command string) (string, error)
}

// Notifier delivers a best-effort direct message to a user. Failures are
// logged and otherwise ignored.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// RoleChecker reports whether a guild member currently holds a role
type RoleChecker interface {
	HasRole(ctx context.Context, guildID, userID, roleID string) (bool, error)
}

// Engine decides, for every role transition and link/unlink action, whether
// and what RCON command to issue. It holds no state of its own beyond the
// per-user locks: every decision re-reads the stores so duplicate event
// deliveries resolve to no-ops.
type Engine struct {
	store      Store
	dispatcher Dispatcher
	notifier   Notifier
	roles      RoleChecker
	games      *game.Registry

	locks keyedLocks
}

// NewEngine creates a reconciliation engine
func NewEngine(store Store, dispatcher Dispatcher, notifier Notifier, roles RoleChecker, games *game.Registry) *Engine {
	return &Engine{
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
		roles:      roles,
		games:      games,
	}
}

// LinkResult reports the outcome of a Link or Unlink call. The store
// mutation always succeeded when err is nil; SyncErr carries a failed
// follow-up whitelist command, which is partial success, not failure.
type LinkResult struct {
	SteamID string
	Synced  bool
	SyncErr error
}

// HandleRoleChange reconciles one observed role transition. Transitions
// where nothing changed, unconfigured guilds and unlinked users are all
// no-ops, not errors.
func (e *Engine) HandleRoleChange(ctx context.Context, guildID, userID string, hadRole, hasRole bool) error {
	if hadRole == hasRole {
		return nil
	}

	unlock := e.locks.lock(guildID, userID)
	defer unlock()

	cfg, err := e.store.GetGuildConfig(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil // guild not configured
	}
	if err != nil {
		return fmt.Errorf("failed to load guild config: %w", err)
	}

	link, err := e.store.GetLink(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil // user not linked
	}
	if err != nil {
		return fmt.Errorf("failed to load link: %w", err)
	}

	verb := VerbRevoke
	if hasRole {
		verb = VerbGrant
	}

	return e.sync(ctx, cfg, userID, link.SteamID, verb)
}

// Link stores the caller's SteamID64 and, if the caller already holds the
// guild's whitelist role, immediately grants them on the server
func (e *Engine) Link(ctx context.Context, guildID, userID, rawSteamID string) (*LinkResult, error) {
	steamID := strings.TrimSpace(rawSteamID)
	if !steamIDPattern.MatchString(steamID) {
		return nil, ErrInvalidIdentity
	}

	unlock := e.locks.lock(guildID, userID)
	defer unlock()

	if err := e.store.UpsertLink(ctx, &storage.Link{DiscordID: userID, SteamID: steamID}); err != nil {
		return nil, fmt.Errorf("failed to store link: %w", err)
	}

	result := &LinkResult{SteamID: steamID}
	e.catchUp(ctx, guildID, userID, steamID, VerbGrant, result)
	return result, nil
}

// Unlink removes the caller's SteamID64 and, if the caller still holds the
// whitelist role, revokes them on the server using the identity captured
// before deletion
func (e *Engine) Unlink(ctx context.Context, guildID, userID string) (*LinkResult, error) {
	unlock := e.locks.lock(guildID, userID)
	defer unlock()

	link, err := e.store.GetLink(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotLinked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load link: %w", err)
	}

	steamID := link.SteamID
	if err := e.store.DeleteLink(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete link: %w", err)
	}

	result := &LinkResult{SteamID: steamID}
	e.catchUp(ctx, guildID, userID, steamID, VerbRevoke, result)
	return result, nil
}

// SetConfig stores a guild's whitelist policy. Authorization is decided by
// the caller (the gateway knows the actor's permissions); this only enforces
// the decision. Existing members are not reconciled retroactively; the new
// policy governs future transitions.
func (e *Engine) SetConfig(ctx context.Context, cfg *storage.GuildConfig, actorCanManage bool) error {
	if !actorCanManage {
		return ErrUnauthorized
	}
	if _, err := e.games.Get(game.Type(cfg.Game)); err != nil {
		return err
	}
	if cfg.RCONPort < 1 || cfg.RCONPort > 65535 {
		return fmt.Errorf("invalid RCON port %d", cfg.RCONPort)
	}

	if err := e.store.UpsertGuildConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to store guild config: %w", err)
	}
	return nil
}

// catchUp runs the best-effort grant/revoke that follows a link or unlink
// when the user currently holds the whitelist role. It never fails the
// surrounding store mutation; a dispatch error lands in result.SyncErr.
func (e *Engine) catchUp(ctx context.Context, guildID, userID, steamID string, verb Verb, result *LinkResult) {
	cfg, err := e.store.GetGuildConfig(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		slog.Warn("Skipping whitelist catch-up", "guildID", guildID, "error", err)
		return
	}

	has, err := e.roles.HasRole(ctx, guildID, userID, cfg.RoleID)
	if err != nil {
		slog.Warn("Failed to check role for catch-up", "guildID", guildID, "userID", userID, "error", err)
		return
	}
	if !has {
		return
	}

	result.Synced = true
	result.SyncErr = e.sync(ctx, cfg, userID, steamID, verb)
}

// sync issues exactly one RCON command for the transition and then attempts
// the direct-message notification. Notification failures never affect the
// command's outcome.
func (e *Engine) sync(ctx context.Context, cfg *storage.GuildConfig, userID, steamID string, verb Verb) error {
	driver, err := e.games.Get(game.Type(cfg.Game))
	if err != nil {
		return fmt.Errorf("guild %s has unknown game type: %w", cfg.GuildID, err)
	}

	command := driver.GrantCommand(steamID)
	if verb == VerbRevoke {
		command = driver.RevokeCommand(steamID)
	}

	endpoint := rcon.Endpoint{Host: cfg.RCONHost, Port: cfg.RCONPort, Password: cfg.RCONPassword}
	response, err := e.dispatcher.Dispatch(ctx, endpoint, command)
	if err != nil {
		slog.Error("RCON command failed", "guildID", cfg.GuildID, "command", command, "error", err)
	} else {
		slog.Info("RCON command dispatched", "guildID", cfg.GuildID, "command", command, "response", response)
	}

	e.notify(ctx, userID, driver.Name(), verb)
	return err
}

// notify sends the best-effort direct message. Users with DMs disabled are
// common; the failure is logged and swallowed.
func (e *Engine) notify(ctx context.Context, userID, gameName string, verb Verb) {
	message := fmt.Sprintf("You have been added to the %s whitelist.", gameName)
	if verb == VerbRevoke {
		message = fmt.Sprintf("You have been removed from the %s whitelist.", gameName)
	}

	if err := e.notifier.Notify(ctx, userID, message); err != nil {
		slog.Debug("Failed to notify user", "userID", userID, "error", err)
	}
}
