package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers must distinguish it from storage failures: absence is a normal
// outcome for the sync engine, a failed query is not.
var ErrNotFound = errors.New("storage: record not found")

// Repository handles all database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new repository with SQLite
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS links (
			discord_id VARCHAR(20) PRIMARY KEY,
			steam_id VARCHAR(17) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guild_configs (
			guild_id VARCHAR(20) PRIMARY KEY,
			whitelist_role_id VARCHAR(20) NOT NULL,
			game VARCHAR(20) NOT NULL DEFAULT 'conan',
			rcon_host VARCHAR(255) NOT NULL,
			rcon_port INTEGER NOT NULL,
			rcon_password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Link operations

// UpsertLink creates or replaces a user's SteamID link
func (r *Repository) UpsertLink(ctx context.Context, link *Link) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO links (discord_id, steam_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(discord_id) DO UPDATE SET steam_id = excluded.steam_id, updated_at = excluded.updated_at`,
		link.DiscordID, link.SteamID, time.Now(),
	)
	return err
}

// GetLink finds a link by Discord user ID
func (r *Repository) GetLink(ctx context.Context, discordID string) (*Link, error) {
	l := &Link{}
	err := r.db.QueryRowContext(ctx,
		`SELECT discord_id, steam_id, created_at, updated_at FROM links WHERE discord_id = ?`,
		discordID,
	).Scan(&l.DiscordID, &l.SteamID, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLink removes a user's SteamID link
func (r *Repository) DeleteLink(ctx context.Context, discordID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM links WHERE discord_id = ?`,
		discordID,
	)
	return err
}

// Guild config operations

// UpsertGuildConfig creates or replaces a guild's whitelist configuration
func (r *Repository) UpsertGuildConfig(ctx context.Context, cfg *GuildConfig) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guild_configs (guild_id, whitelist_role_id, game, rcon_host, rcon_port, rcon_password, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET
			whitelist_role_id = excluded.whitelist_role_id,
			game = excluded.game,
			rcon_host = excluded.rcon_host,
			rcon_port = excluded.rcon_port,
			rcon_password = excluded.rcon_password,
			updated_at = excluded.updated_at`,
		cfg.GuildID, cfg.RoleID, cfg.Game, cfg.RCONHost, cfg.RCONPort, cfg.RCONPassword, time.Now(),
	)
	return err
}

// GetGuildConfig retrieves a guild's whitelist configuration
func (r *Repository) GetGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error) {
	cfg := &GuildConfig{}
	err := r.db.QueryRowContext(ctx,
		`SELECT guild_id, whitelist_role_id, game, rcon_host, rcon_port, rcon_password, created_at, updated_at
		 FROM guild_configs WHERE guild_id = ?`,
		guildID,
	).Scan(&cfg.GuildID, &cfg.RoleID, &cfg.Game, &cfg.RCONHost, &cfg.RCONPort, &cfg.RCONPassword, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetAllGuildConfigs returns every configured guild
func (r *Repository) GetAllGuildConfigs(ctx context.Context) ([]*GuildConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT guild_id, whitelist_role_id, game, rcon_host, rcon_port, rcon_password, created_at, updated_at
		 FROM guild_configs`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*GuildConfig
	for rows.Next() {
		cfg := &GuildConfig{}
		if err := rows.Scan(&cfg.GuildID, &cfg.RoleID, &cfg.Game, &cfg.RCONHost, &cfg.RCONPort, &cfg.RCONPassword, &cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}
