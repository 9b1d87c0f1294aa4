package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestLinkLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetLink(ctx, "100")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.UpsertLink(ctx, &Link{DiscordID: "100", SteamID: "76561198000000001"}))

	link, err := repo.GetLink(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "76561198000000001", link.SteamID)

	// Upsert replaces, never duplicates
	require.NoError(t, repo.UpsertLink(ctx, &Link{DiscordID: "100", SteamID: "76561198000000002"}))
	link, err = repo.GetLink(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "76561198000000002", link.SteamID)

	require.NoError(t, repo.DeleteLink(ctx, "100"))
	_, err = repo.GetLink(ctx, "100")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLinkMissingIsNoOp(t *testing.T) {
	repo := newTestRepository(t)

	assert.NoError(t, repo.DeleteLink(context.Background(), "missing"))
}

func TestTwoUsersMayClaimSameSteamID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertLink(ctx, &Link{DiscordID: "100", SteamID: "76561198000000001"}))
	require.NoError(t, repo.UpsertLink(ctx, &Link{DiscordID: "200", SteamID: "76561198000000001"}))

	a, err := repo.GetLink(ctx, "100")
	require.NoError(t, err)
	b, err := repo.GetLink(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, a.SteamID, b.SteamID)
}

func TestGuildConfigLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetGuildConfig(ctx, "G1")
	assert.ErrorIs(t, err, ErrNotFound)

	cfg := &GuildConfig{
		GuildID:      "G1",
		RoleID:       "R1",
		Game:         "conan",
		RCONHost:     "10.0.0.5",
		RCONPort:     25575,
		RCONPassword: "secret",
	}
	require.NoError(t, repo.UpsertGuildConfig(ctx, cfg))

	got, err := repo.GetGuildConfig(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, "R1", got.RoleID)
	assert.Equal(t, "conan", got.Game)
	assert.Equal(t, "10.0.0.5", got.RCONHost)
	assert.Equal(t, 25575, got.RCONPort)
	assert.Equal(t, "secret", got.RCONPassword)

	cfg.RoleID = "R2"
	cfg.RCONPort = 27015
	require.NoError(t, repo.UpsertGuildConfig(ctx, cfg))

	got, err = repo.GetGuildConfig(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, "R2", got.RoleID)
	assert.Equal(t, 27015, got.RCONPort)
}

func TestGetAllGuildConfigs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	configs, err := repo.GetAllGuildConfigs(ctx)
	require.NoError(t, err)
	assert.Empty(t, configs)

	for _, id := range []string{"G1", "G2", "G3"} {
		require.NoError(t, repo.UpsertGuildConfig(ctx, &GuildConfig{
			GuildID: id, RoleID: "R1", Game: "conan", RCONHost: "h", RCONPort: 25575, RCONPassword: "p",
		}))
	}

	configs, err = repo.GetAllGuildConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 3)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	repo, err := NewRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.UpsertLink(context.Background(), &Link{DiscordID: "100", SteamID: "76561198000000001"}))
	require.NoError(t, repo.Close())

	// Reopening runs the migrations again and keeps the data
	repo, err = NewRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	link, err := repo.GetLink(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "76561198000000001", link.SteamID)
}
