package health

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apt22/ConanWhitelistBot/internal/storage"
)

func TestPollerStartStop(t *testing.T) {
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer repo.Close()

	p := New(repo, 1, 1)

	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	p.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestCheckEndpoint(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port

	p := New(nil, 1, 1)

	// Reachable endpoint; must return promptly without touching the repo
	p.checkEndpoint(&storage.GuildConfig{GuildID: "G1", RCONHost: "127.0.0.1", RCONPort: port})

	// Unreachable endpoint; the dial failure is logged, never fatal
	listener.Close()
	p.checkEndpoint(&storage.GuildConfig{GuildID: "G1", RCONHost: "127.0.0.1", RCONPort: port})
}
