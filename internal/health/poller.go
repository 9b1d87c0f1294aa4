package health

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Apt22/ConanWhitelistBot/internal/rcon"
	"github.com/Apt22/ConanWhitelistBot/internal/storage"
)

// Poller periodically checks that every configured RCON endpoint still
// accepts TCP connections, so operators notice a dead game server before
// the next role change silently fails. It only observes; it never mutates
// state or sends commands.
type Poller struct {
	repo        *storage.Repository
	interval    time.Duration
	dialTimeout time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new health Poller
func New(repo *storage.Repository, intervalSeconds, timeoutSeconds int) *Poller {
	return &Poller{
		repo:        repo,
		interval:    time.Duration(intervalSeconds) * time.Second,
		dialTimeout: time.Duration(timeoutSeconds) * time.Second,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the polling loop
func (p *Poller) Start(ctx context.Context) {
	slog.Info("Starting RCON health monitor", "interval", p.interval)

	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial poll
	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Health monitor stopped (context cancelled)")
			return
		case <-p.stopChan:
			slog.Info("Health monitor stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Stop signals the poller to stop
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

// poll checks every configured endpoint
func (p *Poller) poll(ctx context.Context) {
	configs, err := p.repo.GetAllGuildConfigs(ctx)
	if err != nil {
		slog.Error("Failed to load guild configs", "error", err)
		return
	}

	if len(configs) == 0 {
		slog.Debug("No configured guilds to check")
		return
	}

	slog.Debug("Checking RCON endpoints", "count", len(configs))

	for _, cfg := range configs {
		select {
		case <-ctx.Done():
			return
		default:
			p.checkEndpoint(cfg)
		}
	}
}

// checkEndpoint dials one guild's RCON endpoint
func (p *Poller) checkEndpoint(cfg *storage.GuildConfig) {
	endpoint := rcon.Endpoint{Host: cfg.RCONHost, Port: cfg.RCONPort}

	conn, err := net.DialTimeout("tcp", endpoint.Addr(), p.dialTimeout)
	if err != nil {
		slog.Warn("RCON endpoint unreachable", "guildID", cfg.GuildID, "addr", endpoint.Addr(), "error", err)
		return
	}
	conn.Close()

	slog.Debug("RCON endpoint reachable", "guildID", cfg.GuildID, "addr", endpoint.Addr())
}
