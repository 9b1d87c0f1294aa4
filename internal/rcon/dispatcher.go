package rcon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	gorcon "github.com/gorcon/rcon"
)

var (
	// ErrUnreachable means the server could not be reached at all
	ErrUnreachable = errors.New("rcon: server unreachable")
	// ErrRejected means the server was reached but refused the
	// authentication or the command
	ErrRejected = errors.New("rcon: command rejected")
)

// Endpoint identifies one RCON server
type Endpoint struct {
	Host     string
	Port     int
	Password string
}

// Addr returns the host:port dial address
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Dispatcher sends single commands to RCON servers. Every call opens a
// fresh connection, sends exactly one command and closes the connection
// before returning. There is no pooling and no retry.
type Dispatcher struct {
	timeout time.Duration
}

// NewDispatcher creates a dispatcher with the given per-call timeout
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{timeout: timeout}
}

// Dispatch sends one command to the endpoint and returns the server's
// response text
func (d *Dispatcher) Dispatch(ctx context.Context, endpoint Endpoint, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	conn, err := gorcon.Dial(
		endpoint.Addr(),
		endpoint.Password,
		gorcon.SetDialTimeout(d.timeout),
		gorcon.SetDeadline(d.timeout),
	)
	if err != nil {
		if errors.Is(err, gorcon.ErrAuthFailed) {
			return "", fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer conn.Close()

	response, err := conn.Execute(command)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}

	return strings.TrimSpace(response), nil
}
