package rcon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndpointAddr(t *testing.T) {
	assert.Equal(t, "10.0.0.5:25575", Endpoint{Host: "10.0.0.5", Port: 25575}.Addr())
	assert.Equal(t, "[::1]:27015", Endpoint{Host: "::1", Port: 27015}.Addr())
}

func TestNewDispatcherDefaultsTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewDispatcher(0).timeout)
	assert.Equal(t, 2*time.Second, NewDispatcher(2*time.Second).timeout)
}

func TestDispatchCancelledContext(t *testing.T) {
	d := NewDispatcher(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, Endpoint{Host: "10.0.0.5", Port: 25575}, "whitelistplayer 76561198000000001")
	assert.ErrorIs(t, err, ErrUnreachable)
}
