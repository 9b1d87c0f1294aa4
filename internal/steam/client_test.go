package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("testkey")
	client.baseURL = server.URL
	client.minInterval = 0
	return client, server
}

func TestGetPersonaName(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "testkey", r.URL.Query().Get("key"))
		assert.Equal(t, "76561198000000001", r.URL.Query().Get("steamids"))
		fmt.Fprint(w, `{"response":{"players":[{"steamid":"76561198000000001","personaname":"Thrall"}]}}`)
	})
	defer server.Close()

	name, err := client.GetPersonaName(context.Background(), "76561198000000001")
	require.NoError(t, err)
	assert.Equal(t, "Thrall", name)
}

func TestGetPersonaNameUnknownID(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"players":[]}}`)
	})
	defer server.Close()

	name, err := client.GetPersonaName(context.Background(), "76561198000000001")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestGetPersonaNameAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	defer server.Close()

	_, err := client.GetPersonaName(context.Background(), "76561198000000001")
	assert.Error(t, err)
}
