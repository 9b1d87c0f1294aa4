package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const apiBaseURL = "https://api.steampowered.com"

// Client is a Steam Web API client with rate limiting
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Simple rate limiter
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewClient creates a new Steam Web API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: apiBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// Steam allows 100k calls/day; keep a small gap between requests
		minInterval: 100 * time.Millisecond,
	}
}

// playerSummary is one entry of the GetPlayerSummaries response
type playerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
}

// GetPersonaName resolves a SteamID64 to the account's current persona name.
// An unknown ID returns an empty name, not an error.
func (c *Client) GetPersonaName(ctx context.Context, steamID string) (string, error) {
	endpoint := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(steamID))

	var result struct {
		Response struct {
			Players []playerSummary `json:"players"`
		} `json:"response"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return "", fmt.Errorf("failed to get player summary: %w", err)
	}

	if len(result.Response.Players) == 0 {
		return "", nil
	}
	return result.Response.Players[0].PersonaName, nil
}

// doRequest performs an HTTP request with rate limiting
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	// Simple rate limiting
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.minInterval {
		time.Sleep(c.minInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Handle rate limiting (429)
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		// Wait and retry once
		time.Sleep(1 * time.Second)
		return c.httpClient.Do(req)
	}

	return resp, nil
}

// get performs a GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
