// Package apexapi implements the RotationClient port against the
// mozambiquehe.re Apex Legends status API.
package apexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gregjones/httpcache"

	"apexbot/internal/domain/model"
	"apexbot/internal/domain/port/driven"
)

const defaultBaseURL = "https://api.mozambiquehe.re"

// Compile-time interface satisfaction check.
var _ driven.RotationClient = (*Client)(nil)

// Client implements the driven.RotationClient port. Responses pass through an
// in-memory httpcache transport so repeated rotation queries within the
// upstream's cache window do not burn API quota.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a rotation API client with an ETag-based memory cache
// transport and a request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   10 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// rotationResponse mirrors the subset of the maprotation payload we read.
// The API reports errors as 200s with an "Error" field.
type rotationResponse struct {
	Error        string `json:"Error"`
	BattleRoyale *struct {
		Current struct {
			Map            string `json:"map"`
			RemainingTimer string `json:"remainingTimer"`
		} `json:"current"`
		Next struct {
			Map string `json:"map"`
		} `json:"next"`
	} `json:"battle_royale"`
}

// Current fetches the current battle-royale map rotation.
func (c *Client) Current(ctx context.Context) (*model.MapRotation, error) {
	u := fmt.Sprintf("%s/maprotation?auth=%s", c.baseURL, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build maprotation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch maprotation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch maprotation: unexpected status %d", resp.StatusCode)
	}

	var body rotationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode maprotation response: %w", err)
	}

	if body.BattleRoyale == nil {
		if body.Error != "" {
			return nil, fmt.Errorf("maprotation api error: %s", body.Error)
		}
		return nil, fmt.Errorf("maprotation response missing battle_royale section")
	}

	return &model.MapRotation{
		CurrentMap:     body.BattleRoyale.Current.Map,
		RemainingTimer: body.BattleRoyale.Current.RemainingTimer,
		NextMap:        body.BattleRoyale.Next.Map,
	}, nil
}
