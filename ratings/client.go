// Package ratings fetches ELO rating differentials from an external ratings
// service. The engine's ELO-Kelly strategy consumes the differential; this
// client is the only networked collaborator in the system.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Rating is one side's rating as returned by the service.
type Rating struct {
	Team    string    `json:"team"`
	Elo     float64   `json:"elo"`
	Updated time.Time `json:"updated"`
}

// Client fetches ratings over plain HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a ratings client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Rating fetches the current rating of one team.
func (c *Client) Rating(ctx context.Context, team string) (*Rating, error) {
	u := fmt.Sprintf("%s/ratings?team=%s", c.baseURL, url.QueryEscape(team))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rating: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ratings API returned status %d", resp.StatusCode)
	}

	var r Rating
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode rating: %w", err)
	}
	return &r, nil
}

// Differential returns team A's rating minus team B's, the input the
// ELO-Kelly strategy expects.
func (c *Client) Differential(ctx context.Context, teamA, teamB string) (float64, error) {
	a, err := c.Rating(ctx, teamA)
	if err != nil {
		return 0, err
	}
	b, err := c.Rating(ctx, teamB)
	if err != nil {
		return 0, err
	}
	return a.Elo - b.Elo, nil
}
