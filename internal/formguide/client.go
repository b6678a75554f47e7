package formguide

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client talks to a form-guide provider exposing per-team recent results
// as JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ FormGuide = (*Client)(nil)

// NewClient creates a new form-guide client for the given provider base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// providerResponse is the provider's wire shape. Result tokens arrive in
// assorted spellings and are normalized before use.
type providerResponse struct {
	Team    string   `json:"team"`
	Results []string `json:"results"`
}

// RecentForm fetches and normalizes one team's recent results.
func (c *Client) RecentForm(ctx context.Context, team string) (*Guide, error) {
	endpoint := fmt.Sprintf("%s/form-guide?team=%s", c.baseURL, url.QueryEscape(team))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create form guide request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form guide: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("form guide provider returned status %d", resp.StatusCode)
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode form guide response: %w", err)
	}

	form := normalizeResults(parsed.Results)
	if form == "" {
		log.Warn("Form guide provider returned no usable results", "team", team)
	}
	return &Guide{
		Team:      parsed.Team,
		Form:      form,
		Source:    c.baseURL,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// normalizeResults maps provider result tokens to W/D/L, dropping anything
// unrecognized, and caps the form at five results.
func normalizeResults(results []string) string {
	var sb strings.Builder
	for _, raw := range results {
		if sb.Len() == 5 {
			break
		}
		switch strings.ToUpper(strings.TrimSpace(raw)) {
		case "W", "WIN", "WON", "G":
			sb.WriteString("W")
		case "D", "DRAW", "DREW", "E":
			sb.WriteString("D")
		case "L", "LOSS", "LOST", "P":
			sb.WriteString("L")
		}
	}
	return sb.String()
}
