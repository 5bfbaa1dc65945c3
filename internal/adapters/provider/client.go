package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/selivandex/vitals-bot/internal/adapters/config"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// ErrNoData marks a (day, category) the provider has nothing for. Not a
// failure: trackers routinely skip categories on days they were not worn.
var ErrNoData = errors.New("provider has no data for day")

// Client fetches per-day JSON payloads from the health telemetry provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates new provider client
func NewClient(cfg *config.ProviderConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchDaily returns the raw JSON payload for one (login, day, category).
func (c *Client) FetchDaily(ctx context.Context, login string, day time.Time, category models.DataCategory) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/daily/%s?user=%s&date=%s",
		c.baseURL,
		url.PathEscape(string(category)),
		url.QueryEscape(login),
		models.FormatDay(day),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d for %s/%s", resp.StatusCode, category, models.FormatDay(day))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("provider returned malformed JSON for %s/%s", category, models.FormatDay(day))
	}

	return json.RawMessage(body), nil
}
