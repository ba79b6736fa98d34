// Package spotify backfills audio features for ingested tracks from the
// Spotify Web API using the client-credentials flow.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/soundfield/trackboard/internal/core/domain"
	"github.com/soundfield/trackboard/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.FeatureSource = (*Client)(nil)

// NewClient constructs a client authenticating with the client-credentials
// flow. The oauth2 transport refreshes tokens transparently.
func NewClient(clientID, clientSecret string) *Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     defaultTokenURL,
	}
	return &Client{
		httpClient: cfg.Client(context.Background()),
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithHTTP constructs a client against a custom endpoint with a
// pre-authenticated HTTP client. Used by tests.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetAudioFeatures retrieves the audio features of a track by ID and maps
// them to the domain shape.
func (c *Client) GetAudioFeatures(ctx context.Context, trackID string) (domain.AudioFeatures, error) {
	url := fmt.Sprintf("%s/audio-features/%s", c.baseURL, trackID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.AudioFeatures{}, fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.AudioFeatures{}, fmt.Errorf("spotify adapter: features request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound {
		return domain.AudioFeatures{}, ports.ErrFeaturesUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return domain.AudioFeatures{}, fmt.Errorf("spotify adapter: features status %d", resp.StatusCode)
	}

	var wire audioFeatures
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.AudioFeatures{}, fmt.Errorf("spotify adapter: features decode error: %w", err)
	}

	return mapFeaturesToDomain(wire), nil
}

// GetPreviewURL retrieves the 30-second preview URL of a track, or an empty
// string when Spotify provides none.
func (c *Client) GetPreviewURL(ctx context.Context, trackID string) (string, error) {
	url := fmt.Sprintf("%s/tracks/%s", c.baseURL, trackID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify adapter: track status %d", resp.StatusCode)
	}

	var wire trackObject
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return "", fmt.Errorf("spotify adapter: track decode error: %w", err)
	}
	return wire.PreviewURL, nil
}
