// Package googlebooks implements metadata.Client on the Google Books
// volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/barekit/biblio/pkg/metadata"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// Defaults substituted for absent volumeInfo fields.
const (
	defaultTitle       = "Unknown Title"
	defaultAuthor      = "Unknown Author"
	defaultDescription = "No description available."
	defaultInfoLink    = "#"
)

// Config holds the client configuration. No ambient globals: the API key is
// injected here.
type Config struct {
	APIKey     string
	BaseURL    string       // defaults to the public volumes endpoint
	HTTPClient *http.Client // defaults to a 30s-timeout client
	Logger     *slog.Logger // defaults to slog.Default()
}

// Client queries the Google Books volumes API, one result per lookup.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new Client. Requests are rate limited to stay inside
// the API's per-minute quota.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:      logger,
	}
}

// volumesResponse is the raw API response, reduced to the fields we read.
type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			ImageLinks  struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
			InfoLink string `json:"infoLink"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Lookup searches for query and maps the first result to a Volume. Returns
// (nil, nil) when the API has no matches.
func (c *Client) Lookup(ctx context.Context, query string) (*metadata.Volume, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "1")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup failed: status %d", resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("google books lookup", "query", query, "count", len(body.Items))

	if len(body.Items) == 0 {
		return nil, nil
	}

	info := body.Items[0].VolumeInfo
	vol := &metadata.Volume{
		Title:       info.Title,
		Authors:     info.Authors,
		Description: info.Description,
		Thumbnail:   info.ImageLinks.Thumbnail,
		InfoLink:    info.InfoLink,
	}
	if vol.Title == "" {
		vol.Title = defaultTitle
	}
	if len(vol.Authors) == 0 {
		vol.Authors = []string{defaultAuthor}
	}
	if vol.Description == "" {
		vol.Description = defaultDescription
	}
	if vol.InfoLink == "" {
		vol.InfoLink = defaultInfoLink
	}

	return vol, nil
}
