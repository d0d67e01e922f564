package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Photo is one image search result in the shape Pexels returns it.
type Photo struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Photographer string    `json:"photographer"`
	Src          PhotoSrc  `json:"src"`
	Alt          string    `json:"alt"`
}

// PhotoSrc holds the pre-scaled variants of a photo.
type PhotoSrc struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// ClientConfig holds configuration for the Pexels search client.
type ClientConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.pexels.com"
}

// Client searches the Pexels photo library.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient creates a Pexels client with defaults applied.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.pexels.com"
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type searchResponse struct {
	Photos []Photo `json:"photos"`
}

// Search returns up to count photos matching query.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Photo, error) {
	if count <= 0 {
		count = 5
	}

	u := fmt.Sprintf("%s/v1/search?query=%s&per_page=%s",
		c.cfg.BaseURL, url.QueryEscape(query), strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search failed (status %d)", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode image search response: %w", err)
	}
	return out.Photos, nil
}
