// Package github lists a user's public repositories through the GitHub REST
// API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"devconnector/apperr"
	"devconnector/cache"
)

const DefaultBaseURL = "https://api.github.com"

var ErrNoProfile = apperr.NotFound("No Github profile found")

// Client fetches repository listings, caching successful responses.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	cache      *cache.TTLCache
}

func NewClient(token string, c *cache.TTLCache) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		cache:      c,
	}
}

// Repos returns the raw JSON array of the user's five most recently created
// repositories.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(username); ok {
			return body, nil
		}
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "devconnector")
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoProfile
	default:
		return nil, fmt.Errorf("github responded %d for %s", resp.StatusCode, username)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github response is not json")
	}

	if c.cache != nil {
		c.cache.Set(username, body)
	}
	return body, nil
}
