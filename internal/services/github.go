package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// GithubClient proxies a user's repository listing from the GitHub API. The
// upstream body is passed through verbatim; any non-200 answer is reported as
// a missing GitHub profile. Responses are cached per username so repeated
// profile views don't burn through the API rate limit.
type GithubClient struct {
	ClientID     string
	ClientSecret string
	Endpoint     string
	HTTPClient   *http.Client

	cache *gocache.Cache
}

func NewGithubClient(clientID, clientSecret string) *GithubClient {
	return &GithubClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     "https://api.github.com",
		HTTPClient: &http.Client{
			Timeout: 8 * time.Second,
		},
		cache: gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// ListRepos returns the five most recently created public repos for username.
func (c *GithubClient) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if cached, ok := c.cache.Get(username); ok {
		return cached.(json.RawMessage), nil
	}

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.ClientID != "" {
		q.Set("client_id", c.ClientID)
		q.Set("client_secret", c.ClientSecret)
	}

	reqURL := fmt.Sprintf("%s/users/%s/repos?%s", c.Endpoint, url.PathEscape(username), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "devlink-backend")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoGithubProfile
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(body)
	c.cache.Set(username, raw, gocache.DefaultExpiration)
	return raw, nil
}
