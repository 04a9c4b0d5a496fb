package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/devlink/devlink/backend/internal/common/constants"
	commonerrors "github.com/devlink/devlink/backend/internal/common/errors"
)

var ErrNoGithubProfile = commonerrors.NewDomainError(
	"GITHUB_PROFILE_NOT_FOUND",
	commonerrors.CategoryNotFound,
	http.StatusNotFound,
	"no github profile found",
)

// Repo carries the subset of repository fields the frontend renders.
type Repo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
}

// Client fetches public repositories for a github user. BaseURL is
// overridable so tests can point it at a local server.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      "https://api.github.com",
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// NewClientWithBaseURL is used by tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// Repos returns the user's most recently created public repositories. Any
// non-200 upstream answer maps to ErrNoGithubProfile so callers never leak
// github's own error shape to clients.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, commonerrors.ErrInternal.WithCause(err)
	}

	q := req.URL.Query()
	q.Set("per_page", fmt.Sprintf("%d", constants.GithubReposPerPage))
	q.Set("sort", "created:asc")
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "devlink")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, commonerrors.ErrInternal.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNoGithubProfile
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, commonerrors.ErrInternal.WithCause(err)
	}

	return repos, nil
}
