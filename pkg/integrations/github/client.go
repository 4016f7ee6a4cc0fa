package github

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/matzehuels/deprep/pkg/cache"
	"github.com/matzehuels/deprep/pkg/integrations"
	"github.com/matzehuels/deprep/pkg/versions"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// maxTagPages bounds how many pages of tags are read for one repository.
const maxTagPages = 3

var repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Client provides access to the GitHub API for release tags.
// It handles HTTP requests with memoization, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(c cache.Cache, token string) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(c, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise instance or a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Tags returns the tag names of owner/repo, newest first as GitHub orders
// them.
func (c *Client) Tags(ctx context.Context, owner, repo string) ([]string, error) {
	key := cache.Key("github", owner+"/"+repo)

	var names []string
	err := c.Cached(ctx, key, &names, func() error {
		var err error
		names, err = c.fetchTags(ctx, owner, repo)
		return err
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// LatestRelease returns the highest stable semver tag of owner/repo.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (string, error) {
	tags, err := c.Tags(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	latest, ok := versions.Highest(tags)
	if !ok {
		return "", fmt.Errorf("%w: github repo %s/%s has no release tags", integrations.ErrNotFound, owner, repo)
	}
	return latest, nil
}

func (c *Client) fetchTags(ctx context.Context, owner, repo string) ([]string, error) {
	var names []string
	for page := 1; page <= maxTagPages; page++ {
		var data []tagResponse
		url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=100&page=%d", c.baseURL, owner, repo, page)
		if err := c.Get(ctx, url, &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return nil, err
		}
		for _, t := range data {
			names = append(names, t.Name)
		}
		if len(data) < 100 {
			break
		}
	}
	return names, nil
}

// ParseRepoURL extracts owner and repository name from a GitHub URL in any
// of the forms accepted by [integrations.NormalizeRepoURL].
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(integrations.NormalizeRepoURL(raw))
	if len(m) < 3 {
		return "", "", false
	}
	return m[1], m[2], true
}

type tagResponse struct {
	Name string `json:"name"`
}
