package bower

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/deprep/pkg/cache"
	"github.com/matzehuels/deprep/pkg/integrations"
	"github.com/matzehuels/deprep/pkg/integrations/github"
)

// DefaultRegistry is the public Bower registry.
const DefaultRegistry = "https://registry.bower.io"

// Client resolves Bower package names to their newest release.
type Client struct {
	*integrations.Client
	baseURL string
	github  *github.Client
}

// NewClient creates a Bower client. Releases are read from GitHub through gh.
func NewClient(c cache.Cache, registry string, gh *github.Client) *Client {
	if registry == "" {
		registry = DefaultRegistry
	}
	return &Client{
		Client:  integrations.NewClient(c, map[string]string{"Accept": "application/json"}),
		baseURL: strings.TrimSuffix(registry, "/"),
		github:  gh,
	}
}

// Lookup returns the repository URL registered for pkg.
func (c *Client) Lookup(ctx context.Context, pkg string) (string, error) {
	key := cache.Key("bower", c.baseURL+"/"+pkg)

	var info PackageInfo
	err := c.Cached(ctx, key, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Latest returns the highest stable release tag of pkg's repository.
func (c *Client) Latest(ctx context.Context, pkg string) (string, error) {
	repoURL, err := c.Lookup(ctx, pkg)
	if err != nil {
		return "", err
	}
	owner, repo, ok := github.ParseRepoURL(repoURL)
	if !ok {
		return "", fmt.Errorf("%w: bower package %s is not hosted on github (%s)", integrations.ErrInvalidResponse, pkg, repoURL)
	}
	return c.github.LatestRelease(ctx, owner, repo)
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data PackageInfo
	if err := c.Get(ctx, c.baseURL+"/packages/"+url.PathEscape(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: bower package %s", err, pkg)
		}
		return err
	}
	if data.URL == "" {
		return fmt.Errorf("%w: bower package %s has no url", integrations.ErrInvalidResponse, pkg)
	}
	*info = data
	return nil
}

// PackageInfo is a Bower registry entry.
type PackageInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
