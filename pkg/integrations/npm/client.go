package npm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/deprep/pkg/cache"
	"github.com/matzehuels/deprep/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// abbreviatedAccept requests the install-time document, which carries
// dist-tags without the full per-version metadata.
const abbreviatedAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"

// Client queries an npm-compatible registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for registry (empty for [DefaultRegistry]).
// A non-empty token is sent as a bearer token, as npm does for private
// registries.
func NewClient(c cache.Cache, registry, token string) *Client {
	if registry == "" {
		registry = DefaultRegistry
	}
	headers := map[string]string{"Accept": abbreviatedAccept}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(c, headers),
		baseURL: strings.TrimSuffix(registry, "/"),
	}
}

// Registry returns the base URL the client queries.
func (c *Client) Registry() string { return c.baseURL }

// Latest returns the version tagged "latest" for pkg.
func (c *Client) Latest(ctx context.Context, pkg string) (string, error) {
	pkg = strings.TrimSpace(pkg)
	key := cache.Key("npm", c.baseURL+"/"+pkg)

	var tags distTags
	err := c.Cached(ctx, key, &tags, func() error {
		return c.fetch(ctx, pkg, &tags)
	})
	if err != nil {
		return "", err
	}
	return tags.Latest, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, tags *distTags) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+EscapeName(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}
	if data.DistTags.Latest == "" {
		return fmt.Errorf("%w: npm package %s has no latest tag", integrations.ErrInvalidResponse, pkg)
	}
	*tags = data.DistTags
	return nil
}

// EscapeName encodes a package name for use as a registry path. Scoped names
// keep their leading "@" and have the separating slash encoded:
// "@types/node" becomes "@types%2fnode".
func EscapeName(pkg string) string {
	if scope, name, ok := strings.Cut(pkg, "/"); ok && strings.HasPrefix(scope, "@") {
		return "@" + url.PathEscape(scope[1:]) + "%2f" + url.PathEscape(name)
	}
	return url.PathEscape(pkg)
}

type registryResponse struct {
	Name     string   `json:"name"`
	DistTags distTags `json:"dist-tags"`
}

type distTags struct {
	Latest string `json:"latest"`
}
