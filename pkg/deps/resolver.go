package deps

import "context"

// Resolver looks up the latest published version of a package.
//
//go:generate mockgen -source=resolver.go -destination=mocks/resolver_mock.go -package=mocks
type Resolver interface {
	// Name returns the registry identifier (e.g., "npm", "bower").
	Name() string
	// Latest returns the newest stable version of name. Failures carry an
	// error code from pkg/errors.
	Latest(ctx context.Context, name string) (string, error)
}
