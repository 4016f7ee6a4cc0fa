// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// Each registry has its own subpackage:
//
//   - [npm]: npm registry (or any npm-compatible registry)
//   - [bower]: Bower registry, which maps names to git repositories
//   - [github]: GitHub API, used to read release tags of Bower packages
//
// # Client Pattern
//
// All registry clients follow a consistent pattern:
//
//	client := npm.NewClient(cache.NewMemoryCache(0, 0), "", token)
//	latest, err := client.Latest(ctx, "express")
//
// Clients handle:
//   - HTTP requests with retry for network errors, 5xx and 429 responses
//   - In-process memoization through [cache.Cache]
//   - API-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP functionality. Failures are
// reported through the sentinels [ErrNotFound], [ErrNetwork] and
// [ErrInvalidResponse]; callers translate them into coded errors.
//
// [npm]: github.com/matzehuels/deprep/pkg/integrations/npm
// [bower]: github.com/matzehuels/deprep/pkg/integrations/bower
// [github]: github.com/matzehuels/deprep/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/deprep/pkg/cache.Cache
package integrations
