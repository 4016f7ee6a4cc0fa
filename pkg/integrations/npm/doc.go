// Package npm provides an HTTP client for the npm registry API.
//
// # Usage
//
//	client := npm.NewClient(cache.NewMemoryCache(0, 0), "", os.Getenv("NPM_TOKEN"))
//	latest, err := client.Latest(ctx, "express")
//
// # Version Selection
//
// The client reads the version tagged "latest" in dist-tags, which is what
// `npm install <name>` would pick. Prerelease tags such as "next" are ignored.
//
// # Registries
//
// Any npm-compatible registry can be queried by passing its base URL to
// [NewClient]. Scoped packages are escaped with [EscapeName].
package npm
