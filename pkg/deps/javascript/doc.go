// Package javascript provides the JavaScript package managers: npm and Bower.
//
// Each manager is a [deps.Manager] that names its default manifest and builds
// a [deps.Resolver] for its registry:
//
//	m, _ := javascript.Manager("npm")
//	res := m.Resolver(deps.RegistryConfig{Cache: memo, Token: token})
//	latest, err := res.Latest(ctx, "express")
//
// Resolver errors are coded with pkg/errors: PACKAGE_NOT_FOUND, NETWORK_ERROR,
// TIMEOUT, RATE_LIMITED, INVALID_PACKAGE or INVALID_RESPONSE.
//
// [deps.Manager]: github.com/matzehuels/deprep/pkg/deps.Manager
// [deps.Resolver]: github.com/matzehuels/deprep/pkg/deps.Resolver
package javascript
