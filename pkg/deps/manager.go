package deps

import (
	"fmt"
	"strings"

	"github.com/matzehuels/deprep/pkg/cache"
)

// RegistryConfig carries what a manager needs to build its resolver.
type RegistryConfig struct {
	Cache         cache.Cache // Lookup memo shared by one run (optional)
	Registry      string      // npm registry base URL override
	BowerRegistry string      // Bower registry base URL override
	Token         string      // npm registry bearer token
	GitHubToken   string      // Token for GitHub-backed registries
}

// Manager describes a package manager: where its manifest lives and how to
// look up its packages.
type Manager struct {
	Name            string
	DefaultManifest string
	NewResolver     func(cfg RegistryConfig) Resolver
}

// Resolver builds a resolver for the manager's registry.
func (m *Manager) Resolver(cfg RegistryConfig) Resolver {
	return m.NewResolver(cfg)
}

// Matches reports whether name refers to this manager.
func (m *Manager) Matches(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) == m.Name
}

// FindManager returns the manager called name.
func FindManager(name string, managers ...*Manager) (*Manager, error) {
	names := make([]string, 0, len(managers))
	for _, m := range managers {
		if m.Matches(name) {
			return m, nil
		}
		names = append(names, m.Name)
	}
	return nil, fmt.Errorf("unknown package manager %q (available: %s)", name, strings.Join(names, ", "))
}
