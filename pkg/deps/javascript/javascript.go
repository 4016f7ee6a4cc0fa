package javascript

import (
	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/integrations/bower"
	"github.com/matzehuels/deprep/pkg/integrations/github"
	"github.com/matzehuels/deprep/pkg/integrations/npm"
)

// NPM resolves packages against the npm registry (or a compatible one).
var NPM = &deps.Manager{
	Name:            "npm",
	DefaultManifest: "package.json",
	NewResolver:     newNPMResolver,
}

// Bower resolves packages through the Bower registry and GitHub tags.
var Bower = &deps.Manager{
	Name:            "bower",
	DefaultManifest: "bower.json",
	NewResolver:     newBowerResolver,
}

// Managers lists the supported package managers, default first.
var Managers = []*deps.Manager{NPM, Bower}

// Manager returns the package manager called name.
func Manager(name string) (*deps.Manager, error) {
	return deps.FindManager(name, Managers...)
}

func newNPMResolver(cfg deps.RegistryConfig) deps.Resolver {
	c := npm.NewClient(cfg.Cache, cfg.Registry, cfg.Token)
	return &resolver{
		name:     "npm",
		latest:   c.Latest,
		validate: errors.ValidateNpmPackageName,
	}
}

func newBowerResolver(cfg deps.RegistryConfig) deps.Resolver {
	gh := github.NewClient(cfg.Cache, cfg.GitHubToken)
	c := bower.NewClient(cfg.Cache, cfg.BowerRegistry, gh)
	return &resolver{
		name:     "bower",
		latest:   c.Latest,
		validate: errors.ValidateBowerPackageName,
	}
}
