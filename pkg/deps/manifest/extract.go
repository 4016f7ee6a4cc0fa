package manifest

import (
	"strings"

	"github.com/matzehuels/deprep/pkg/deps"
)

// Extract merges the manifest's dependency groups into one set of specs.
//
// Groups are overlaid in ascending precedence (bundled, regular, dev,
// optional, peer); a later group replaces the whole range of an earlier one.
// Ranges that point at a URL or VCS source (containing "http" or "git") are
// dropped and reported through logf, which may be nil.
func Extract(m *Manifest, logf func(string, ...any)) deps.Specs {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	specs := make(deps.Specs)
	if m == nil {
		return specs
	}
	for _, g := range m.groups() {
		for name, rng := range g {
			specs[name] = rng
		}
	}

	for _, s := range specs.Sorted() {
		if isSourceRef(s.Range) {
			logf("Pruned %s from the dependency check: http(s):// and git:// ranges are not supported", s.Name)
			delete(specs, s.Name)
		}
	}
	return specs
}

func isSourceRef(rng string) bool {
	return strings.Contains(rng, "http") || strings.Contains(rng, "git")
}
