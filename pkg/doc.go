// Package pkg provides the core libraries for deprep dependency update checks.
//
// # Overview
//
// deprep compares the version ranges declared in a package manifest with the
// latest releases published on a registry. The pkg directory is organized
// into these areas:
//
//  1. [deps] - The update engine, reports, manifests and package managers
//  2. [versions] - Range satisfaction and change classification
//  3. [integrations] - Registry clients (npm, Bower, GitHub)
//  4. [cache], [httputil] - In-process lookup memo and retrying HTTP helpers
//  5. [config], [errors], [observability] - Ambient concerns
//
// # Architecture
//
// The data flow of a check:
//
//	package.json / bower.json / package.yaml
//	         ↓
//	    [deps/manifest] package (load, merge groups, prune URL ranges)
//	         ↓
//	    [deps] package (Engine.Analyze fans out one lookup per name)
//	         ↓
//	    [integrations] packages (latest version per name)
//	         ↓
//	    [versions] package (satisfied, or patch/minor/major/indeterminate)
//	         ↓
//	    *deps.Report (sorted results and typed failures)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/deprep/pkg/deps"
//	    "github.com/matzehuels/deprep/pkg/deps/javascript"
//	    "github.com/matzehuels/deprep/pkg/deps/manifest"
//	)
//
//	m, _ := manifest.Load(ctx, "package.json")
//	specs := manifest.Extract(m, log.Printf)
//
//	res := javascript.NPM.Resolver(deps.RegistryConfig{})
//	report, _ := deps.NewEngine(res, deps.Options{}).Analyze(ctx, specs)
//	for _, r := range report.Outdated() {
//	    fmt.Println(r.Name, r.From, "->", r.To, r.Change)
//	}
package pkg
