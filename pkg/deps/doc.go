// Package deps checks declared dependencies against their latest published
// versions.
//
// # Overview
//
// A check has three layers:
//
//  1. Manifest ([manifest]): loads package.json/bower.json and extracts [Specs]
//  2. Engine (this package): resolves every spec concurrently through a [Resolver]
//  3. Managers ([javascript]): npm and Bower resolvers over [integrations]
//
// # Analyzing Dependencies
//
//	m, _ := manifest.Load(ctx, "package.json")
//	specs := manifest.Extract(m, logger.Infof)
//
//	res := javascript.NPM.Resolver(deps.RegistryConfig{})
//	report, err := deps.NewEngine(res, deps.Options{
//	    Concurrency: 20,
//	    Timeout:     time.Minute,
//	    Logger:      logger.Warnf,
//	}).Analyze(ctx, specs)
//
// The engine:
//
//  1. Starts one resolution per spec, at most Options.Concurrency at a time
//  2. Compares each declared range with the latest version ([versions.Compare])
//  3. Waits for every resolution to settle before returning the [Report]
//
// A failed lookup never aborts the analysis. It is logged, recorded as a
// [Failure] and left out of the result mapping. [Report.Degraded] flags the
// case where every lookup failed.
//
// # Options
//
// [Options] controls resolution behavior:
//
//   - Concurrency: Resolutions in flight (default 20)
//   - Timeout: Deadline for the whole batch; pending lookups fail with TIMEOUT
//   - Logger: Failure callback
//   - Progress: Called with (done, total) after each settled lookup
//
// # Report
//
// A [Report] is keyed by dependency name. Accessors return results sorted by
// name, and its JSON form is an object with sorted keys:
//
//	{"a": {"from": "^1.0.0", "to": "1.0.5", "satisfied": true},
//	 "b": {"from": "~2.2.0", "to": "2.3.0", "satisfied": false, "diff": "minor"}}
//
// [manifest]: github.com/matzehuels/deprep/pkg/deps/manifest
// [javascript]: github.com/matzehuels/deprep/pkg/deps/javascript
// [integrations]: github.com/matzehuels/deprep/pkg/integrations
// [versions.Compare]: github.com/matzehuels/deprep/pkg/versions.Compare
package deps
