package deps

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/versions"
)

// Result is the outcome of one successful resolution.
type Result struct {
	Name      string              `json:"-"`
	From      string              `json:"from"`           // Declared range
	To        string              `json:"to"`             // Latest published version
	Satisfied bool                `json:"satisfied"`      // From admits To
	Change    versions.ChangeKind `json:"diff,omitempty"` // Set only when not satisfied
}

// Failure records a dependency whose latest version could not be resolved.
type Failure struct {
	Name string
	From string
	Err  error
}

func (f Failure) Error() string { return f.Name + ": " + f.Err.Error() }
func (f Failure) Unwrap() error { return f.Err }

// Code returns the error code of the failure, if any.
func (f Failure) Code() errors.Code { return errors.GetCode(f.Err) }

// Report aggregates the results of one analysis. It is built by a single
// goroutine inside [Engine.Analyze] and is read-only afterwards.
type Report struct {
	results   map[string]Result
	failures  []Failure
	attempted int
}

func newReport() *Report {
	return &Report{results: make(map[string]Result)}
}

func (r *Report) add(res Result) {
	r.attempted++
	r.results[res.Name] = res
}

func (r *Report) fail(f Failure) {
	r.attempted++
	r.failures = append(r.failures, f)
}

func (r *Report) seal() {
	slices.SortFunc(r.failures, func(a, b Failure) int { return cmp.Compare(a.Name, b.Name) })
}

// Len returns the number of resolved dependencies.
func (r *Report) Len() int { return len(r.results) }

// Get returns the result for name.
func (r *Report) Get(name string) (Result, bool) {
	res, ok := r.results[name]
	return res, ok
}

// Names returns the resolved dependency names in sorted order.
func (r *Report) Names() []string {
	return slices.Sorted(maps.Keys(r.results))
}

// Results returns all results sorted by name.
func (r *Report) Results() []Result {
	return r.filter(func(Result) bool { return true })
}

// Satisfied returns the results whose declared range admits the latest
// version, sorted by name.
func (r *Report) Satisfied() []Result {
	return r.filter(func(res Result) bool { return res.Satisfied })
}

// Outdated returns the results with an update outside the declared range,
// sorted by name.
func (r *Report) Outdated() []Result {
	return r.filter(func(res Result) bool { return !res.Satisfied })
}

// Failures returns the unresolved dependencies sorted by name.
func (r *Report) Failures() []Failure {
	return slices.Clone(r.failures)
}

// Degraded reports whether resolutions were attempted and every one failed,
// which usually means the registry was unreachable.
func (r *Report) Degraded() bool {
	return r.attempted > 0 && len(r.results) == 0
}

func (r *Report) filter(keep func(Result) bool) []Result {
	var out []Result
	for _, name := range r.Names() {
		if res := r.results[name]; keep(res) {
			out = append(out, res)
		}
	}
	return out
}

// MarshalJSON encodes the report as an object keyed by dependency name:
//
//	{"a": {"from": "^1.0.0", "to": "1.0.5", "satisfied": true}}
//
// Keys are sorted, so equal reports encode to equal bytes.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.results)
}
