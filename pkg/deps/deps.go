package deps

import (
	"cmp"
	"slices"
	"time"
)

// DefaultConcurrency is the default number of resolutions in flight.
const DefaultConcurrency = 20

// Spec is one declared dependency: a package name and the version range the
// manifest admits for it.
type Spec struct {
	Name  string
	Range string
}

// Specs maps package names to declared ranges. Names are unique by
// construction.
type Specs map[string]string

// Sorted returns the specs ordered by name.
func (s Specs) Sorted() []Spec {
	out := make([]Spec, 0, len(s))
	for name, rng := range s {
		out = append(out, Spec{Name: name, Range: rng})
	}
	slices.SortFunc(out, func(a, b Spec) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Without returns a copy of s with the given names removed.
func (s Specs) Without(names ...string) Specs {
	out := make(Specs, len(s))
	for name, rng := range s {
		if !slices.Contains(names, name) {
			out[name] = rng
		}
	}
	return out
}

// Options configures an analysis.
type Options struct {
	Concurrency int                   // Resolutions in flight (default: 20)
	Timeout     time.Duration         // Deadline for the whole batch (0: none)
	Logger      func(string, ...any)  // Failure/progress sink (optional)
	Progress    func(done, total int) // Called after each settled resolution (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	if opts.Progress == nil {
		opts.Progress = func(int, int) {}
	}
	return opts
}
