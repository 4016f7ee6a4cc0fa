package versions

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ChangeKind classifies how far a latest version has moved away from the
// floor of a declared range.
type ChangeKind string

const (
	// None is used for satisfied ranges, which carry no change kind.
	None          ChangeKind = ""
	Patch         ChangeKind = "patch"
	Minor         ChangeKind = "minor"
	Major         ChangeKind = "major"
	Indeterminate ChangeKind = "indeterminate"
)

// ErrNoFloor is returned by [Floor] when a range does not imply a single
// minimum concrete version.
var ErrNoFloor = errors.New("range has no concrete floor")

// Comparison is the outcome of comparing a declared range to a latest version.
type Comparison struct {
	Satisfied bool       // Latest version is admitted by the range
	Change    ChangeKind // Set only when Satisfied is false
}

// Compare reports whether latest satisfies declared and, when it does not,
// how large the change from the range floor to latest is.
//
// Ranges or versions that cannot be interpreted never cause an error; they
// yield an unsatisfied comparison with change kind [Indeterminate].
func Compare(declared, latest string) Comparison {
	lv, err := semver.NewVersion(strings.TrimSpace(latest))
	if err != nil {
		return Comparison{Change: Indeterminate}
	}

	if Satisfies(declared, lv) {
		return Comparison{Satisfied: true}
	}

	floor, err := Floor(declared)
	if err != nil {
		return Comparison{Change: Indeterminate}
	}
	return Comparison{Change: Diff(floor, lv)}
}

// Satisfies reports whether v is admitted by the range. An empty range
// admits every release, as in npm.
func Satisfies(declared string, v *semver.Version) bool {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		declared = "*"
	}
	c, err := semver.NewConstraint(declared)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// Diff returns the most significant component that differs between from and
// to. Versions that differ only in prerelease or build metadata are
// [Indeterminate].
func Diff(from, to *semver.Version) ChangeKind {
	switch {
	case from.Major() != to.Major():
		return Major
	case from.Minor() != to.Minor():
		return Minor
	case from.Patch() != to.Patch():
		return Patch
	default:
		return Indeterminate
	}
}

var operatorSpace = regexp.MustCompile(`(>=|<=|!=|~>|>|<|=|\^|~)\s+`)

// operators is ordered so that two-character operators match first.
var operators = []string{">=", "<=", "!=", "~>", ">", "<", "=", "^", "~"}

// Floor returns the minimum concrete version implied by a range, made exact:
// "^1.2.0" and "~1.2" give 1.2.0, ">=1.4.0 <2.0.0" gives 1.4.0, ">1.2.3" gives
// 1.2.4, and "1.0.0 - 2.0.0" gives 1.0.0. For unions the lowest alternative
// floor wins.
//
// Wildcards ("*", "x"), upper-bound-only ranges, dist tags and malformed input
// wrap [ErrNoFloor].
func Floor(declared string) (*semver.Version, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return nil, fmt.Errorf("%w: empty range", ErrNoFloor)
	}

	var floor *semver.Version
	for _, alt := range strings.Split(declared, "||") {
		v, err := setFloor(alt)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, declared)
		}
		if floor == nil || v.LessThan(floor) {
			floor = v
		}
	}
	return floor, nil
}

func setFloor(set string) (*semver.Version, error) {
	set = strings.TrimSpace(set)
	if lo, _, ok := strings.Cut(set, " - "); ok {
		set = lo
	}
	set = operatorSpace.ReplaceAllString(set, "$1")

	fields := strings.FieldsFunc(set, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })

	var floor *semver.Version
	for _, f := range fields {
		op, ver := splitOperator(f)
		switch op {
		case "<", "<=", "!=":
			continue
		}
		v, parts, err := partial(ver)
		if err != nil {
			return nil, err
		}
		if op == ">" {
			v = exclusive(v, parts)
		}
		if floor == nil || v.GreaterThan(floor) {
			floor = v
		}
	}
	if floor == nil {
		return nil, ErrNoFloor
	}
	return floor, nil
}

func splitOperator(s string) (string, string) {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op, s[len(op):]
		}
	}
	return "", s
}

// partial parses a possibly incomplete version ("1", "1.2", "1.x", "v1.2.3")
// filling missing components with zero. It reports how many numeric
// components were given.
func partial(s string) (*semver.Version, int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")

	core, build, _ := strings.Cut(s, "+")
	core, pre, _ := strings.Cut(core, "-")

	var nums [3]uint64
	parts := 0
	for i, p := range strings.Split(core, ".") {
		if i >= 3 {
			return nil, 0, ErrNoFloor
		}
		if p == "x" || p == "X" || p == "*" {
			break
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, 0, ErrNoFloor
		}
		nums[i] = n
		parts++
	}
	if parts == 0 {
		return nil, 0, ErrNoFloor
	}
	if parts < 3 {
		pre = ""
	}
	return semver.New(nums[0], nums[1], nums[2], pre, build), parts, nil
}

func exclusive(v *semver.Version, parts int) *semver.Version {
	var next semver.Version
	switch parts {
	case 1:
		next = v.IncMajor()
	case 2:
		next = v.IncMinor()
	default:
		next = v.IncPatch()
	}
	return &next
}

// Highest returns the greatest stable release among tags, normalized without
// a leading "v". Tags that are not versions are skipped.
func Highest(tags []string) (string, bool) {
	var best *semver.Version
	for _, t := range tags {
		v, err := semver.NewVersion(strings.TrimSpace(t))
		if err != nil || v.Prerelease() != "" {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return "", false
	}
	return best.String(), true
}
