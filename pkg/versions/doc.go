// Package versions compares declared semver ranges against published versions.
//
// # Overview
//
// [Compare] answers two questions for a dependency:
//
//   - Is the latest published version already admitted by the declared range?
//   - If not, how large is the jump from the range floor to that version?
//
// Range semantics follow npm: caret, tilde, x-ranges, hyphen ranges,
// comparator sets and "||" unions, evaluated with [semver].
//
// # Change Kinds
//
// The floor of a range is the smallest concrete version it implies, made
// exact ([Floor]). The change kind compares that floor to the latest version:
//
//   - [Major]: major components differ
//   - [Minor]: major matches, minor differs
//   - [Patch]: major and minor match, patch differs
//   - [Indeterminate]: no floor could be derived, or the latest version is
//     not semver
//
// Example:
//
//	versions.Compare("^1.2.0", "1.2.5")  // {Satisfied: true}
//	versions.Compare("~2.2.0", "2.3.0")  // {Change: Minor}
//	versions.Compare("^1.2.0", "2.0.0")  // {Change: Major}
//	versions.Compare("1.2.0", "1.2.1")   // {Change: Patch}
//
// The package is pure: no I/O and no shared state.
//
// [semver]: https://github.com/Masterminds/semver
package versions
