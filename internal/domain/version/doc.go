// Package version parses and compares semantic versions for gateway
// compatibility checks.
//
// It wraps Masterminds/semver with the catalog's conventions: strict
// major.minor.patch parsing, an "*" sentinel for unbounded range endpoints,
// and inclusive range containment.
package version
