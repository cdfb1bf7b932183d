package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion indicates a string that could not be parsed as a
// semantic version.
var ErrInvalidVersion = errors.New("invalid semantic version")

// Unbounded is the sentinel used for a range endpoint that is always
// satisfied on its side.
const Unbounded = "*"

// Parse parses a major.minor.patch semantic version, with optional
// pre-release and build suffixes. Returns ErrInvalidVersion on failure.
func Parse(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	return v, nil
}

// Range is an inclusive version range with Unbounded sentinels. An empty
// endpoint is treated the same as Unbounded.
type Range struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Contains reports whether v falls within the range. A bound that fails to
// parse yields ErrInvalidVersion; callers decide whether that is fatal.
func (r Range) Contains(v *semver.Version) (bool, error) {
	if r.Min != "" && r.Min != Unbounded {
		min, err := Parse(r.Min)
		if err != nil {
			return false, err
		}
		if v.LessThan(min) {
			return false, nil
		}
	}

	if r.Max != "" && r.Max != Unbounded {
		max, err := Parse(r.Max)
		if err != nil {
			return false, err
		}
		if v.GreaterThan(max) {
			return false, nil
		}
	}

	return true, nil
}
