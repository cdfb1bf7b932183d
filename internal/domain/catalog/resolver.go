package catalog

import (
	"strings"
)

// Match pairs an addon with the package variants usable by a particular
// client.
type Match struct {
	Addon    *Addon
	Packages []Package
}

// Resolve computes the matching package variants per add-on for the given
// client profile. Output preserves snapshot order; resolving the same
// snapshot and profile twice yields identical results. A nil snapshot
// resolves to no matches.
func Resolve(snap *Snapshot, p *Profile) []Match {
	if snap == nil {
		return nil
	}

	matches := make([]Match, 0, snap.Len())

	addons := snap.Addons()
	for i := range addons {
		addon := &addons[i]
		if !matchAddon(addon, p) {
			continue
		}

		var pkgs []Package
		for _, pkg := range addon.Packages {
			if matchPackage(addon, pkg, p) {
				pkgs = append(pkgs, pkg)
			}
		}
		if len(pkgs) > 0 {
			matches = append(matches, Match{Addon: addon, Packages: pkgs})
		}
	}

	return matches
}

// matchAddon applies the record-level filters. A failing filter skips the
// whole add-on, not just its packages.
func matchAddon(addon *Addon, p *Profile) bool {
	if p.Query != "" {
		q := strings.ToLower(strings.TrimSpace(p.Query))
		if !strings.Contains(strings.ToLower(addon.ID), q) &&
			!strings.Contains(strings.ToLower(addon.Name), q) &&
			!strings.Contains(strings.ToLower(addon.Description), q) &&
			!strings.Contains(strings.ToLower(addon.Author), q) {
			return false
		}
	}

	if p.TypeFilter != "" {
		t := strings.ToLower(strings.TrimSpace(p.TypeFilter))
		if t != strings.ToLower(addon.Type) {
			return false
		}
	}

	return true
}

// matchPackage applies the per-variant compatibility checks. Any failing
// check excludes the variant only.
func matchPackage(addon *Addon, pkg Package, p *Profile) bool {
	// Architecture: "any" matches everything, an absent filter accepts all.
	if p.Arch != "" && pkg.Architecture != "any" && pkg.Architecture != p.Arch {
		return false
	}

	v := p.GatewayVersion

	// Only adapters were supported before 0.9.
	if v.Major() == 0 && v.Minor() <= 8 && addon.PrimaryType != "adapter" {
		return false
	}

	// Only adapters and notifiers were supported in 0.9.
	if v.Major() == 0 && v.Minor() == 9 &&
		addon.PrimaryType != "adapter" && addon.PrimaryType != "notifier" {
		return false
	}

	if v.Major() > 0 || v.Minor() >= 10 {
		// Gateways 0.10+ declare a compatible version range per package.
		// A range that fails to parse excludes the package, not the
		// request.
		if pkg.Gateway == nil {
			return false
		}
		ok, err := pkg.Gateway.Contains(v)
		if err != nil || !ok {
			return false
		}
	} else {
		// Packages predating gateway ranges advertise an add-on API level
		// range instead; packages without one cannot declare compatibility
		// with these gateways at all.
		if pkg.API == nil {
			return false
		}
		if p.APILevel > 0 && !pkg.API.Contains(p.APILevel) {
			return false
		}
	}

	// Runtime versions: a declared runtime must intersect the client's
	// versions for that runtime unless the package accepts "any".
	if pkg.Language.Name == RuntimeNode || pkg.Language.Name == RuntimePython {
		if !containsString(pkg.Language.Versions, "any") &&
			!intersects(pkg.Language.Versions, p.RuntimeVersions[pkg.Language.Name]) {
			return false
		}
	}

	if pkg.TestOnly && !p.IncludeTestOnly {
		return false
	}

	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if containsString(b, v) {
			return true
		}
	}
	return false
}
