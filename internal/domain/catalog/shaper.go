package catalog

// The wire shapes served to each gateway era. Legacy gateways expect one
// object per add-on with artifacts keyed by architecture; everything newer
// expects one object per matching package.

// LegacyAddon is the 0.6-era response shape.
type LegacyAddon struct {
	Name        string                    `json:"name"`
	DisplayName string                    `json:"display_name"`
	Description string                    `json:"description"`
	Author      string                    `json:"author"`
	Homepage    string                    `json:"homepage"`
	Packages    map[string]LegacyArtifact `json:"packages"`
	API         int                       `json:"api"`
}

// LegacyArtifact is one architecture's entry in a LegacyAddon.
type LegacyArtifact struct {
	Version  string `json:"version"`
	URL      string `json:"url"`
	Checksum string `json:"checksum"`
}

// MidAddon is the 0.7-0.9 era response shape, one per matching package.
type MidAddon struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Homepage    string `json:"homepage"`
	License     string `json:"license"`
	Version     string `json:"version"`
	URL         string `json:"url"`
	Checksum    string `json:"checksum"`
	Type        string `json:"type"`
}

// ModernAddon is the current response shape, one per matching package.
type ModernAddon struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	HomepageURL string `json:"homepage_url"`
	LicenseURL  string `json:"license_url"`
	Version     string `json:"version"`
	URL         string `json:"url"`
	Checksum    string `json:"checksum"`
	PrimaryType string `json:"primary_type"`
}

// The API level reported to legacy gateways when a package predates
// declared API ranges.
const fallbackAPILevel = 2

// Shape maps resolved matches into the response shape for the given era.
// Every era the resolver recognizes has exactly one shape. The result is
// never nil, so an empty catalog serializes as an empty JSON array.
func Shape(era Era, matches []Match) []any {
	out := make([]any, 0, len(matches))

	switch era {
	case EraLegacy:
		for _, m := range matches {
			out = append(out, shapeLegacy(m))
		}
	case EraMid:
		for _, m := range matches {
			for _, pkg := range m.Packages {
				out = append(out, MidAddon{
					Name:        m.Addon.ID,
					DisplayName: m.Addon.Name,
					Description: m.Addon.Description,
					Author:      m.Addon.Author,
					Homepage:    m.Addon.HomepageURL,
					License:     m.Addon.LicenseURL,
					Version:     pkg.Version,
					URL:         pkg.URL,
					Checksum:    pkg.Checksum,
					Type:        m.Addon.PrimaryType,
				})
			}
		}
	case EraModern:
		for _, m := range matches {
			for _, pkg := range m.Packages {
				out = append(out, ModernAddon{
					ID:          m.Addon.ID,
					Name:        m.Addon.Name,
					Description: m.Addon.Description,
					Author:      m.Addon.Author,
					HomepageURL: m.Addon.HomepageURL,
					LicenseURL:  m.Addon.LicenseURL,
					Version:     pkg.Version,
					URL:         pkg.URL,
					Checksum:    pkg.Checksum,
					PrimaryType: m.Addon.PrimaryType,
				})
			}
		}
	}

	return out
}

func shapeLegacy(m Match) LegacyAddon {
	packages := make(map[string]LegacyArtifact, len(m.Packages))
	api := fallbackAPILevel
	for i, pkg := range m.Packages {
		if i == 0 && pkg.API != nil {
			api = pkg.API.Max
		}
		packages[pkg.Architecture] = LegacyArtifact{
			Version:  pkg.Version,
			URL:      pkg.URL,
			Checksum: pkg.Checksum,
		}
	}

	return LegacyAddon{
		Name:        m.Addon.ID,
		DisplayName: m.Addon.Name,
		Description: m.Addon.Description,
		Author:      m.Addon.Author,
		Homepage:    m.Addon.HomepageURL,
		Packages:    packages,
		API:         api,
	}
}
