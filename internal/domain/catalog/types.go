package catalog

import (
	"github.com/WebThingsIO/addon-proxy/internal/domain/version"
)

// Addon is one catalog entry: an installable gateway extension and the
// package variants available for it. Addons are immutable once they are
// part of a published snapshot.
type Addon struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	HomepageURL string    `json:"homepage_url"`
	LicenseURL  string    `json:"license_url"`
	Type        string    `json:"type"`
	PrimaryType string    `json:"primary_type"`
	Packages    []Package `json:"packages"`
}

// Package is one installable artifact of an add-on for a specific
// architecture and runtime.
type Package struct {
	Architecture string         `json:"architecture"`
	Version      string         `json:"version"`
	URL          string         `json:"url"`
	Checksum     string         `json:"checksum"`
	Language     Language       `json:"language"`
	Gateway      *version.Range `json:"gateway,omitempty"`
	API          *APIRange      `json:"api,omitempty"`
	TestOnly     bool           `json:"test_only,omitempty"`
}

// Language names the scripting runtime a package targets and the runtime
// versions it supports. A versions entry of "any" matches every client.
type Language struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

// APIRange is the add-on API level range supported by a package. Only the
// oldest protocol generation keys compatibility off this; newer packages
// carry a Gateway version range instead.
type APIRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether the given API level falls within the range.
func (r APIRange) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}
