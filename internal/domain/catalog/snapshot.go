package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"
)

// Snapshot is an immutable, fully-materialized view of the catalog as of
// one refresh cycle. Addons are ordered by ID so that resolution output is
// stable across identical requests.
type Snapshot struct {
	addons     []Addon
	byID       map[string]int
	capturedAt time.Time
}

// BuildSnapshot constructs a snapshot from raw upstream records. Records
// that fail to decode or fail shape validation are skipped individually;
// one error per skipped record is returned alongside the snapshot so the
// caller can log them. Construction never fails as a whole.
func BuildSnapshot(raw []json.RawMessage) (*Snapshot, []error) {
	addons := make([]Addon, 0, len(raw))
	var errs []error

	for i, rec := range raw {
		var addon Addon
		if err := sonic.Unmarshal(rec, &addon); err != nil {
			errs = append(errs, fmt.Errorf("record %d: malformed entry: %w", i, err))
			continue
		}
		if err := validate(&addon); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		addons = append(addons, addon)
	}

	sort.Slice(addons, func(i, j int) bool {
		return addons[i].ID < addons[j].ID
	})

	byID := make(map[string]int, len(addons))
	for i := range addons {
		byID[addons[i].ID] = i
	}

	return &Snapshot{
		addons:     addons,
		byID:       byID,
		capturedAt: time.Now(),
	}, errs
}

// validate applies shape validation to a decoded record. Valid addons with
// some invalid packages keep their valid packages.
func validate(addon *Addon) error {
	if addon.ID == "" {
		return fmt.Errorf("missing id")
	}
	if addon.Name == "" {
		return fmt.Errorf("addon %q: missing name", addon.ID)
	}

	kept := addon.Packages[:0]
	for _, pkg := range addon.Packages {
		if pkg.Architecture == "" || pkg.Version == "" || pkg.URL == "" {
			continue
		}
		kept = append(kept, pkg)
	}
	addon.Packages = kept

	return nil
}

// Addons returns the snapshot's entries in ID order. Callers must not
// mutate the returned slice.
func (s *Snapshot) Addons() []Addon {
	return s.addons
}

// Find returns the addon with the given ID.
func (s *Snapshot) Find(id string) (*Addon, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.addons[i], true
}

// Len returns the number of addons in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.addons)
}

// CapturedAt returns the time the snapshot was constructed.
func (s *Snapshot) CapturedAt() time.Time {
	return s.capturedAt
}
