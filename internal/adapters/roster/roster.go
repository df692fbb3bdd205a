// Package roster maps SDR display names to their team. The mapping is
// a hand-maintained YAML file; a default copy is compiled in and an
// external file can replace it via configuration.
package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/internal/domain/names"
	"gopkg.in/yaml.v3"
)

// ErrLoadRoster indicates the roster file could not be read or parsed.
var ErrLoadRoster = errors.New("failed to load roster")

//go:embed roster.yaml
var defaultRoster []byte

// entry is one roster line with the normalized name precomputed.
type entry struct {
	name       string
	normalized string
	team       string
}

// Roster resolves a person's team from a free-text name. Safe for
// concurrent use after Load.
type Roster struct {
	byNormalized map[string]string
	entries      []entry
}

// Load reads the roster from path, or from the embedded default when
// path is empty.
func Load(path string) (*Roster, error) {
	raw := defaultRoster
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
		}
	}

	var mapping map[string]string
	if err := yaml.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadRoster, err)
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrLoadRoster)
	}

	r := &Roster{
		byNormalized: make(map[string]string, len(mapping)),
		entries:      make([]entry, 0, len(mapping)),
	}
	for name, team := range mapping {
		r.byNormalized[names.Normalize(name)] = team
		r.entries = append(r.entries, entry{name: name, normalized: names.Normalize(name), team: team})
	}
	// Map iteration order is random; keep the fuzzy scan deterministic.
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].normalized < r.entries[j].normalized })
	return r, nil
}

// TeamFor returns the team for a name, trying a normalized exact lookup
// before falling back to a fuzzy scan. Unknown names map to "NA".
func (r *Roster) TeamFor(name string) string {
	if team, ok := r.byNormalized[names.Normalize(name)]; ok {
		return team
	}
	for _, e := range r.entries {
		if names.Match(name, e.name) {
			return e.team
		}
	}
	return model.TeamUnknown
}

// Len returns the number of roster entries.
func (r *Roster) Len() int { return len(r.entries) }
