// Package locations holds the configured set of regional sites inventory is partitioned by.
package locations

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/inventario-backend/pkg/config"
)

// Location is one configured site.
type Location struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Registry resolves raw path values to configured locations.
type Registry struct {
	ordered []Location
	byCode  map[string]Location
}

// NewRegistry builds a registry from configuration, preserving the configured order.
func NewRegistry(cfg config.LocationsConfig) (*Registry, error) {
	labels := make(map[string]string, len(cfg.Labels))
	for code, label := range cfg.Labels {
		labels[Normalize(code)] = strings.TrimSpace(label)
	}

	r := &Registry{byCode: make(map[string]Location, len(cfg.Codes))}
	for _, raw := range cfg.Codes {
		code := Normalize(raw)
		if code == "" {
			return nil, fmt.Errorf("empty location code")
		}
		if _, dup := r.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate location %q", code)
		}
		label := labels[code]
		if label == "" {
			label = code
		}
		loc := Location{Code: code, Label: label}
		r.ordered = append(r.ordered, loc)
		r.byCode[code] = loc
	}
	if len(r.ordered) == 0 {
		return nil, fmt.Errorf("at least one location is required")
	}
	return r, nil
}

// Normalize trims and upper-cases a location code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Lookup returns the configured location matching raw, ignoring case.
func (r *Registry) Lookup(raw string) (Location, bool) {
	loc, ok := r.byCode[Normalize(raw)]
	return loc, ok
}

// Contains reports whether raw names a configured location.
func (r *Registry) Contains(raw string) bool {
	_, ok := r.Lookup(raw)
	return ok
}

// All returns the configured locations in order.
func (r *Registry) All() []Location {
	out := make([]Location, len(r.ordered))
	copy(out, r.ordered)
	return out
}
