// Package modifier aggregates situational bonuses that apply to dice pools.
package modifier

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bonus is a situational modifier, loaded from YAML.
//
// A bonus applies to a roll when any of its Paths appears in the roll's
// selector set and ActiveWhen, if set, evaluates truthy for the actor.
type Bonus struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Value      int      `yaml:"value"`
	Paths      []string `yaml:"paths"`
	ActiveWhen string   `yaml:"active_when"`
}

// Matches reports whether any of b's paths is in selectors.
func (b *Bonus) Matches(selectors map[string]bool) bool {
	for _, p := range b.Paths {
		if selectors[p] {
			return true
		}
	}
	return false
}

// Registry holds all known Bonuses keyed by ID.
type Registry struct {
	defs map[string]*Bonus
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Bonus)}
}

// Register adds b to the registry, overwriting any existing entry with the same ID.
//
// Precondition: b must not be nil and b.ID must not be empty.
func (r *Registry) Register(b *Bonus) {
	r.defs[b.ID] = b
}

// Get returns the Bonus for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Bonus, bool) {
	b, ok := r.defs[id]
	return b, ok
}

// All returns a snapshot of all registered Bonuses ordered by ID.
func (r *Registry) All() []*Bonus {
	out := make([]*Bonus, 0, len(r.defs))
	for _, b := range r.defs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type bonusFile struct {
	Modifiers []*Bonus `yaml:"modifiers"`
}

// LoadDirectory reads every *.yaml file in dir, parses each as a list of
// Bonuses under a top-level "modifiers" key, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or defines a bonus without an ID or paths.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading modifier dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f bonusFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, b := range f.Modifiers {
			if b.ID == "" {
				return nil, fmt.Errorf("%q: modifier %q has no id", path, b.Name)
			}
			if len(b.Paths) == 0 {
				return nil, fmt.Errorf("%q: modifier %q has no paths", path, b.ID)
			}
			reg.Register(b)
		}
	}
	return reg, nil
}
