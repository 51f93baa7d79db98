package gift

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TypeDef describes one gift type a character may add to the sheet.
type TypeDef struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog holds the known gift types in file order.
type Catalog struct {
	types []TypeDef
	byKey map[string]int
}

type catalogFile struct {
	Types []TypeDef `yaml:"gift_types"`
}

// NewCatalog builds a Catalog from defs.
//
// Precondition: every def has a non-empty unique Key.
// Postcondition: Returns a Catalog or an error naming the first bad entry.
func NewCatalog(defs []TypeDef) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]int, len(defs))}
	for _, d := range defs {
		if d.Key == "" {
			return nil, fmt.Errorf("gift type %q has no key", d.Name)
		}
		if d.Key == RiteType {
			return nil, fmt.Errorf("gift type key %q is reserved for rites", d.Key)
		}
		if _, dup := c.byKey[d.Key]; dup {
			return nil, fmt.Errorf("duplicate gift type %q", d.Key)
		}
		if d.Name == "" {
			d.Name = d.Key
		}
		c.byKey[d.Key] = len(c.types)
		c.types = append(c.types, d)
	}
	return c, nil
}

// LoadCatalog reads a gift type catalog from a YAML file with a top-level
// gift_types list.
//
// Precondition: path must be a readable file.
// Postcondition: Returns a non-nil Catalog or an error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gift catalog %q: %w", path, err)
	}
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing gift catalog %q: %w", path, err)
	}
	return NewCatalog(f.Types)
}

// Types returns the gift types in catalog order.
func (c *Catalog) Types() []TypeDef {
	out := make([]TypeDef, len(c.types))
	copy(out, c.types)
	return out
}

// Get returns the gift type with key.
func (c *Catalog) Get(key string) (TypeDef, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return TypeDef{}, false
	}
	return c.types[i], true
}
