package item

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog is the read-only registry of item definitions, addressed by key.
// It fills the role the asset database played in the original game: saved
// slots record keys, and loads resolve them back through the catalog.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog builds a catalog from definitions already in memory.
// Definitions with invalid keys are rejected.
func NewCatalog(defs []*Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.defs[d.Key]; exists {
			return nil, fmt.Errorf("duplicate item key %q", d.Key)
		}
		c.defs[d.Key] = d
	}
	return c, nil
}

// LoadCatalog reads every *.json file under dir as one item definition.
// The filename (without extension) overrides any key in the JSON, matching
// how scenario files are keyed by filename. Malformed files are logged and
// skipped rather than aborting the whole load.
func LoadCatalog(dir string, logger *slog.Logger) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read item directory: %w", err)
	}

	c := &Catalog{defs: make(map[string]*Definition)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read item file", "path", path, "error", err)
			continue
		}

		var def Definition
		if err := json.Unmarshal(data, &def); err != nil {
			logger.Warn("Failed to unmarshal item file", "path", path, "error", err)
			continue
		}
		def.Key = strings.TrimSuffix(entry.Name(), ".json")

		if err := def.Validate(); err != nil {
			logger.Warn("Invalid item definition", "path", path, "error", err)
			continue
		}
		c.defs[def.Key] = &def
	}
	return c, nil
}

// Get resolves an item key to its definition.
func (c *Catalog) Get(key string) (*Definition, bool) {
	d, ok := c.defs[key]
	return d, ok
}

// Keys returns all item keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.defs))
	for k := range c.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.defs)
}
