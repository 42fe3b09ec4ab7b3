package dialogue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/ashfall/pkg/item"
)

// Library is the read-only registry of dialogue nodes, addressed by key.
// Saved dialogue progress records node keys; loads resolve them back here.
type Library struct {
	nodes map[string]*Node
}

// LoadLibrary reads every *.json file under dir as one dialogue node,
// keyed by filename. Malformed files are logged and skipped.
func LoadLibrary(dir string, catalog *item.Catalog, logger *slog.Logger) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue directory: %w", err)
	}

	lib := &Library{nodes: make(map[string]*Node)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read dialogue file", "path", path, "error", err)
			continue
		}

		var node Node
		if err := json.Unmarshal(data, &node); err != nil {
			logger.Warn("Failed to unmarshal dialogue file", "path", path, "error", err)
			continue
		}
		node.Key = strings.TrimSuffix(entry.Name(), ".json")

		if err := node.Validate(catalog); err != nil {
			logger.Warn("Invalid dialogue node", "path", path, "error", err)
			continue
		}
		lib.nodes[node.Key] = &node
	}

	// Dangling next-node references are authoring errors worth surfacing
	// at load time, not at click time.
	for _, node := range lib.nodes {
		for i, ch := range node.Choices {
			for _, next := range []string{ch.Default.Next, ch.Success.Next, ch.Failure.Next,
				ch.Default.NextStarting, ch.Success.NextStarting, ch.Failure.NextStarting} {
				if next != "" {
					if _, ok := lib.nodes[next]; !ok {
						logger.Warn("Dialogue node references missing node",
							"node", node.Key, "choice", i, "missing", next)
					}
				}
			}
		}
	}
	return lib, nil
}

// NewLibrary builds a library from nodes already in memory.
func NewLibrary(nodes []*Node) (*Library, error) {
	lib := &Library{nodes: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		if _, exists := lib.nodes[n.Key]; exists {
			return nil, fmt.Errorf("duplicate dialogue node key %q", n.Key)
		}
		lib.nodes[n.Key] = n
	}
	return lib, nil
}

// Get resolves a node key.
func (l *Library) Get(key string) (*Node, bool) {
	n, ok := l.nodes[key]
	return n, ok
}

// Keys returns all node keys in sorted order.
func (l *Library) Keys() []string {
	keys := make([]string, 0, len(l.nodes))
	for k := range l.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
