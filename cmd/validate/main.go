package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/ashfall/pkg/dialogue"
	"github.com/jwebster45206/ashfall/pkg/item"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <data-dir>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Expects <data-dir>/items/*.json and <data-dir>/dialogue/*.json\n")
		os.Exit(1)
	}

	dataDir := os.Args[1]
	validator := &DataValidator{}

	if err := validator.validateAll(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Game data is valid!")
}

type DataValidator struct {
	errors []string
}

func (v *DataValidator) validateAll(dataDir string) error {
	v.errors = nil

	catalog := v.validateItems(filepath.Join(dataDir, "items"))
	v.validateDialogue(filepath.Join(dataDir, "dialogue"), catalog)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

// validateItems strictly parses every item file and returns the catalog of
// the valid ones, so dialogue references can be cross-checked even when
// some items fail.
func (v *DataValidator) validateItems(dir string) *item.Catalog {
	files := v.listJSON(dir)
	defs := make([]*item.Definition, 0, len(files))

	for _, path := range files {
		base := filepath.Base(path)
		key := strings.TrimSuffix(base, ".json")
		if !item.ValidKey(key) {
			v.addError(fmt.Sprintf("item filename '%s' must be lowercase snake_case", base))
			continue
		}

		var def item.Definition
		if !v.decodeStrict(path, &def) {
			continue
		}
		if def.Key != "" && def.Key != key {
			v.addError(fmt.Sprintf("item file %s declares key '%s'; the filename is the key", base, def.Key))
		}
		def.Key = key

		if err := def.Validate(); err != nil {
			v.addError(fmt.Sprintf("item file %s: %v", base, err))
			continue
		}
		defs = append(defs, &def)
	}

	catalog, err := item.NewCatalog(defs)
	if err != nil {
		v.addError(err.Error())
		return nil
	}
	fmt.Printf("Validated %d item files (%d ok)\n", len(files), catalog.Len())
	return catalog
}

func (v *DataValidator) validateDialogue(dir string, catalog *item.Catalog) {
	files := v.listJSON(dir)
	nodes := make(map[string]*dialogue.Node, len(files))

	for _, path := range files {
		base := filepath.Base(path)
		key := strings.TrimSuffix(base, ".json")
		if !item.ValidKey(key) {
			v.addError(fmt.Sprintf("dialogue filename '%s' must be lowercase snake_case", base))
			continue
		}

		var node dialogue.Node
		if !v.decodeStrict(path, &node) {
			continue
		}
		node.Key = key

		if err := node.Validate(catalog); err != nil {
			v.addError(fmt.Sprintf("dialogue file %s: %v", base, err))
			continue
		}
		nodes[key] = &node
	}

	// Cross-check branch targets now that every node key is known.
	for key, node := range nodes {
		for i, ch := range node.Choices {
			for _, next := range []string{
				ch.Default.Next, ch.Success.Next, ch.Failure.Next,
				ch.Default.NextStarting, ch.Success.NextStarting, ch.Failure.NextStarting,
			} {
				if next == "" {
					continue
				}
				if _, ok := nodes[next]; !ok {
					v.addError(fmt.Sprintf("dialogue node '%s' choice %d references missing node '%s'", key, i, next))
				}
			}
		}
	}
	fmt.Printf("Validated %d dialogue files (%d ok)\n", len(files), len(nodes))
}

func (v *DataValidator) listJSON(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		v.addError(fmt.Sprintf("failed to read %s: %v", dir, err))
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files
}

// decodeStrict unmarshals with unknown fields disallowed, so typos in
// authored data surface here instead of silently dropping behavior.
func (v *DataValidator) decodeStrict(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		v.addError(fmt.Sprintf("failed to read %s: %v", filepath.Base(path), err))
		return false
	}
	if !json.Valid(data) {
		v.addError(fmt.Sprintf("file %s contains invalid JSON", filepath.Base(path)))
		return false
	}

	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		v.addError(fmt.Sprintf("file %s failed strict JSON unmarshaling: %v", filepath.Base(path), err))
		return false
	}
	return true
}

func (v *DataValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
