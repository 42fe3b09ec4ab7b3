package item

import (
	"fmt"
	"regexp"

	"github.com/jwebster45206/ashfall/pkg/stats"
)

// Category groups items for UI filtering and validation.
type Category string

const (
	CategoryConsumable Category = "consumable"
	CategoryMaterial   Category = "material"
	CategoryKey        Category = "key"
	CategoryTool       Category = "tool"
	CategoryDocument   Category = "document"
)

// ConsumableTarget selects which attribute a consumable effect modifies.
type ConsumableTarget string

const (
	TargetHealth ConsumableTarget = "health"
	TargetSanity ConsumableTarget = "sanity"
	TargetStat   ConsumableTarget = "stat"
)

// ConsumableEffect is one attribute change applied when an item is consumed.
// Amount may be negative.
type ConsumableEffect struct {
	Target ConsumableTarget `json:"target"`
	Stat   stats.StatType   `json:"stat,omitempty"` // only when Target is "stat"
	Amount float64          `json:"amount"`
}

// Definition is an immutable item description addressed by a stable key.
// Definitions are authored as JSON data files and never mutated at runtime.
type Definition struct {
	Key         string             `json:"key"`
	DisplayName string             `json:"display_name"`
	Category    Category           `json:"category,omitempty"`
	Stackable   bool               `json:"stackable"`
	MaxStack    int                `json:"max_stack"`
	Consumable  bool               `json:"consumable,omitempty"`
	Effects     []ConsumableEffect `json:"effects,omitempty"`
}

// StackLimit returns the effective per-slot cap: MaxStack when stackable,
// otherwise always 1.
func (d *Definition) StackLimit() int {
	if !d.Stackable {
		return 1
	}
	if d.MaxStack < 1 {
		return 1
	}
	return d.MaxStack
}

var keyPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// ValidKey reports whether s is a well-formed snake_case item key.
func ValidKey(s string) bool {
	return keyPattern.MatchString(s)
}

// Validate checks a definition for authoring mistakes. Used by the catalog
// loader and by cmd/validate.
func (d *Definition) Validate() error {
	if !ValidKey(d.Key) {
		return fmt.Errorf("item key %q must be lowercase snake_case", d.Key)
	}
	if d.DisplayName == "" {
		return fmt.Errorf("item %q has no display_name", d.Key)
	}
	if d.Stackable && d.MaxStack < 1 {
		return fmt.Errorf("item %q is stackable but max_stack is %d", d.Key, d.MaxStack)
	}
	if !d.Consumable && len(d.Effects) > 0 {
		return fmt.Errorf("item %q has effects but is not consumable", d.Key)
	}
	for i, eff := range d.Effects {
		switch eff.Target {
		case TargetHealth, TargetSanity:
		case TargetStat:
			if !eff.Stat.IsValid() {
				return fmt.Errorf("item %q effect %d names unknown stat %q", d.Key, i, eff.Stat)
			}
		default:
			return fmt.Errorf("item %q effect %d has unknown target %q", d.Key, i, eff.Target)
		}
	}
	return nil
}
