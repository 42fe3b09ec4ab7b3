// Package savegame implements the persistence layer: point-in-time
// snapshots of inventory, stats, survivability, dialogue progress and
// container contents, an integrity-checked on-disk codec, and best-effort
// rehydration by catalog key.
package savegame

import (
	"errors"
	"time"

	"github.com/jwebster45206/ashfall/pkg/dialogue"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

var (
	// ErrIntegrity means the save payload failed its HMAC check: the file
	// is corrupt or tampered with, and nothing from it was applied.
	ErrIntegrity = errors.New("save file failed integrity check")

	// ErrNoSave means no save file exists. Not a failure; the caller
	// shows the "no save" state.
	ErrNoSave = errors.New("no save file")

	// ErrMalformed means the save payload could not be split or decoded.
	ErrMalformed = errors.New("save file is malformed")
)

// SlotRecord is one serialized slot: the item's catalog key and amount.
// An empty slot serializes as the zero record.
type SlotRecord struct {
	Item   string `json:"item,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

// ContainerRecord is one container's serialized contents, keyed by its
// persistent ID.
type ContainerRecord struct {
	ID    string       `json:"id"`
	Items []SlotRecord `json:"items"`
}

// Meta describes when and on what version a snapshot was taken.
type Meta struct {
	SavedAt  time.Time `json:"saved_at"`
	Playtime float64   `json:"playtime_seconds"`
	Version  string    `json:"version"`
}

// Player carries world position and survivability values.
type Player struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	HP     float64 `json:"hp"`
	Sanity float64 `json:"sanity"`
	Food   float64 `json:"food"`
	Water  float64 `json:"water"`
}

// Snapshot is the sole unit of persistence: an immutable point-in-time
// copy of everything a save file holds. It is created transiently at save
// time and consumed transiently at load time, never retained.
type Snapshot struct {
	Meta       Meta                `json:"meta"`
	Scene      string              `json:"scene,omitempty"`
	Player     Player              `json:"player"`
	Stats      []stats.Entry       `json:"stats"`
	Modules    [][]SlotRecord      `json:"modules"`
	Dialogue   []dialogue.Progress `json:"dialogue,omitempty"`
	Containers []ContainerRecord   `json:"containers,omitempty"`
}
