package savegame

import (
	"context"
	"log/slog"
	"sync"
)

// Store is the persistence backend a Saver writes through. Implemented by
// internal/storage; kept as an interface here so the engine core has no
// dependency on the backing medium.
type Store interface {
	WriteSave(ctx context.Context, name string, data []byte) error
	ReadSave(ctx context.Context, name string) ([]byte, bool, error)
	WriteThumbnail(ctx context.Context, name string, data []byte) error
	DeleteSave(ctx context.Context, name string) error
}

// Saver orchestrates save and load: playtime accumulation, synchronous
// snapshot capture, and deferred disk I/O. The snapshot is always captured
// before any asynchronous work begins, so mutations that happen during
// the write cannot corrupt the file. A save in progress is not
// cancellable mid-write; the store's atomic rename guarantees no partial
// file either way.
type Saver struct {
	store    Store
	key      []byte
	baseName string
	version  string
	logger   *slog.Logger

	mu       sync.Mutex
	playtime float64
	pending  sync.WaitGroup
}

// NewSaver creates a saver writing under baseName through the store.
func NewSaver(store Store, key []byte, baseName, version string, logger *slog.Logger) *Saver {
	return &Saver{
		store:    store,
		key:      key,
		baseName: baseName,
		version:  version,
		logger:   logger,
	}
}

// BaseName returns the save slot name this saver writes under.
func (sv *Saver) BaseName() string {
	return sv.baseName
}

// AddPlaytime accumulates elapsed play seconds.
func (sv *Saver) AddPlaytime(seconds float64) {
	sv.mu.Lock()
	sv.playtime += seconds
	sv.mu.Unlock()
}

// Playtime returns the accumulated play seconds.
func (sv *Saver) Playtime() float64 {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.playtime
}

// ResetSession clears playtime for a new game.
func (sv *Saver) ResetSession() {
	sv.mu.Lock()
	sv.playtime = 0
	sv.mu.Unlock()
}

// Save captures the world synchronously, then encodes and writes in the
// background. The optional thumbnail is written independently of the save
// payload and is not covered by the integrity wrapper. The returned
// channel yields the write result once; fire-and-forget callers may
// ignore it.
func (sv *Saver) Save(ctx context.Context, w *World, thumbnail []byte) <-chan error {
	snap := Capture(w, sv.Playtime(), sv.version)

	done := make(chan error, 1)
	sv.pending.Add(1)
	go func() {
		defer sv.pending.Done()

		data, err := Encode(snap, sv.key)
		if err != nil {
			sv.logger.Error("Failed to encode snapshot", "error", err)
			done <- err
			return
		}
		if err := sv.store.WriteSave(ctx, sv.baseName, data); err != nil {
			sv.logger.Error("Failed to write save", "name", sv.baseName, "error", err)
			done <- err
			return
		}
		if len(thumbnail) > 0 {
			if err := sv.store.WriteThumbnail(ctx, sv.baseName, thumbnail); err != nil {
				// Thumbnail loss never fails the save.
				sv.logger.Warn("Failed to write thumbnail", "name", sv.baseName, "error", err)
			}
		}
		sv.logger.Info("Game saved", "name", sv.baseName, "playtime", snap.Meta.Playtime)
		done <- nil
	}()
	return done
}

// Wait blocks until all in-flight saves have finished. Called on
// shutdown.
func (sv *Saver) Wait() {
	sv.pending.Wait()
}

// Load reads, verifies and applies the save under the saver's base name.
// Missing file returns ErrNoSave; a failed integrity check returns
// ErrIntegrity and leaves all engine state untouched.
func (sv *Saver) Load(ctx context.Context, w *World) error {
	data, found, err := sv.store.ReadSave(ctx, sv.baseName)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoSave
	}

	snap, err := Decode(data, sv.key)
	if err != nil {
		return err
	}

	Apply(snap, w, sv.logger)
	sv.mu.Lock()
	sv.playtime = snap.Meta.Playtime
	sv.mu.Unlock()
	sv.logger.Info("Game loaded", "name", sv.baseName, "saved_at", snap.Meta.SavedAt)
	return nil
}

// Delete removes the save file and its thumbnail.
func (sv *Saver) Delete(ctx context.Context) error {
	return sv.store.DeleteSave(ctx, sv.baseName)
}
