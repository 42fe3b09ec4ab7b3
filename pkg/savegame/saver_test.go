package savegame

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/ashfall/pkg/container"
	"github.com/jwebster45206/ashfall/pkg/dialogue"
	"github.com/jwebster45206/ashfall/pkg/inventory"
	"github.com/jwebster45206/ashfall/pkg/item"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubStore is an in-memory Store for saver tests.
type stubStore struct {
	mu         sync.Mutex
	saves      map[string][]byte
	thumbnails map[string][]byte
	writeErr   error
}

func newStubStore() *stubStore {
	return &stubStore{
		saves:      make(map[string][]byte),
		thumbnails: make(map[string][]byte),
	}
}

func (s *stubStore) WriteSave(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.saves[name] = append([]byte(nil), data...)
	return nil
}

func (s *stubStore) ReadSave(ctx context.Context, name string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saves[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *stubStore) WriteThumbnail(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thumbnails[name] = append([]byte(nil), data...)
	return nil
}

func (s *stubStore) DeleteSave(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saves, name)
	delete(s.thumbnails, name)
	return nil
}

func testWorld(t *testing.T) (*World, *item.Definition) {
	t.Helper()
	potion := &item.Definition{Key: "potion", DisplayName: "Potion", Stackable: true, MaxStack: 10}
	catalog, err := item.NewCatalog([]*item.Definition{potion})
	require.NoError(t, err)
	library, err := dialogue.NewLibrary([]*dialogue.Node{{Key: "gate_open", Text: "Open."}})
	require.NoError(t, err)

	chest := container.New("crate", 6)
	chest.AddItemDirect(potion, 4)

	w := &World{
		Catalog:    catalog,
		Library:    library,
		Inventory:  inventory.New(catalog, []inventory.ModuleSpec{{Name: "pockets", Rows: 1, Cols: 4}}),
		Stats:      stats.NewRecord(1),
		Survival:   stats.NewSurvival(nil),
		Dialogue:   dialogue.NewTracker(),
		Containers: []*container.Container{chest},
		Scene:      "village",
		PlayerX:    3,
		PlayerY:    -2,
	}
	return w, potion
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStubStore()
	key := DeriveKey("secret", "device-1")
	sv := NewSaver(store, key, "slot1", "0.3.0", testLogger())
	sv.AddPlaytime(90)

	w, potion := testWorld(t)
	w.Inventory.Add(potion, 7)
	w.Stats.Set(stats.StatKnowledge, 5)
	w.Survival.Set(stats.SurvivalFood, 33)
	w.Dialogue.SetNode(3, "gate_open")
	w.Dialogue.MarkTalked(3)

	err := <-sv.Save(context.Background(), w, []byte("png-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, store.thumbnails["slot1"])

	// Mutate after saving, then load back.
	w.Inventory.Remove(potion, 7)
	w.Stats.Set(stats.StatKnowledge, 0)
	w.Survival.Set(stats.SurvivalFood, 100)
	w.Containers[0].Restore(nil)
	w.Dialogue.Reset()
	sv.AddPlaytime(50)

	require.NoError(t, sv.Load(context.Background(), w))
	assert.Equal(t, 7, w.Inventory.Count(potion))
	assert.Equal(t, 5, w.Stats.Get(stats.StatKnowledge))
	assert.InDelta(t, 33, w.Survival.Get(stats.SurvivalFood), 1e-6)
	assert.Equal(t, 4, w.Containers[0].Count(potion))
	assert.Equal(t, "gate_open", w.Dialogue.Node(3))
	assert.Equal(t, "village", w.Scene)
	assert.InDelta(t, 3, w.PlayerX, 1e-6)
	assert.InDelta(t, 90, sv.Playtime(), 1e-6, "playtime restored from the save, not the session")
}

func TestSave_CapturesBeforeAsyncWrite(t *testing.T) {
	store := newStubStore()
	key := DeriveKey("secret", "device-1")
	sv := NewSaver(store, key, "slot1", "0.3.0", testLogger())

	w, potion := testWorld(t)
	w.Inventory.Add(potion, 5)

	done := sv.Save(context.Background(), w, nil)
	// Mutations racing the background write must not leak into the file.
	w.Inventory.Add(potion, 5)
	require.NoError(t, <-done)

	fresh, freshPotion := testWorld(t)
	require.NoError(t, sv.Load(context.Background(), fresh))
	assert.Equal(t, 5, fresh.Inventory.Count(freshPotion))
}

func TestLoad_NoSave(t *testing.T) {
	sv := NewSaver(newStubStore(), DeriveKey("secret", "d"), "slot1", "0.3.0", testLogger())
	w, _ := testWorld(t)
	assert.ErrorIs(t, sv.Load(context.Background(), w), ErrNoSave)
}

func TestLoad_TamperedSaveLeavesStateUntouched(t *testing.T) {
	store := newStubStore()
	key := DeriveKey("secret", "device-1")
	sv := NewSaver(store, key, "slot1", "0.3.0", testLogger())

	w, potion := testWorld(t)
	w.Inventory.Add(potion, 5)
	require.NoError(t, <-sv.Save(context.Background(), w, nil))

	store.mu.Lock()
	store.saves["slot1"][1] ^= 0x01
	store.mu.Unlock()

	w.Inventory.Add(potion, 2)
	err := sv.Load(context.Background(), w)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.Equal(t, 7, w.Inventory.Count(potion), "failed load applies nothing")
}

func TestSave_WriteFailureReported(t *testing.T) {
	store := newStubStore()
	store.writeErr = errors.New("disk full")
	sv := NewSaver(store, DeriveKey("secret", "d"), "slot1", "0.3.0", testLogger())

	w, _ := testWorld(t)
	err := <-sv.Save(context.Background(), w, nil)
	assert.ErrorContains(t, err, "disk full")
}

func TestDelete(t *testing.T) {
	store := newStubStore()
	sv := NewSaver(store, DeriveKey("secret", "d"), "slot1", "0.3.0", testLogger())

	w, _ := testWorld(t)
	require.NoError(t, <-sv.Save(context.Background(), w, []byte("png")))
	require.NoError(t, sv.Delete(context.Background()))
	assert.ErrorIs(t, sv.Load(context.Background(), w), ErrNoSave)
}

func TestResetSession(t *testing.T) {
	sv := NewSaver(newStubStore(), DeriveKey("secret", "d"), "slot1", "0.3.0", testLogger())
	sv.AddPlaytime(12)
	sv.ResetSession()
	assert.InDelta(t, 0, sv.Playtime(), 1e-6)
}
