package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/ashfall/internal/config"
	"github.com/jwebster45206/ashfall/internal/events"
	"github.com/jwebster45206/ashfall/internal/logger"
	"github.com/jwebster45206/ashfall/internal/storage"
	"github.com/jwebster45206/ashfall/pkg/container"
	"github.com/jwebster45206/ashfall/pkg/dialogue"
	"github.com/jwebster45206/ashfall/pkg/inventory"
	"github.com/jwebster45206/ashfall/pkg/item"
	"github.com/jwebster45206/ashfall/pkg/savegame"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

func main() {
	cfg := config.Load()

	// The TUI owns the terminal, so logs go to a file next to the saves.
	log, logFile, err := logger.ToFile(cfg, filepath.Join(cfg.SaveDir, "console.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close()
	}()

	catalog, err := item.LoadCatalog(filepath.Join(cfg.DataDir, "items"), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load item catalog: %v\n", err)
		os.Exit(1)
	}
	library, err := dialogue.LoadLibrary(filepath.Join(cfg.DataDir, "dialogue"), catalog, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dialogue library: %v\n", err)
		os.Exit(1)
	}

	inv := inventory.New(catalog, []inventory.ModuleSpec{
		{Name: "belt", Rows: 1, Cols: 4},
		{Name: "backpack", Rows: 3, Cols: 4},
	})
	record := stats.NewRecord(1)
	survival := stats.NewSurvival(nil)
	tracker := dialogue.NewTracker()
	runner := dialogue.NewRunner(catalog, library, inv, record, survival, tracker, log)

	chest := container.New("Supply Crate", container.DefaultCapacity)
	stockChest(chest, catalog)

	world := &savegame.World{
		Catalog:    catalog,
		Library:    library,
		Inventory:  inv,
		Stats:      record,
		Survival:   survival,
		Dialogue:   tracker,
		Containers: []*container.Container{chest},
		Scene:      "village",
	}

	store, err := buildStorage(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up save storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	key := savegame.DeriveKey(cfg.SaveSecret, cfg.DeviceID)
	saver := savegame.NewSaver(store, key, cfg.SaveBaseName, cfg.GameVersion, log)
	defer saver.Wait()

	var bcast *events.Broadcaster
	if cfg.RedisURL != "" {
		bcast = wireBroadcaster(cfg, world, chest, log)
	}

	p := tea.NewProgram(NewConsoleUI(world, runner, saver, chest, bcast, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func buildStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	fs, err := storage.NewFileStorage(cfg.SaveDir, logger)
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" {
		return fs, nil
	}

	rs := storage.NewRedisStorage(cfg.RedisURL, 0, logger)
	if err := rs.Ping(context.Background()); err != nil {
		logger.Warn("Redis unavailable, saving to files only", "error", err)
		return fs, nil
	}
	return storage.NewMirrorStorage(fs, rs, logger), nil
}

// wireBroadcaster connects engine observers to the Redis event channel so
// out-of-process tooling can follow the session.
func wireBroadcaster(cfg *config.Config, world *savegame.World, chest *container.Container, logger *slog.Logger) *events.Broadcaster {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unavailable, event broadcasting disabled", "error", err)
		return nil
	}

	sessionID := uuid.NewString()
	b := events.NewBroadcaster(client, sessionID, logger)
	logger.Info("Event broadcasting enabled", "channel", events.Channel(sessionID))

	world.Inventory.Subscribe(func() {
		_ = b.PublishInventoryChanged(context.Background())
	})
	chest.Subscribe(func() {
		_ = b.PublishContainerChanged(context.Background(), chest.ID)
	})
	world.Stats.Subscribe(func(stat stats.StatType, value int) {
		_ = b.PublishStatChanged(context.Background(), string(stat), value)
	})
	return b
}

// stockChest fills the demo crate with whatever stock items exist in the
// loaded catalog; missing keys are simply skipped.
func stockChest(chest *container.Container, catalog *item.Catalog) {
	for _, stock := range []struct {
		key    string
		amount int
	}{
		{"firewood", 5},
		{"dried_meat", 3},
		{"bandage", 2},
	} {
		if def, ok := catalog.Get(stock.key); ok {
			chest.AddItemDirect(def, stock.amount)
		}
	}
}
