package savegame

import (
	"log/slog"
	"time"

	"github.com/jwebster45206/ashfall/pkg/container"
	"github.com/jwebster45206/ashfall/pkg/dialogue"
	"github.com/jwebster45206/ashfall/pkg/inventory"
	"github.com/jwebster45206/ashfall/pkg/item"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

// World groups the engine references a snapshot is captured from and
// applied to. All fields are required except Containers, which may be
// empty for scenes without chests.
type World struct {
	Catalog    *item.Catalog
	Library    *dialogue.Library
	Inventory  *inventory.Inventory
	Stats      *stats.Record
	Survival   *stats.Survival
	Dialogue   *dialogue.Tracker
	Containers []*container.Container

	Scene   string
	PlayerX float64
	PlayerY float64
}

// Capture builds a point-in-time snapshot. Nothing in the returned value
// aliases live engine state, so later mutations cannot corrupt a save
// that is still being written.
func Capture(w *World, playtime float64, version string) *Snapshot {
	snap := &Snapshot{
		Meta: Meta{
			SavedAt:  time.Now(),
			Playtime: playtime,
			Version:  version,
		},
		Scene: w.Scene,
		Player: Player{
			X:      w.PlayerX,
			Y:      w.PlayerY,
			HP:     w.Survival.Get(stats.SurvivalHP),
			Sanity: w.Survival.Get(stats.SurvivalSanity),
			Food:   w.Survival.Get(stats.SurvivalFood),
			Water:  w.Survival.Get(stats.SurvivalWater),
		},
		Stats:    w.Stats.Entries(),
		Dialogue: w.Dialogue.Snapshot(),
	}

	for _, mod := range w.Inventory.Modules() {
		records := make([]SlotRecord, mod.Capacity())
		for i := 0; i < mod.Capacity(); i++ {
			st := mod.Slot(i).Stack()
			if st.Empty() {
				continue
			}
			records[i] = SlotRecord{Item: st.Item.Key, Amount: st.Amount}
		}
		snap.Modules = append(snap.Modules, records)
	}

	for _, c := range w.Containers {
		rec := ContainerRecord{ID: c.ID}
		for _, st := range c.Stacks() {
			if st.Empty() {
				continue
			}
			rec.Items = append(rec.Items, SlotRecord{Item: st.Item.Key, Amount: st.Amount})
		}
		snap.Containers = append(snap.Containers, rec)
	}

	return snap
}

// Apply pushes a snapshot back into the engines. Restoration is
// best-effort: unknown item keys zero out their slot with a warning,
// unknown dialogue nodes are skipped with a warning, and neither aborts
// the load. Stats and survivability are restored wholesale.
func Apply(snap *Snapshot, w *World, logger *slog.Logger) {
	w.Survival.Set(stats.SurvivalHP, snap.Player.HP)
	w.Survival.Set(stats.SurvivalSanity, snap.Player.Sanity)
	w.Survival.Set(stats.SurvivalFood, snap.Player.Food)
	w.Survival.Set(stats.SurvivalWater, snap.Player.Water)
	w.PlayerX = snap.Player.X
	w.PlayerY = snap.Player.Y
	w.Scene = snap.Scene

	w.Stats.Load(snap.Stats)

	w.Inventory.Reset()
	for m, records := range snap.Modules {
		mod := w.Inventory.Module(m)
		if mod == nil {
			logger.Warn("Saved module has no target in current layout", "module", m)
			break
		}
		for s, rec := range records {
			if rec.Item == "" {
				continue
			}
			def, ok := w.Catalog.Get(rec.Item)
			if !ok {
				logger.Warn("Unknown item in save, slot zeroed", "item", rec.Item, "module", m, "slot", s)
				continue
			}
			if !w.Inventory.RestoreSlot(m, s, def, rec.Amount) {
				logger.Warn("Saved slot out of range", "module", m, "slot", s)
			}
		}
	}
	w.Inventory.ForceRefresh()

	byID := make(map[string]*container.Container, len(w.Containers))
	for _, c := range w.Containers {
		byID[c.ID] = c
	}
	for _, rec := range snap.Containers {
		c, ok := byID[rec.ID]
		if !ok {
			logger.Warn("Saved container not present in scene", "container_id", rec.ID)
			continue
		}
		stacks := make([]inventory.Stack, 0, len(rec.Items))
		for _, slot := range rec.Items {
			def, ok := w.Catalog.Get(slot.Item)
			if !ok {
				logger.Warn("Unknown item in saved container, stack dropped",
					"item", slot.Item, "container_id", rec.ID)
				continue
			}
			stacks = append(stacks, inventory.Stack{Item: def, Amount: slot.Amount})
		}
		c.Restore(stacks)
	}

	restored := make([]dialogue.Progress, 0, len(snap.Dialogue))
	for _, p := range snap.Dialogue {
		if p.NodeKey != "" {
			if _, ok := w.Library.Get(p.NodeKey); !ok {
				logger.Warn("Unknown dialogue node in save, progress skipped",
					"npc_id", p.NPCID, "node", p.NodeKey)
				continue
			}
		}
		restored = append(restored, p)
	}
	w.Dialogue.Restore(restored)
}
