// Package transfer models drag-and-drop as data: a source descriptor, a
// destination descriptor, and a requested amount. The presentation layer
// resolves a drop gesture to a concrete SlotRef (exact-slot resolution
// wins over module-area resolution) and hands the request here; the
// engine never hard-codes "move the whole stack".
package transfer

import (
	"github.com/jwebster45206/ashfall/pkg/container"
	"github.com/jwebster45206/ashfall/pkg/inventory"
)

// Kind distinguishes the two slot namespaces a transfer can touch.
type Kind string

const (
	KindInventory Kind = "inventory"
	KindContainer Kind = "container"
)

// AreaIndex as a destination index means "no exact slot": the drop landed
// on a module or container area and placement falls back to first-fit.
const AreaIndex = -1

// SlotRef names one end of a transfer.
type SlotRef struct {
	Kind      Kind
	Module    int // inventory module index (KindInventory only)
	Index     int // slot index, or AreaIndex for area drops
	Container *container.Container // KindContainer only
}

// Request is one drag-and-drop transfer. Amount <= 0 requests the full
// source stack; a split-modifier drag passes Amount 1.
type Request struct {
	Source SlotRef
	Dest   SlotRef
	Amount int
}

// Move executes a transfer request against the inventory and any involved
// container. It returns false and leaves all state unchanged when the
// request cannot be satisfied. Items are conserved on every path: partial
// absorption reduces the source by exactly the absorbed quantity, and
// displaced stacks travel back to the source slot.
func Move(inv *inventory.Inventory, req Request) bool {
	switch {
	case req.Source.Kind == KindInventory && req.Dest.Kind == KindInventory:
		return moveWithinInventory(inv, req)
	case req.Source.Kind == KindContainer && req.Dest.Kind == KindInventory:
		return moveFromContainer(inv, req)
	case req.Source.Kind == KindInventory && req.Dest.Kind == KindContainer:
		return moveToContainer(inv, req)
	}
	// Container-to-container drags never occur: only one container is
	// open at a time.
	return false
}

func moveWithinInventory(inv *inventory.Inventory, req Request) bool {
	src, ok := inv.Peek(req.Source.Module, req.Source.Index)
	if !ok {
		return false
	}
	amount := clampAmount(req.Amount, src.Amount)

	if req.Dest.Index == AreaIndex {
		// Area drop on another module is a no-op when it resolves to no
		// slot; the presentation layer already picked the nearest slot
		// when one was in range.
		return false
	}
	return inv.MoveOrMerge(req.Source.Module, req.Source.Index, req.Dest.Module, req.Dest.Index, amount)
}

func moveFromContainer(inv *inventory.Inventory, req Request) bool {
	c := req.Source.Container
	if c == nil {
		return false
	}
	src, ok := c.At(req.Source.Index)
	if !ok || src.Empty() {
		return false
	}
	amount := clampAmount(req.Amount, src.Amount)

	if req.Dest.Index == AreaIndex {
		return c.LootPartial(inv, req.Source.Index, amount)
	}

	// Swapping into an occupied incompatible slot is only allowed when
	// the whole container stack participates and fits in one slot;
	// otherwise the displaced stack would have nowhere safe to go.
	allowSwap := amount == src.Amount && amount <= src.Item.StackLimit()

	placed, displaced, ok := inv.PlaceIntoSlot(req.Dest.Module, req.Dest.Index, src.Item, amount, true, allowSwap)
	if !ok || placed <= 0 {
		return false
	}

	if !displaced.Empty() {
		// Full swap: the displaced inventory stack takes the container
		// stack's place.
		c.SwapAt(req.Source.Index, displaced)
		return true
	}
	c.RemoveAt(req.Source.Index, placed)
	return true
}

func moveToContainer(inv *inventory.Inventory, req Request) bool {
	c := req.Dest.Container
	if c == nil {
		return false
	}
	src, ok := inv.Peek(req.Source.Module, req.Source.Index)
	if !ok {
		return false
	}
	amount := clampAmount(req.Amount, src.Amount)

	if req.Dest.Index != AreaIndex {
		if dst, exists := c.At(req.Dest.Index); exists && !dst.Empty() && dst.Item != src.Item {
			// Swap against a concrete container stack: full source stack only.
			if amount != src.Amount {
				return false
			}
			taken := inv.RemoveFromSlot(req.Source.Module, req.Source.Index, amount)
			if taken <= 0 {
				return false
			}
			old, _ := c.SwapAt(req.Dest.Index, inventory.Stack{Item: src.Item, Amount: taken})
			if !old.Empty() {
				leftover := inv.Add(old.Item, old.Amount)
				if leftover > 0 {
					// Inventory cannot hold the displaced stack; undo.
					restored, _ := c.SwapAt(req.Dest.Index, inventory.Stack{Item: old.Item, Amount: old.Amount})
					inv.Remove(old.Item, old.Amount-leftover)
					inv.Add(restored.Item, restored.Amount)
					return false
				}
			}
			return true
		}
	}

	// Merge-or-append deposit; leftover returns to the inventory.
	taken := inv.RemoveFromSlot(req.Source.Module, req.Source.Index, amount)
	if taken <= 0 {
		return false
	}
	leftover := c.AddItemDirect(src.Item, taken)
	if leftover > 0 {
		inv.Add(src.Item, leftover)
	}
	return leftover < taken
}

func clampAmount(requested, max int) int {
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}
