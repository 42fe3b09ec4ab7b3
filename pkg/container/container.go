// Package container implements world-placed storage (chests): a dynamic,
// capacity-bounded list of item stacks that interoperates with the player
// inventory through loot and deposit operations.
//
// The conservation invariant governs every operation here: a transfer may
// never create or destroy items, and overflow is always returned to the
// origin, never discarded.
package container

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/ashfall/pkg/inventory"
	"github.com/jwebster45206/ashfall/pkg/item"
)

// DefaultCapacity is the distinct-stack cap used when none is configured.
const DefaultCapacity = 6

// Container is one chest. The ID is assigned once and persisted with the
// save file; contents are a continuous stack list, not a slot grid.
type Container struct {
	ID       string
	Name     string
	Capacity int

	contents  []inventory.Stack
	observers []func()
}

// New creates a container with a fresh persistent ID.
func New(name string, capacity int) *Container {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Container{
		ID:       uuid.NewString(),
		Name:     name,
		Capacity: capacity,
	}
}

// Subscribe registers a callback invoked once per mutating operation.
func (c *Container) Subscribe(fn func()) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

func (c *Container) notify() {
	for _, fn := range c.observers {
		fn()
	}
}

// Stacks returns a copy of the contents.
func (c *Container) Stacks() []inventory.Stack {
	out := make([]inventory.Stack, len(c.contents))
	copy(out, c.contents)
	return out
}

// Len returns the number of distinct stacks held.
func (c *Container) Len() int {
	return len(c.contents)
}

// At returns the stack at index i.
func (c *Container) At(i int) (inventory.Stack, bool) {
	if i < 0 || i >= len(c.contents) {
		return inventory.Stack{}, false
	}
	return c.contents[i], true
}

// Count sums the held amount of an item across all stacks.
func (c *Container) Count(def *item.Definition) int {
	total := 0
	for _, st := range c.contents {
		if st.Item == def {
			total += st.Amount
		}
	}
	return total
}

// LootOne moves the stack at index into the inventory. When the inventory
// cannot absorb everything, the container keeps exactly the leftover; loot
// into a full inventory is a clean no-op for that stack.
func (c *Container) LootOne(inv *inventory.Inventory, index int) {
	if index < 0 || index >= len(c.contents) {
		return
	}
	st := c.contents[index]
	if st.Empty() {
		return
	}

	leftover := inv.Add(st.Item, st.Amount)
	switch {
	case leftover == 0:
		c.contents = append(c.contents[:index], c.contents[index+1:]...)
	case leftover < st.Amount:
		c.contents[index].Amount = leftover
	default:
		return // nothing absorbed, nothing changed
	}
	c.notify()
}

// LootPartial moves up to amount units from the stack at index into the
// inventory. Returns true when at least one unit moved.
func (c *Container) LootPartial(inv *inventory.Inventory, index, amount int) bool {
	if index < 0 || index >= len(c.contents) {
		return false
	}
	st := c.contents[index]
	if st.Empty() {
		return false
	}

	want := amount
	if want < 1 {
		want = 1
	}
	if want > st.Amount {
		want = st.Amount
	}

	leftover := inv.Add(st.Item, want)
	taken := want - leftover
	if taken <= 0 {
		return false
	}

	c.contents[index].Amount -= taken
	if c.contents[index].Amount <= 0 {
		c.contents = append(c.contents[:index], c.contents[index+1:]...)
	}
	c.notify()
	return true
}

// LootAll loots every stack, applying the per-stack leftover rule; stacks
// the inventory cannot absorb stay in the container. Iterates back to
// front so removals do not shift pending indices.
func (c *Container) LootAll(inv *inventory.Inventory) {
	if len(c.contents) == 0 {
		return
	}
	for i := len(c.contents) - 1; i >= 0; i-- {
		c.LootOne(inv, i)
	}
	c.notify()
}

// AddItemDirect deposits units into the container: merge into matching
// stacks up to the item's stack limit first, then open new stacks up to
// Capacity. Returns the unplaceable leftover; the caller must return it
// to the source.
func (c *Container) AddItemDirect(def *item.Definition, amount int) int {
	if def == nil || amount <= 0 {
		return amount
	}
	remaining := amount
	limit := def.StackLimit()

	if def.Stackable {
		for i := range c.contents {
			if c.contents[i].Item != def {
				continue
			}
			space := limit - c.contents[i].Amount
			if space <= 0 {
				continue
			}
			add := remaining
			if add > space {
				add = space
			}
			c.contents[i].Amount += add
			remaining -= add
			if remaining == 0 {
				c.notify()
				return 0
			}
		}
	}

	for remaining > 0 && len(c.contents) < c.Capacity {
		put := limit
		if put > remaining {
			put = remaining
		}
		c.contents = append(c.contents, inventory.Stack{Item: def, Amount: put})
		remaining -= put
	}

	c.notify()
	return remaining
}

// DepositFromInventory moves units from the inventory into the container.
// Whatever the container cannot hold is added straight back, so the total
// across both sides is conserved.
func (c *Container) DepositFromInventory(inv *inventory.Inventory, def *item.Definition, amount int) bool {
	if def == nil || amount <= 0 {
		return false
	}
	if !inv.Remove(def, amount) {
		return false
	}
	leftover := c.AddItemDirect(def, amount)
	if leftover > 0 {
		inv.Add(def, leftover)
	}
	return leftover < amount
}

// RemoveAt takes up to amount units out of the stack at index.
func (c *Container) RemoveAt(index, amount int) bool {
	if index < 0 || index >= len(c.contents) {
		return false
	}
	st := c.contents[index]
	if st.Empty() || amount <= 0 {
		return false
	}

	take := amount
	if take > st.Amount {
		take = st.Amount
	}
	c.contents[index].Amount -= take
	if c.contents[index].Amount <= 0 {
		c.contents = append(c.contents[:index], c.contents[index+1:]...)
	}
	c.notify()
	return true
}

// SwapAt replaces the stack at index with a new one, returning the old
// stack to the caller. Used by slot-to-container swap transfers.
func (c *Container) SwapAt(index int, st inventory.Stack) (inventory.Stack, bool) {
	if index < 0 || index >= len(c.contents) || st.Empty() {
		return inventory.Stack{}, false
	}
	old := c.contents[index]
	c.contents[index] = st
	c.notify()
	return old, true
}

// Restore replaces the contents wholesale during snapshot application.
func (c *Container) Restore(stacks []inventory.Stack) {
	c.contents = c.contents[:0]
	for _, st := range stacks {
		if st.Empty() {
			continue
		}
		c.contents = append(c.contents, st)
	}
	c.notify()
}
