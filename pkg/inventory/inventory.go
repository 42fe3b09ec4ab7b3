// Package inventory implements the player's slotted, multi-module inventory:
// stacking, placement, removal, and the slot-to-slot move/merge/swap rules.
//
// All operations are synchronous and mutate in place; callers on the main
// simulation loop get one change notification per batch operation. Invalid
// arguments (nil item, bad indices, non-positive amounts) are caller bugs
// and no-op rather than propagate errors.
package inventory

import (
	"github.com/jwebster45206/ashfall/pkg/item"
)

// Stack is a quantity of one item occupying a slot. A Stack with a nil
// Item or non-positive Amount never persists in a slot; the slot is
// cleared instead.
type Stack struct {
	Item   *item.Definition
	Amount int
}

// Empty reports whether the stack holds nothing.
func (s Stack) Empty() bool {
	return s.Item == nil || s.Amount <= 0
}

// Slot holds at most one stack. Slot indices are stable for the module's
// lifetime; slots are never reordered.
type Slot struct {
	stack Stack
}

// Stack returns the slot contents. Empty slots return the zero Stack.
func (s *Slot) Stack() Stack {
	return s.stack
}

func (s *Slot) clear() {
	s.stack = Stack{}
}

func (s *Slot) set(def *item.Definition, amount int) {
	if def == nil || amount <= 0 {
		s.clear()
		return
	}
	s.stack = Stack{Item: def, Amount: amount}
}

// Module is a named fixed-capacity run of slots (a "pocket").
type Module struct {
	Name  string
	slots []Slot
}

// Capacity returns the fixed slot count.
func (m *Module) Capacity() int {
	return len(m.slots)
}

// Slot returns the slot at index i, or nil when out of range.
func (m *Module) Slot(i int) *Slot {
	if i < 0 || i >= len(m.slots) {
		return nil
	}
	return &m.slots[i]
}

// ModuleSpec declares one module at inventory construction time.
type ModuleSpec struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// Inventory owns an ordered list of modules. Construct one per game
// session and pass it by reference; there is no package-level instance.
type Inventory struct {
	modules   []*Module
	specs     []ModuleSpec
	observers []func()
	catalog   *item.Catalog
}

// New creates an inventory with the given module layout. The catalog is
// used to resolve keys in CountKey and during snapshot restore.
func New(catalog *item.Catalog, specs []ModuleSpec) *Inventory {
	inv := &Inventory{catalog: catalog, specs: specs}
	inv.initModules()
	return inv
}

func (inv *Inventory) initModules() {
	inv.modules = inv.modules[:0]
	for _, spec := range inv.specs {
		capacity := spec.Rows * spec.Cols
		if capacity < 0 {
			capacity = 0
		}
		inv.modules = append(inv.modules, &Module{
			Name:  spec.Name,
			slots: make([]Slot, capacity),
		})
	}
}

// Reset empties every slot, keeping the module layout. Used for new game.
func (inv *Inventory) Reset() {
	inv.initModules()
	inv.notify()
}

// Subscribe registers a callback invoked once per mutating operation.
func (inv *Inventory) Subscribe(fn func()) {
	if fn != nil {
		inv.observers = append(inv.observers, fn)
	}
}

func (inv *Inventory) notify() {
	for _, fn := range inv.observers {
		fn()
	}
}

// Modules returns the ordered module list.
func (inv *Inventory) Modules() []*Module {
	return inv.modules
}

// Module returns the module at index i, or nil when out of range.
func (inv *Inventory) Module(i int) *Module {
	if i < 0 || i >= len(inv.modules) {
		return nil
	}
	return inv.modules[i]
}

// Count sums the held amount of an item across all slots.
func (inv *Inventory) Count(def *item.Definition) int {
	if def == nil {
		return 0
	}
	total := 0
	for _, m := range inv.modules {
		for i := range m.slots {
			if m.slots[i].stack.Item == def {
				total += m.slots[i].stack.Amount
			}
		}
	}
	return total
}

// CountKey sums the held amount of an item by catalog key. Implements
// stats.Counter for requirement evaluation.
func (inv *Inventory) CountKey(key string) int {
	if inv.catalog == nil {
		return 0
	}
	def, ok := inv.catalog.Get(key)
	if !ok {
		return 0
	}
	return inv.Count(def)
}

// Has reports whether at least amount units of the item are held.
func (inv *Inventory) Has(def *item.Definition, amount int) bool {
	if amount < 1 {
		amount = 1
	}
	return inv.Count(def) >= amount
}

// Add places amount units into the inventory: compatible non-full stacks
// first, in module then slot order, then empty slots. Returns the leftover
// that could not be placed. Raises one change notification per call.
func (inv *Inventory) Add(def *item.Definition, amount int) int {
	if def == nil || amount <= 0 {
		return amount
	}
	left := amount
	limit := def.StackLimit()

	// Top up existing stacks.
	if def.Stackable {
		for _, m := range inv.modules {
			for i := range m.slots {
				if left == 0 {
					break
				}
				s := &m.slots[i]
				if s.stack.Item == def && s.stack.Amount < limit {
					can := limit - s.stack.Amount
					if can > left {
						can = left
					}
					s.stack.Amount += can
					left -= can
				}
			}
		}
	}

	// Then open new stacks in empty slots.
	for _, m := range inv.modules {
		for i := range m.slots {
			if left == 0 {
				break
			}
			s := &m.slots[i]
			if s.stack.Empty() {
				put := limit
				if put > left {
					put = left
				}
				s.set(def, put)
				left -= put
			}
		}
	}

	inv.notify()
	return left
}

// Remove takes amount units out of the inventory, scanning in order.
// All-or-nothing: when the total held is insufficient, nothing changes
// and false is returned.
func (inv *Inventory) Remove(def *item.Definition, amount int) bool {
	if def == nil || amount <= 0 {
		return false
	}
	if inv.Count(def) < amount {
		return false
	}

	need := amount
	for _, m := range inv.modules {
		for i := range m.slots {
			if need == 0 {
				break
			}
			s := &m.slots[i]
			if s.stack.Item != def {
				continue
			}
			take := s.stack.Amount
			if take > need {
				take = need
			}
			s.stack.Amount -= take
			need -= take
			if s.stack.Amount <= 0 {
				s.clear()
			}
		}
	}

	inv.notify()
	return true
}

// MoveOrMerge transfers between two inventory slots with the standard
// precedence: place into an empty destination, merge into a matching
// stackable destination (partial merges keep the remainder at the source),
// or swap with an incompatible destination.
//
// Swap policy: a swap only happens when the requested amount covers the
// entire source stack. Moving a partial amount onto an incompatible stack
// is refused, so no units are ever silently re-deposited elsewhere.
func (inv *Inventory) MoveOrMerge(fromModule, fromSlot, toModule, toSlot, amount int) bool {
	srcM, dstM := inv.Module(fromModule), inv.Module(toModule)
	if srcM == nil || dstM == nil {
		return false
	}
	src, dst := srcM.Slot(fromSlot), dstM.Slot(toSlot)
	if src == nil || dst == nil || src == dst {
		return false
	}
	if src.stack.Empty() {
		return false
	}

	move := amount
	if move < 1 {
		move = 1
	}
	if move > src.stack.Amount {
		move = src.stack.Amount
	}

	switch {
	case dst.stack.Empty():
		dst.set(src.stack.Item, move)
		src.stack.Amount -= move
		if src.stack.Amount <= 0 {
			src.clear()
		}

	case dst.stack.Item == src.stack.Item && src.stack.Item.Stackable:
		can := src.stack.Item.StackLimit() - dst.stack.Amount
		if can > move {
			can = move
		}
		if can <= 0 {
			return false
		}
		dst.stack.Amount += can
		src.stack.Amount -= can
		if src.stack.Amount <= 0 {
			src.clear()
		}

	default:
		// Incompatible destination: full-stack swap only.
		if move != src.stack.Amount {
			return false
		}
		src.stack, dst.stack = dst.stack, src.stack
	}

	inv.notify()
	return true
}

// PlaceIntoSlot places an external stack (one not currently held in any
// inventory slot, e.g. dragged out of a container) into a specific slot.
// It returns how many units were placed and, when a swap occurred, the
// stack that was displaced; the caller must return both the unplaced
// remainder and any displaced stack to the origin so nothing is lost.
func (inv *Inventory) PlaceIntoSlot(module, slot int, def *item.Definition, amount int, allowMerge, allowSwap bool) (placed int, displaced Stack, ok bool) {
	m := inv.Module(module)
	if m == nil || def == nil || amount <= 0 {
		return 0, Stack{}, false
	}
	dst := m.Slot(slot)
	if dst == nil {
		return 0, Stack{}, false
	}
	limit := def.StackLimit()

	if dst.stack.Empty() {
		put := limit
		if put > amount {
			put = amount
		}
		dst.set(def, put)
		inv.notify()
		return put, Stack{}, true
	}

	if allowMerge && dst.stack.Item == def && def.Stackable {
		can := limit - dst.stack.Amount
		if can <= 0 {
			return 0, Stack{}, false
		}
		if can > amount {
			can = amount
		}
		dst.stack.Amount += can
		inv.notify()
		return can, Stack{}, true
	}

	if allowSwap {
		displaced = dst.stack
		put := limit
		if put > amount {
			put = amount
		}
		dst.set(def, put)
		inv.notify()
		return put, displaced, true
	}

	return 0, Stack{}, false
}

// RemoveFromSlot takes up to amount units out of one specific slot and
// returns how many were actually removed.
func (inv *Inventory) RemoveFromSlot(module, slot, amount int) int {
	m := inv.Module(module)
	if m == nil || amount <= 0 {
		return 0
	}
	s := m.Slot(slot)
	if s == nil || s.stack.Empty() {
		return 0
	}

	take := amount
	if take > s.stack.Amount {
		take = s.stack.Amount
	}
	s.stack.Amount -= take
	if s.stack.Amount <= 0 {
		s.clear()
	}
	inv.notify()
	return take
}

// Peek returns the stack at a slot without mutating it.
func (inv *Inventory) Peek(module, slot int) (Stack, bool) {
	m := inv.Module(module)
	if m == nil {
		return Stack{}, false
	}
	s := m.Slot(slot)
	if s == nil || s.stack.Empty() {
		return Stack{}, false
	}
	return s.stack, true
}

// RestoreSlot overwrites one slot during snapshot application. Unlike
// PlaceIntoSlot it performs no merge/swap logic and no notification;
// callers notify once after the full restore.
func (inv *Inventory) RestoreSlot(module, slot int, def *item.Definition, amount int) bool {
	m := inv.Module(module)
	if m == nil {
		return false
	}
	s := m.Slot(slot)
	if s == nil {
		return false
	}
	s.set(def, amount)
	return true
}

// ForceRefresh raises a change notification without mutating anything.
// Used after bulk restores.
func (inv *Inventory) ForceRefresh() {
	inv.notify()
}
