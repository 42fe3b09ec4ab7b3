package inventory

import "github.com/jwebster45206/ashfall/pkg/stats"

// CanConsume reports whether every item requirement in the set can be
// satisfied. Duplicate entries for the same item are summed before
// checking, never checked independently.
func (inv *Inventory) CanConsume(reqs []stats.ItemRequirement) bool {
	need := stats.RequirementSet{Items: reqs}.AggregateItems()
	for key, amount := range need {
		if inv.CountKey(key) < amount {
			return false
		}
	}
	return true
}

// Consume removes every item requirement atomically: the set is fully
// validated first, and only then applied. Either all removals happen or
// none do.
func (inv *Inventory) Consume(reqs []stats.ItemRequirement) bool {
	if !inv.CanConsume(reqs) {
		return false
	}
	for key, amount := range (stats.RequirementSet{Items: reqs}).AggregateItems() {
		def, ok := inv.catalog.Get(key)
		if !ok {
			continue // CanConsume already rejected unknown keys with amount > 0
		}
		inv.Remove(def, amount)
	}
	inv.notify()
	return true
}

// Entry is an aggregated (item, total) pair across all slots.
type Entry struct {
	Item  string `json:"item"`
	Total int    `json:"total"`
}

// Entries returns aggregated totals per item key, for flat list UIs.
func (inv *Inventory) Entries() []Entry {
	totals := make(map[string]int)
	order := make([]string, 0)
	for _, m := range inv.modules {
		for i := range m.slots {
			st := m.slots[i].stack
			if st.Empty() {
				continue
			}
			if _, seen := totals[st.Item.Key]; !seen {
				order = append(order, st.Item.Key)
			}
			totals[st.Item.Key] += st.Amount
		}
	}
	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, Entry{Item: key, Total: totals[key]})
	}
	return entries
}
