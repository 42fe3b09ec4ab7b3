package stats

// Comparison is the operator applied when gating on a stat value.
type Comparison string

const (
	CompareGreater        Comparison = "gt"
	CompareLess           Comparison = "lt"
	CompareEqual          Comparison = "eq"
	CompareGreaterOrEqual Comparison = "gte"
	CompareLessOrEqual    Comparison = "lte"
)

// Requirement gates an interaction on a single stat comparison.
type Requirement struct {
	Stat       StatType   `json:"stat"`
	Comparison Comparison `json:"comparison"`
	Amount     int        `json:"amount"`
}

// Met applies the comparison operator to the actual stat value.
// An unknown operator never passes.
func (r Requirement) Met(actual int) bool {
	switch r.Comparison {
	case CompareGreater:
		return actual > r.Amount
	case CompareLess:
		return actual < r.Amount
	case CompareEqual:
		return actual == r.Amount
	case CompareGreaterOrEqual:
		return actual >= r.Amount
	case CompareLessOrEqual:
		return actual <= r.Amount
	}
	return false
}

// ItemRequirement asks for a quantity of an item identified by catalog key.
type ItemRequirement struct {
	Item   string `json:"item"`
	Amount int    `json:"amount"`
}

// Counter reports how many units of an item are held. Satisfied by the
// inventory engine; kept as an interface so evaluation has no dependency
// on inventory internals.
type Counter interface {
	CountKey(item string) int
}

// RequirementSet is the full gate for a dialogue choice or interactable:
// every stat requirement and every item requirement must hold.
type RequirementSet struct {
	Stats []Requirement     `json:"stats,omitempty"`
	Items []ItemRequirement `json:"items,omitempty"`
}

// Empty reports whether the set gates on nothing.
func (rs RequirementSet) Empty() bool {
	return len(rs.Stats) == 0 && len(rs.Items) == 0
}

// AggregateItems sums item requirements by key, so a set naming the same
// item twice is checked against the combined total.
func (rs RequirementSet) AggregateItems() map[string]int {
	need := make(map[string]int)
	for _, ir := range rs.Items {
		if ir.Item == "" || ir.Amount <= 0 {
			continue
		}
		need[ir.Item] += ir.Amount
	}
	return need
}

// Met evaluates the whole set against the stat record and item counter.
// Evaluation has no side effects, so short-circuiting is safe.
func (rs RequirementSet) Met(record *Record, counter Counter) bool {
	for _, req := range rs.Stats {
		if !req.Met(record.Get(req.Stat)) {
			return false
		}
	}
	for item, amount := range rs.AggregateItems() {
		if counter == nil || counter.CountKey(item) < amount {
			return false
		}
	}
	return true
}
