package stats

import "sort"

// StatType identifies one of the character's trainable statistics.
type StatType string

const (
	StatKnowledge    StatType = "knowledge"
	StatLogic        StatType = "logic"
	StatPerception   StatType = "perception"
	StatDexterity    StatType = "dexterity"
	StatRobustness   StatType = "robustness"
	StatVigor        StatType = "vigor"
	StatCoaxing      StatType = "coaxing"
	StatIntimidation StatType = "intimidation"
	StatTrickery     StatType = "trickery"
)

// AllStats returns every stat type in display order.
func AllStats() []StatType {
	return []StatType{
		StatKnowledge,
		StatLogic,
		StatPerception,
		StatDexterity,
		StatRobustness,
		StatVigor,
		StatCoaxing,
		StatIntimidation,
		StatTrickery,
	}
}

// IsValid reports whether t names a known stat.
func (t StatType) IsValid() bool {
	for _, s := range AllStats() {
		if s == t {
			return true
		}
	}
	return false
}

// Entry is one serializable stat value.
type Entry struct {
	Stat  StatType `json:"stat"`
	Value int      `json:"value"`
}

// Record holds the character's stat values. Construct with NewRecord;
// the zero value is not usable.
type Record struct {
	values    map[StatType]int
	observers []func(StatType, int)
}

// NewRecord creates a record with every stat at the starting value.
func NewRecord(startingValue int) *Record {
	r := &Record{values: make(map[StatType]int, len(AllStats()))}
	for _, s := range AllStats() {
		r.values[s] = startingValue
	}
	return r
}

// Subscribe registers a callback invoked after every stat change.
func (r *Record) Subscribe(fn func(stat StatType, value int)) {
	if fn != nil {
		r.observers = append(r.observers, fn)
	}
}

func (r *Record) notify(stat StatType, value int) {
	for _, fn := range r.observers {
		fn(stat, value)
	}
}

// Get returns the current value for a stat. Unknown stats read as 0.
func (r *Record) Get(stat StatType) int {
	return r.values[stat]
}

// Set overwrites a stat value and notifies observers.
func (r *Record) Set(stat StatType, value int) {
	r.values[stat] = value
	r.notify(stat, value)
}

// Increment adjusts a stat by delta, flooring at zero.
func (r *Record) Increment(stat StatType, delta int) {
	v := r.values[stat] + delta
	if v < 0 {
		v = 0
	}
	r.Set(stat, v)
}

// Entries returns a point-in-time copy of all stat values, ordered for
// stable serialization.
func (r *Record) Entries() []Entry {
	entries := make([]Entry, 0, len(r.values))
	for stat, value := range r.values {
		entries = append(entries, Entry{Stat: stat, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Stat < entries[j].Stat })
	return entries
}

// Load replaces all stat values wholesale from a saved snapshot.
// Entries naming unknown stats are kept; readers simply never ask for them.
func (r *Record) Load(entries []Entry) {
	r.values = make(map[StatType]int, len(entries))
	for _, e := range entries {
		r.values[e.Stat] = e.Value
	}
	for stat, value := range r.values {
		r.notify(stat, value)
	}
}

// Reset returns every stat to the starting value.
func (r *Record) Reset(startingValue int) {
	for _, s := range AllStats() {
		r.Set(s, startingValue)
	}
}
