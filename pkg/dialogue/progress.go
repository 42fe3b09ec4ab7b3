package dialogue

import "sort"

// Progress is the persisted dialogue state for one NPC: which node their
// conversation restarts from and which outcome flags have been raised.
type Progress struct {
	NPCID        int    `json:"npc_id"`
	NodeKey      string `json:"node_key,omitempty"`
	HasTalked    bool   `json:"has_talked,omitempty"`
	HasSucceeded bool   `json:"has_succeeded,omitempty"`
	HasFailed    bool   `json:"has_failed,omitempty"`
}

// Tracker holds dialogue progress per NPC numeric ID for the session.
type Tracker struct {
	byNPC map[int]*Progress
}

// NewTracker creates an empty progress tracker.
func NewTracker() *Tracker {
	return &Tracker{byNPC: make(map[int]*Progress)}
}

// Node returns the starting node key recorded for an NPC, or "" when the
// NPC has no recorded progress.
func (t *Tracker) Node(npcID int) string {
	if p, ok := t.byNPC[npcID]; ok {
		return p.NodeKey
	}
	return ""
}

// SetNode records the node an NPC's conversation restarts from.
func (t *Tracker) SetNode(npcID int, nodeKey string) {
	if nodeKey == "" {
		return
	}
	t.get(npcID).NodeKey = nodeKey
}

// Get returns the progress record for an NPC, or nil when none exists.
func (t *Tracker) Get(npcID int) *Progress {
	return t.byNPC[npcID]
}

func (t *Tracker) get(npcID int) *Progress {
	p, ok := t.byNPC[npcID]
	if !ok {
		p = &Progress{NPCID: npcID}
		t.byNPC[npcID] = p
	}
	return p
}

// MarkTalked raises the has-talked flag for an NPC.
func (t *Tracker) MarkTalked(npcID int) { t.get(npcID).HasTalked = true }

// MarkSucceeded raises the has-succeeded flag for an NPC.
func (t *Tracker) MarkSucceeded(npcID int) { t.get(npcID).HasSucceeded = true }

// MarkFailed raises the has-failed flag for an NPC.
func (t *Tracker) MarkFailed(npcID int) { t.get(npcID).HasFailed = true }

// Snapshot returns a point-in-time copy of all progress, ordered by NPC
// ID for stable serialization.
func (t *Tracker) Snapshot() []Progress {
	out := make([]Progress, 0, len(t.byNPC))
	for _, p := range t.byNPC {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NPCID < out[j].NPCID })
	return out
}

// Restore replaces all progress wholesale from a saved snapshot.
func (t *Tracker) Restore(records []Progress) {
	t.byNPC = make(map[int]*Progress, len(records))
	for _, p := range records {
		rec := p
		t.byNPC[p.NPCID] = &rec
	}
}

// Reset clears all progress. Used for new game.
func (t *Tracker) Reset() {
	t.byNPC = make(map[int]*Progress)
}
