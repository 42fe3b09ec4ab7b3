package dialogue

import (
	"log/slog"

	"github.com/jwebster45206/ashfall/pkg/inventory"
	"github.com/jwebster45206/ashfall/pkg/item"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

// BranchKind names which resolution a choice took.
type BranchKind string

const (
	BranchDefault BranchKind = "default"
	BranchSuccess BranchKind = "success"
	BranchFailure BranchKind = "failure"
)

// Outcome reports how a choice resolved and where the dialogue goes next.
// Next is nil when the branch ends the conversation.
type Outcome struct {
	Branch      BranchKind
	Next        *Node
	RaiseTalked bool
}

// Runner resolves dialogue choices against live game state. It is the
// only mutator of dialogue progress.
type Runner struct {
	catalog   *item.Catalog
	library   *Library
	inventory *inventory.Inventory
	record    *stats.Record
	survival  *stats.Survival
	tracker   *Tracker
	logger    *slog.Logger
}

// NewRunner wires a runner to the engines it rewards into.
func NewRunner(catalog *item.Catalog, library *Library, inv *inventory.Inventory,
	record *stats.Record, survival *stats.Survival, tracker *Tracker, logger *slog.Logger) *Runner {
	return &Runner{
		catalog:   catalog,
		library:   library,
		inventory: inv,
		record:    record,
		survival:  survival,
		tracker:   tracker,
		logger:    logger,
	}
}

// StartingNode returns the node an NPC's conversation opens at: recorded
// progress first, falling back to the given default key.
func (r *Runner) StartingNode(npcID int, defaultKey string) (*Node, bool) {
	if key := r.tracker.Node(npcID); key != "" {
		if node, ok := r.library.Get(key); ok {
			return node, true
		}
		r.logger.Warn("Recorded dialogue node missing from library",
			"npc_id", npcID, "node", r.tracker.Node(npcID))
	}
	return r.library.Get(defaultKey)
}

// Choose resolves choice choiceIdx of node for the given NPC. The decision
// is a pure function of requirement state at evaluation time:
// no requirements resolves Default, requirements met resolves Success
// (consuming item requirements atomically when the choice says so), and
// requirements not met resolves Failure. Exactly one branch's rewards are
// applied.
func (r *Runner) Choose(npcID int, node *Node, choiceIdx int) (Outcome, bool) {
	if node == nil || choiceIdx < 0 || choiceIdx >= len(node.Choices) {
		return Outcome{}, false
	}
	choice := &node.Choices[choiceIdx]

	var kind BranchKind
	var branch Branch
	switch {
	case choice.Requirements.Empty():
		kind, branch = BranchDefault, choice.Default
	case choice.Requirements.Met(r.record, r.inventory):
		kind, branch = BranchSuccess, choice.Success
		if choice.ConsumesOnSuccess() {
			if !r.inventory.Consume(choice.Requirements.Items) {
				// CanConsume was part of Met; reaching here means the
				// requirement set and inventory disagree. Fail closed.
				r.logger.Warn("Requirement consumption failed after passing evaluation",
					"node", node.Key, "choice", choiceIdx)
				kind, branch = BranchFailure, choice.Failure
			}
		}
	default:
		kind, branch = BranchFailure, choice.Failure
	}

	r.applyRewards(branch)

	switch kind {
	case BranchSuccess:
		r.tracker.MarkSucceeded(npcID)
	case BranchFailure:
		r.tracker.MarkFailed(npcID)
	}
	if branch.RaiseTalked {
		r.tracker.MarkTalked(npcID)
	}
	if branch.NextStarting != "" {
		r.tracker.SetNode(npcID, branch.NextStarting)
	}

	out := Outcome{Branch: kind, RaiseTalked: branch.RaiseTalked}
	if branch.Next != "" {
		next, ok := r.library.Get(branch.Next)
		if !ok {
			r.logger.Warn("Dialogue branch points at missing node",
				"node", node.Key, "choice", choiceIdx, "next", branch.Next)
		}
		out.Next = next
	}
	return out, true
}

func (r *Runner) applyRewards(branch Branch) {
	for _, reward := range branch.Rewards {
		switch reward.Type {
		case RewardStat:
			r.record.Increment(reward.Stat, int(reward.Amount))
		case RewardHealth:
			r.survival.Adjust(stats.SurvivalHP, reward.Amount)
		case RewardSanity:
			r.survival.Adjust(stats.SurvivalSanity, reward.Amount)
		}
	}
	for _, grant := range branch.ItemRewards {
		if grant.Amount <= 0 {
			continue
		}
		def, ok := r.catalog.Get(grant.Item)
		if !ok {
			r.logger.Warn("Dialogue grants unknown item", "item", grant.Item)
			continue
		}
		if leftover := r.inventory.Add(def, grant.Amount); leftover > 0 {
			r.logger.Warn("Inventory full, dialogue item reward truncated",
				"item", grant.Item, "lost", leftover)
		}
	}
}

// ConsumeItem applies a consumable item's effects and removes one unit.
// Returns false when the item is not consumable or not held.
func (r *Runner) ConsumeItem(def *item.Definition) bool {
	if def == nil || !def.Consumable {
		return false
	}
	if !r.inventory.Remove(def, 1) {
		return false
	}
	for _, eff := range def.Effects {
		switch eff.Target {
		case item.TargetHealth:
			r.survival.Adjust(stats.SurvivalHP, eff.Amount)
		case item.TargetSanity:
			r.survival.Adjust(stats.SurvivalSanity, eff.Amount)
		case item.TargetStat:
			r.record.Increment(eff.Stat, int(eff.Amount))
		}
	}
	return true
}
