package dialogue

import (
	"fmt"

	"github.com/jwebster45206/ashfall/pkg/item"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

// RewardType selects what a dialogue reward modifies.
type RewardType string

const (
	RewardStat   RewardType = "stat"
	RewardHealth RewardType = "health"
	RewardSanity RewardType = "sanity"
)

// Reward is one attribute change granted by a dialogue branch.
type Reward struct {
	Type   RewardType     `json:"type"`
	Stat   stats.StatType `json:"stat,omitempty"` // only when Type is "stat"
	Amount float64        `json:"amount"`
}

// ItemGrant is an item quantity granted by a dialogue branch.
type ItemGrant struct {
	Item   string `json:"item"`
	Amount int    `json:"amount"`
}

// Branch is one of a choice's three possible resolutions: the next node to
// show, the rewards granted, and the node the NPC restarts from next time.
type Branch struct {
	Next         string      `json:"next,omitempty"`
	Rewards      []Reward    `json:"rewards,omitempty"`
	ItemRewards  []ItemGrant `json:"item_rewards,omitempty"`
	NextStarting string      `json:"next_starting,omitempty"`
	RaiseTalked  bool        `json:"raise_talked,omitempty"`
}

// Choice is one selectable line of player dialogue. A choice without
// requirements always resolves to Default; a gated choice resolves to
// Success or Failure depending on the requirement set at evaluation time.
type Choice struct {
	PlayerText string `json:"player_text"`

	Default Branch `json:"default,omitempty"`

	Requirements     stats.RequirementSet `json:"requirements,omitempty"`
	ConsumeOnSuccess *bool                `json:"consume_on_success,omitempty"` // nil means true

	Success Branch `json:"success,omitempty"`
	Failure Branch `json:"failure,omitempty"`
}

// ConsumesOnSuccess reports whether item requirements are consumed when
// the success branch is taken. Defaults to true when unset.
func (c *Choice) ConsumesOnSuccess() bool {
	return c.ConsumeOnSuccess == nil || *c.ConsumeOnSuccess
}

// Node is one screen of NPC dialogue, addressed by a stable key.
type Node struct {
	Key     string   `json:"key"`
	NPCName string   `json:"npc_name"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

// Validate checks a node for authoring mistakes. Catalog may be nil when
// item references cannot be checked (the loader logs and continues).
func (n *Node) Validate(catalog *item.Catalog) error {
	if !item.ValidKey(n.Key) {
		return fmt.Errorf("node key %q must be lowercase snake_case", n.Key)
	}
	for i, ch := range n.Choices {
		if ch.PlayerText == "" {
			return fmt.Errorf("node %q choice %d has no player_text", n.Key, i)
		}
		for _, req := range ch.Requirements.Stats {
			if !req.Stat.IsValid() {
				return fmt.Errorf("node %q choice %d requires unknown stat %q", n.Key, i, req.Stat)
			}
		}
		if catalog == nil {
			continue
		}
		for _, ir := range ch.Requirements.Items {
			if _, ok := catalog.Get(ir.Item); !ok {
				return fmt.Errorf("node %q choice %d requires unknown item %q", n.Key, i, ir.Item)
			}
		}
		for _, branch := range []Branch{ch.Default, ch.Success, ch.Failure} {
			for _, grant := range branch.ItemRewards {
				if _, ok := catalog.Get(grant.Item); !ok {
					return fmt.Errorf("node %q choice %d grants unknown item %q", n.Key, i, grant.Item)
				}
			}
		}
	}
	return nil
}
