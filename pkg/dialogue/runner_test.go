package dialogue

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/ashfall/pkg/inventory"
	"github.com/jwebster45206/ashfall/pkg/item"
	"github.com/jwebster45206/ashfall/pkg/stats"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type runnerFixture struct {
	runner    *Runner
	inventory *inventory.Inventory
	record    *stats.Record
	survival  *stats.Survival
	tracker   *Tracker
	rope      *item.Definition
	tea       *item.Definition
}

func newRunnerFixture(t *testing.T, nodes []*Node) *runnerFixture {
	t.Helper()
	rope := &item.Definition{Key: "rope", DisplayName: "Rope", Stackable: true, MaxStack: 5}
	tea := &item.Definition{
		Key: "herb_tea", DisplayName: "Herb Tea", Stackable: true, MaxStack: 5,
		Consumable: true,
		Effects: []item.ConsumableEffect{
			{Target: item.TargetHealth, Amount: 10},
			{Target: item.TargetStat, Stat: stats.StatVigor, Amount: 1},
		},
	}
	catalog, err := item.NewCatalog([]*item.Definition{rope, tea})
	require.NoError(t, err)
	library, err := NewLibrary(nodes)
	require.NoError(t, err)

	inv := inventory.New(catalog, []inventory.ModuleSpec{{Name: "pockets", Rows: 1, Cols: 4}})
	record := stats.NewRecord(0)
	survival := stats.NewSurvival(nil)
	tracker := NewTracker()

	return &runnerFixture{
		runner:    NewRunner(catalog, library, inv, record, survival, tracker, testLogger()),
		inventory: inv,
		record:    record,
		survival:  survival,
		tracker:   tracker,
		rope:      rope,
		tea:       tea,
	}
}

func gateNode() *Node {
	return &Node{
		Key:     "guard_gate",
		NPCName: "Gate Guard",
		Text:    "The guard eyes you.",
		Choices: []Choice{
			{
				PlayerText: "I know the old signal.",
				Requirements: stats.RequirementSet{
					Stats: []stats.Requirement{
						{Stat: stats.StatKnowledge, Comparison: stats.CompareGreaterOrEqual, Amount: 5},
					},
				},
				Success: Branch{
					Next:    "guard_gate_open",
					Rewards: []Reward{{Type: RewardStat, Stat: stats.StatKnowledge, Amount: 1}},
				},
				Failure: Branch{
					Rewards:     []Reward{{Type: RewardSanity, Amount: -5}},
					RaiseTalked: true,
				},
			},
			{
				PlayerText: "Just passing through.",
				Default: Branch{
					Next:         "guard_gate_small_talk",
					NextStarting: "guard_gate_small_talk",
				},
			},
		},
	}
}

func TestChoose_SuccessWhenRequirementMet(t *testing.T) {
	node := gateNode()
	next := &Node{Key: "guard_gate_open", Text: "He waves you in."}
	f := newRunnerFixture(t, []*Node{node, next})
	f.record.Set(stats.StatKnowledge, 5)

	out, ok := f.runner.Choose(7, node, 0)
	require.True(t, ok)
	assert.Equal(t, BranchSuccess, out.Branch)
	require.NotNil(t, out.Next)
	assert.Equal(t, "guard_gate_open", out.Next.Key)

	assert.Equal(t, 6, f.record.Get(stats.StatKnowledge), "success reward applied")
	assert.InDelta(t, 100, f.survival.Get(stats.SurvivalSanity), 1e-6, "failure rewards untouched")
	require.NotNil(t, f.tracker.Get(7))
	assert.True(t, f.tracker.Get(7).HasSucceeded)
	assert.False(t, f.tracker.Get(7).HasFailed)
}

func TestChoose_FailureWhenRequirementUnmet(t *testing.T) {
	node := gateNode()
	f := newRunnerFixture(t, []*Node{node})
	f.record.Set(stats.StatKnowledge, 3)

	out, ok := f.runner.Choose(7, node, 0)
	require.True(t, ok)
	assert.Equal(t, BranchFailure, out.Branch)
	assert.Nil(t, out.Next, "failure branch ends the conversation")
	assert.True(t, out.RaiseTalked)

	assert.Equal(t, 3, f.record.Get(stats.StatKnowledge), "success rewards untouched")
	assert.InDelta(t, 95, f.survival.Get(stats.SurvivalSanity), 1e-6, "failure reward applied")
	assert.True(t, f.tracker.Get(7).HasFailed)
	assert.True(t, f.tracker.Get(7).HasTalked)
}

func TestChoose_DefaultBranchSetsNextStarting(t *testing.T) {
	node := gateNode()
	small := &Node{Key: "guard_gate_small_talk", Text: "Weather's been grim."}
	f := newRunnerFixture(t, []*Node{node, small})

	out, ok := f.runner.Choose(7, node, 1)
	require.True(t, ok)
	assert.Equal(t, BranchDefault, out.Branch)
	require.NotNil(t, out.Next)
	assert.Equal(t, "guard_gate_small_talk", out.Next.Key)
	assert.Equal(t, "guard_gate_small_talk", f.tracker.Node(7))

	start, ok := f.runner.StartingNode(7, "guard_gate")
	require.True(t, ok)
	assert.Equal(t, "guard_gate_small_talk", start.Key, "next conversation opens at the recorded node")
}

func TestChoose_ItemRequirementConsumedOnSuccess(t *testing.T) {
	node := &Node{
		Key:  "ferryman",
		Text: "Two rope, and I'll take you across.",
		Choices: []Choice{{
			PlayerText: "Here you go.",
			Requirements: stats.RequirementSet{
				Items: []stats.ItemRequirement{{Item: "rope", Amount: 2}},
			},
			Success: Branch{ItemRewards: []ItemGrant{{Item: "herb_tea", Amount: 1}}},
		}},
	}
	f := newRunnerFixture(t, []*Node{node})
	f.inventory.Add(f.rope, 3)

	out, ok := f.runner.Choose(2, node, 0)
	require.True(t, ok)
	assert.Equal(t, BranchSuccess, out.Branch)
	assert.Equal(t, 1, f.inventory.Count(f.rope), "requirement consumed")
	assert.Equal(t, 1, f.inventory.Count(f.tea), "item reward granted")
}

func TestChoose_ConsumeOnSuccessFalseKeepsItems(t *testing.T) {
	noConsume := false
	node := &Node{
		Key:  "collector",
		Text: "Show me the rope. Just show me.",
		Choices: []Choice{{
			PlayerText: "Look.",
			Requirements: stats.RequirementSet{
				Items: []stats.ItemRequirement{{Item: "rope", Amount: 2}},
			},
			ConsumeOnSuccess: &noConsume,
			Success:          Branch{},
		}},
	}
	f := newRunnerFixture(t, []*Node{node})
	f.inventory.Add(f.rope, 3)

	out, ok := f.runner.Choose(2, node, 0)
	require.True(t, ok)
	assert.Equal(t, BranchSuccess, out.Branch)
	assert.Equal(t, 3, f.inventory.Count(f.rope), "show-only gate keeps the items")
}

func TestChoose_InvalidArgs(t *testing.T) {
	node := gateNode()
	f := newRunnerFixture(t, []*Node{node})

	_, ok := f.runner.Choose(1, nil, 0)
	assert.False(t, ok)
	_, ok = f.runner.Choose(1, node, -1)
	assert.False(t, ok)
	_, ok = f.runner.Choose(1, node, len(node.Choices))
	assert.False(t, ok)
}

func TestStartingNode_FallsBackWhenRecordedNodeMissing(t *testing.T) {
	node := gateNode()
	f := newRunnerFixture(t, []*Node{node})
	f.tracker.SetNode(7, "deleted_node")

	start, ok := f.runner.StartingNode(7, "guard_gate")
	require.True(t, ok)
	assert.Equal(t, "guard_gate", start.Key)
}

func TestConsumeItem(t *testing.T) {
	f := newRunnerFixture(t, nil)
	f.inventory.Add(f.tea, 2)
	f.survival.Set(stats.SurvivalHP, 50)

	ok := f.runner.ConsumeItem(f.tea)
	require.True(t, ok)
	assert.Equal(t, 1, f.inventory.Count(f.tea))
	assert.InDelta(t, 60, f.survival.Get(stats.SurvivalHP), 1e-6)
	assert.Equal(t, 1, f.record.Get(stats.StatVigor))

	assert.False(t, f.runner.ConsumeItem(f.rope), "non-consumable")
	f.inventory.Remove(f.tea, 1)
	assert.False(t, f.runner.ConsumeItem(f.tea), "not held")
}
