package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequirementMet(t *testing.T) {
	tests := []struct {
		name       string
		comparison Comparison
		amount     int
		actual     int
		want       bool
	}{
		{"gt passes above", CompareGreater, 5, 6, true},
		{"gt fails at boundary", CompareGreater, 5, 5, false},
		{"lt passes below", CompareLess, 5, 4, true},
		{"lt fails at boundary", CompareLess, 5, 5, false},
		{"eq passes on match", CompareEqual, 5, 5, true},
		{"eq fails off match", CompareEqual, 5, 6, false},
		{"gte passes at boundary", CompareGreaterOrEqual, 5, 5, true},
		{"gte fails below", CompareGreaterOrEqual, 5, 4, false},
		{"lte passes at boundary", CompareLessOrEqual, 5, 5, true},
		{"lte fails above", CompareLessOrEqual, 5, 6, false},
		{"unknown operator never passes", Comparison("ne"), 5, 6, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := Requirement{Stat: StatKnowledge, Comparison: tc.comparison, Amount: tc.amount}
			assert.Equal(t, tc.want, req.Met(tc.actual))
		})
	}
}

type mapCounter map[string]int

func (m mapCounter) CountKey(item string) int { return m[item] }

func TestRequirementSetMet(t *testing.T) {
	record := NewRecord(0)
	record.Set(StatKnowledge, 5)
	counter := mapCounter{"rope": 2, "coin": 10}

	tests := []struct {
		name string
		set  RequirementSet
		want bool
	}{
		{
			"empty set always passes",
			RequirementSet{},
			true,
		},
		{
			"stat requirement met",
			RequirementSet{Stats: []Requirement{{Stat: StatKnowledge, Comparison: CompareGreaterOrEqual, Amount: 5}}},
			true,
		},
		{
			"stat requirement unmet",
			RequirementSet{Stats: []Requirement{{Stat: StatKnowledge, Comparison: CompareGreaterOrEqual, Amount: 6}}},
			false,
		},
		{
			"item requirement met",
			RequirementSet{Items: []ItemRequirement{{Item: "rope", Amount: 2}}},
			true,
		},
		{
			"item requirement unmet",
			RequirementSet{Items: []ItemRequirement{{Item: "rope", Amount: 3}}},
			false,
		},
		{
			"duplicate item entries aggregate",
			RequirementSet{Items: []ItemRequirement{
				{Item: "coin", Amount: 6},
				{Item: "coin", Amount: 5},
			}},
			false, // needs 11 total, only 10 held
		},
		{
			"mixed gate needs both",
			RequirementSet{
				Stats: []Requirement{{Stat: StatKnowledge, Comparison: CompareEqual, Amount: 5}},
				Items: []ItemRequirement{{Item: "rope", Amount: 1}},
			},
			true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.set.Met(record, counter))
		})
	}
}

func TestRequirementSetMet_NilCounter(t *testing.T) {
	record := NewRecord(0)
	set := RequirementSet{Items: []ItemRequirement{{Item: "rope", Amount: 1}}}
	assert.False(t, set.Met(record, nil), "item gates fail closed without a counter")

	empty := RequirementSet{}
	assert.True(t, empty.Met(record, nil))
}

func TestAggregateItems_SkipsInvalidEntries(t *testing.T) {
	set := RequirementSet{Items: []ItemRequirement{
		{Item: "", Amount: 3},
		{Item: "rope", Amount: 0},
		{Item: "rope", Amount: -1},
		{Item: "rope", Amount: 2},
	}}
	need := set.AggregateItems()
	assert.Equal(t, map[string]int{"rope": 2}, need)
}
