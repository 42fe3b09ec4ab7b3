package item

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/ashfall/pkg/stats"
)

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"potion", true},
		{"healing_potion", true},
		{"rope2", true},
		{"", false},
		{"Potion", false},
		{"healing potion", false},
		{"healing-potion", false},
		{"_potion", false},
		{"potion_", false},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidKey(tc.key))
		})
	}
}

func TestStackLimit(t *testing.T) {
	assert.Equal(t, 10, (&Definition{Stackable: true, MaxStack: 10}).StackLimit())
	assert.Equal(t, 1, (&Definition{Stackable: true, MaxStack: 0}).StackLimit())
	assert.Equal(t, 1, (&Definition{Stackable: false, MaxStack: 99}).StackLimit(), "non-stackable always caps at 1")
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{
			"valid material",
			Definition{Key: "wood", DisplayName: "Wood", Category: CategoryMaterial, Stackable: true, MaxStack: 99},
			false,
		},
		{
			"valid consumable with effects",
			Definition{
				Key: "herb_tea", DisplayName: "Herb Tea", Category: CategoryConsumable,
				Stackable: true, MaxStack: 5, Consumable: true,
				Effects: []ConsumableEffect{
					{Target: TargetHealth, Amount: 10},
					{Target: TargetStat, Stat: stats.StatVigor, Amount: 1},
				},
			},
			false,
		},
		{
			"bad key",
			Definition{Key: "Bad Key", DisplayName: "Bad"},
			true,
		},
		{
			"missing display name",
			Definition{Key: "wood"},
			true,
		},
		{
			"stackable without max_stack",
			Definition{Key: "wood", DisplayName: "Wood", Stackable: true},
			true,
		},
		{
			"effects on non-consumable",
			Definition{Key: "wood", DisplayName: "Wood", Effects: []ConsumableEffect{{Target: TargetHealth, Amount: 1}}},
			true,
		},
		{
			"stat effect with unknown stat",
			Definition{
				Key: "odd_brew", DisplayName: "Odd Brew", Consumable: true,
				Effects: []ConsumableEffect{{Target: TargetStat, Stat: stats.StatType("luck"), Amount: 1}},
			},
			true,
		},
		{
			"unknown effect target",
			Definition{
				Key: "odd_brew", DisplayName: "Odd Brew", Consumable: true,
				Effects: []ConsumableEffect{{Target: ConsumableTarget("mana"), Amount: 1}},
			},
			true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
