package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creaturebattle/internal/game/battle"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

// TestDamage_FireOnLeaf covers the reference case: 10+5-3=12, doubled to 24.
func TestDamage_FireOnLeaf(t *testing.T) {
	a := ember("a1")
	b := sprout("b1")
	skill, _ := a.Skill("flame")

	var calc battle.DamageCalculator
	assert.Equal(t, 12.0, calc.Raw(a, b, skill))
	assert.Equal(t, 24, calc.Damage(a, b, skill))
}

func TestEffectiveness_Table(t *testing.T) {
	fire, water, leaf, normal := creature.ElementFire, creature.ElementWater, creature.ElementLeaf, creature.ElementNormal
	tests := []struct {
		skill, def creature.Element
		want       float64
	}{
		{fire, leaf, 2.0},
		{fire, water, 0.5},
		{water, fire, 2.0},
		{water, leaf, 0.5},
		{leaf, water, 2.0},
		{leaf, fire, 0.5},
		{fire, fire, 1.0},
		{normal, fire, 1.0},
		{fire, normal, 1.0},
		{normal, normal, 1.0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, battle.Effectiveness(tc.skill, tc.def), "%s -> %s", tc.skill, tc.def)
	}
}

func TestDamage_SpecialTruncates(t *testing.T) {
	atk := &creature.Creature{Stats: creature.Stats{SpAttack: 7}}
	def := &creature.Creature{Element: creature.ElementNormal, Stats: creature.Stats{SpDefense: 2}}
	skill := creature.Skill{Element: creature.ElementNormal, BaseDamage: 3}

	var calc battle.DamageCalculator
	// 7/2*3 = 10.5
	assert.Equal(t, 10, calc.Damage(atk, def, skill))

	def.Element = creature.ElementLeaf
	skill.Element = creature.ElementWater
	// 10.5*0.5 = 5.25
	assert.Equal(t, 5, calc.Damage(atk, def, skill))
}

func TestDamage_PhysicalResistedTruncates(t *testing.T) {
	atk := &creature.Creature{Stats: creature.Stats{Attack: 5}}
	def := &creature.Creature{Element: creature.ElementWater, Stats: creature.Stats{Defense: 2}}
	skill := creature.Skill{Element: creature.ElementFire, BaseDamage: 2, Physical: true}

	// (5+2-2)*0.5 = 2.5
	assert.Equal(t, 2, battle.DamageCalculator{}.Damage(atk, def, skill))
}

func TestDamage_ZeroSpecialDefenseTreatedAsOne(t *testing.T) {
	atk := &creature.Creature{Stats: creature.Stats{SpAttack: 4}}
	def := &creature.Creature{}
	skill := creature.Skill{BaseDamage: 2}
	assert.Equal(t, 8, battle.DamageCalculator{}.Damage(atk, def, skill))
}

func TestDamage_FloorPolicy(t *testing.T) {
	atk := &creature.Creature{Stats: creature.Stats{Attack: 2}}
	def := &creature.Creature{Stats: creature.Stats{Defense: 10}}
	skill := creature.Skill{BaseDamage: 1, Physical: true}

	assert.Equal(t, 0, battle.DamageCalculator{}.Damage(atk, def, skill), "negative raw clamps to 0")
	assert.Equal(t, 1, battle.DamageCalculator{MinDamage: 1}.Damage(atk, def, skill))
}

func TestDamage_Property_BoundedAndDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		elem := rapid.SampledFrom([]creature.Element{
			creature.ElementNormal, creature.ElementFire, creature.ElementWater, creature.ElementLeaf,
		})
		atk := &creature.Creature{Stats: creature.Stats{
			Attack:   rapid.IntRange(0, 200).Draw(rt, "attack"),
			SpAttack: rapid.IntRange(0, 200).Draw(rt, "sp_attack"),
		}}
		def := &creature.Creature{Element: elem.Draw(rt, "def_element"), Stats: creature.Stats{
			Defense:   rapid.IntRange(0, 200).Draw(rt, "defense"),
			SpDefense: rapid.IntRange(0, 200).Draw(rt, "sp_defense"),
		}}
		skill := creature.Skill{
			Element:    elem.Draw(rt, "skill_element"),
			BaseDamage: rapid.IntRange(0, 100).Draw(rt, "base"),
			Physical:   rapid.Bool().Draw(rt, "physical"),
		}
		calc := battle.DamageCalculator{MinDamage: rapid.IntRange(0, 5).Draw(rt, "floor")}

		got := calc.Damage(atk, def, skill)
		assert.GreaterOrEqual(rt, got, calc.MinDamage)
		assert.Equal(rt, got, calc.Damage(atk, def, skill))
		if skill.Physical {
			raw := atk.Attack + skill.BaseDamage - def.Defense
			if raw > 0 && calc.MinDamage == 0 {
				assert.LessOrEqual(rt, got, raw*2)
			}
		}
	})
}
