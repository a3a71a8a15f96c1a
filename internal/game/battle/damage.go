package battle

import "github.com/cory-johannsen/creaturebattle/internal/game/creature"

// effectiveness lists every non-neutral skill→defender element pairing.
var effectiveness = map[creature.Element]map[creature.Element]float64{
	creature.ElementFire:  {creature.ElementLeaf: 2.0, creature.ElementWater: 0.5},
	creature.ElementWater: {creature.ElementFire: 2.0, creature.ElementLeaf: 0.5},
	creature.ElementLeaf:  {creature.ElementWater: 2.0, creature.ElementFire: 0.5},
}

// Effectiveness returns the multiplier for a skill element hitting a defender element.
//
// Postcondition: Returns 2.0 or 0.5 for the six fire/water/leaf pairings, 1.0 otherwise.
func Effectiveness(skill, defender creature.Element) float64 {
	if m, ok := effectiveness[skill][defender]; ok {
		return m
	}
	return 1.0
}

// DamageCalculator computes attack damage. The zero value applies no damage floor.
type DamageCalculator struct {
	// MinDamage is the lowest damage an attack deals; 0 disables the floor.
	MinDamage int
}

// Raw returns the damage before type effectiveness.
// Physical skills: attack + base - defense. Special skills: (spAtk / spDef) * base.
// A special defense of 0 is treated as 1.
func (d DamageCalculator) Raw(attacker, defender *creature.Creature, skill creature.Skill) float64 {
	if skill.Physical {
		return float64(attacker.Attack + skill.BaseDamage - defender.Defense)
	}
	spDef := defender.SpDefense
	if spDef <= 0 {
		spDef = 1
	}
	return float64(attacker.SpAttack) / float64(spDef) * float64(skill.BaseDamage)
}

// Damage returns the final damage of attacker using skill on defender.
// The product of raw damage and effectiveness is truncated toward zero, then
// raised to MinDamage and to zero.
//
// Precondition: attacker and defender must be non-nil.
// Postcondition: Returns >= max(0, MinDamage). Deterministic for equal inputs.
func (d DamageCalculator) Damage(attacker, defender *creature.Creature, skill creature.Skill) int {
	dmg := int(d.Raw(attacker, defender, skill) * Effectiveness(skill.Element, defender.Element))
	if dmg < d.MinDamage {
		dmg = d.MinDamage
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg
}
