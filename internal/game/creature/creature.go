package creature

// Skill is an immutable attack definition owned by a creature.
type Skill struct {
	// ID is the prototype identifier shared by every creature that knows the skill.
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Element    Element `yaml:"element"`
	BaseDamage int     `yaml:"base_damage"`
	// Physical selects attack/defense; false selects the special-attack/special-defense ratio.
	Physical bool `yaml:"physical"`
}

// Stats holds the combat statistics of a creature.
type Stats struct {
	MaxHP     int `yaml:"max_hp"`
	Attack    int `yaml:"attack"`
	Defense   int `yaml:"defense"`
	SpAttack  int `yaml:"sp_attack"`
	SpDefense int `yaml:"sp_defense"`
	Speed     int `yaml:"speed"`
}

// Creature is one roster member.
// Invariant: 0 <= HP <= MaxHP.
type Creature struct {
	// ID uniquely identifies this creature instance.
	ID string
	// SpeciesID is the template this creature was built from; empty for ad-hoc creatures.
	SpeciesID string
	Name      string
	Element   Element
	HP        int
	Stats
	Skills []Skill
}

// Fainted reports whether the creature is out of the battle.
//
// Postcondition: Returns true iff HP == 0.
func (c *Creature) Fainted() bool { return c.HP <= 0 }

// ApplyDamage reduces HP by amount, flooring at zero.
// Negative amounts are ignored; damage never heals.
//
// Postcondition: 0 <= HP <= MaxHP.
func (c *Creature) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
}

// Restore resets HP to MaxHP.
//
// Postcondition: HP == MaxHP.
func (c *Creature) Restore() { c.HP = c.MaxHP }

// Skill returns the skill with the given ID and whether the creature knows it.
func (c *Creature) Skill(id string) (Skill, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// Clone returns a deep copy, so a battle can mutate HP without touching the
// persisted roster member.
//
// Postcondition: the clone shares no mutable state with c.
func (c *Creature) Clone() *Creature {
	cp := *c
	cp.Skills = make([]Skill, len(c.Skills))
	copy(cp.Skills, c.Skills)
	return &cp
}
