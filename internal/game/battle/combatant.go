package battle

import (
	"fmt"

	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

// Kind distinguishes human-controlled sides from bot-controlled sides.
// The engine treats both alike; the distinction is for callers choosing how
// to supply actions and forced swaps.
type Kind int

const (
	KindHuman Kind = iota
	KindBot
)

// String returns "human" or "bot".
func (k Kind) String() string {
	if k == KindBot {
		return "bot"
	}
	return "human"
}

// Combatant is one side of a battle.
// Invariant: 0 <= Active < len(Roster).
type Combatant struct {
	ID     string
	Name   string
	Kind   Kind
	Roster []*creature.Creature
	// Active indexes the creature currently on the field.
	Active int
}

// NewCombatant creates a side whose first non-fainted roster member is active.
//
// Precondition: id must be non-empty; roster must hold at least one creature.
// Postcondition: Returns a Combatant with a non-fainted active creature, or an
// error if the roster is empty, holds a nil, duplicate-ID or out-of-range
// creature (MaxHP < 1 or HP outside [0, MaxHP]), or is already fully fainted.
func NewCombatant(id, name string, kind Kind, roster []*creature.Creature) (*Combatant, error) {
	if id == "" {
		return nil, fmt.Errorf("combatant id must not be empty")
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("combatant %q: roster must not be empty", id)
	}
	seen := make(map[string]bool, len(roster))
	for i, c := range roster {
		if c == nil {
			return nil, fmt.Errorf("combatant %q: roster slot %d is nil", id, i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("combatant %q: duplicate creature id %q", id, c.ID)
		}
		seen[c.ID] = true
		if err := checkHP(c); err != nil {
			return nil, fmt.Errorf("combatant %q: %w", id, err)
		}
	}
	cbt := &Combatant{ID: id, Name: name, Kind: kind, Roster: roster, Active: -1}
	for i, c := range roster {
		if !c.Fainted() {
			cbt.Active = i
			break
		}
	}
	if cbt.Active < 0 {
		return nil, fmt.Errorf("combatant %q: every roster creature has fainted", id)
	}
	return cbt, nil
}

// ActiveCreature returns the creature currently on the field.
func (c *Combatant) ActiveCreature() *creature.Creature {
	return c.Roster[c.Active]
}

// Defeated reports whether every roster creature has fainted.
//
// Postcondition: Returns true iff no roster member has HP > 0.
func (c *Combatant) Defeated() bool {
	for _, cr := range c.Roster {
		if !cr.Fainted() {
			return false
		}
	}
	return true
}

// Eligible returns the roster creatures that may be swapped in: not fainted and
// not currently active.
func (c *Combatant) Eligible() []*creature.Creature {
	var out []*creature.Creature
	for i, cr := range c.Roster {
		if i != c.Active && !cr.Fainted() {
			out = append(out, cr)
		}
	}
	return out
}

// indexOf returns the roster index of the creature with the given ID, or -1.
func (c *Combatant) indexOf(creatureID string) int {
	for i, cr := range c.Roster {
		if cr.ID == creatureID {
			return i
		}
	}
	return -1
}

// checkHP enforces 0 <= HP <= MaxHP with MaxHP >= 1.
func checkHP(c *creature.Creature) error {
	if c.MaxHP < 1 {
		return fmt.Errorf("creature %q has max hp %d, want >= 1", c.ID, c.MaxHP)
	}
	if c.HP < 0 || c.HP > c.MaxHP {
		return fmt.Errorf("creature %q has hp %d outside [0, %d]", c.ID, c.HP, c.MaxHP)
	}
	return nil
}
