package battle

import "github.com/cory-johannsen/creaturebattle/internal/game/creature"

// SideSnapshot is a read-only copy of one side.
type SideSnapshot struct {
	ID     string
	Name   string
	Kind   Kind
	Active int
	Roster []creature.Creature
}

// ActiveCreature returns the snapshot of the creature on the field.
func (s SideSnapshot) ActiveCreature() creature.Creature {
	return s.Roster[s.Active]
}

// Snapshot is a read-only copy of the whole battle state for rendering.
type Snapshot struct {
	ID             string
	Round          int
	Status         Status
	ForcedSwapSide string
	WinnerID       string
	Draw           bool
	Sides          [2]SideSnapshot
}

func snapshotSide(c *Combatant) SideSnapshot {
	roster := make([]creature.Creature, len(c.Roster))
	for i, cr := range c.Roster {
		roster[i] = *cr.Clone()
	}
	return SideSnapshot{
		ID:     c.ID,
		Name:   c.Name,
		Kind:   c.Kind,
		Active: c.Active,
		Roster: roster,
	}
}
