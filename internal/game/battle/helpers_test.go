package battle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/creaturebattle/internal/game/battle"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

// fixedSrc is a deterministic Source for testing.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// ember: fire, fast, hits hard physically.
func ember(id string) *creature.Creature {
	return &creature.Creature{
		ID: id, SpeciesID: "emberling", Name: "Emberling", Element: creature.ElementFire, HP: 20,
		Stats: creature.Stats{MaxHP: 20, Attack: 10, Defense: 3, SpAttack: 6, SpDefense: 4, Speed: 20},
		Skills: []creature.Skill{
			{ID: "flame", Name: "Flame", Element: creature.ElementFire, BaseDamage: 5, Physical: true},
			{ID: "tackle", Name: "Tackle", Element: creature.ElementNormal, BaseDamage: 2, Physical: true},
		},
	}
}

// sprout: leaf, slow.
func sprout(id string) *creature.Creature {
	return &creature.Creature{
		ID: id, SpeciesID: "sproutling", Name: "Sproutling", Element: creature.ElementLeaf, HP: 20,
		Stats: creature.Stats{MaxHP: 20, Attack: 4, Defense: 3, SpAttack: 4, SpDefense: 4, Speed: 10},
		Skills: []creature.Skill{
			{ID: "vine", Name: "Vine", Element: creature.ElementLeaf, BaseDamage: 3, Physical: true},
		},
	}
}

// puddle: water, bulky, special attacker.
func puddle(id string) *creature.Creature {
	return &creature.Creature{
		ID: id, SpeciesID: "puddlet", Name: "Puddlet", Element: creature.ElementWater, HP: 30,
		Stats: creature.Stats{MaxHP: 30, Attack: 6, Defense: 5, SpAttack: 8, SpDefense: 6, Speed: 15},
		Skills: []creature.Skill{
			{ID: "splash", Name: "Splash", Element: creature.ElementWater, BaseDamage: 4, Physical: false},
		},
	}
}

func side(t *testing.T, id string, kind battle.Kind, roster ...*creature.Creature) *battle.Combatant {
	t.Helper()
	c, err := battle.NewCombatant(id, id, kind, roster)
	require.NoError(t, err)
	return c
}

func newBattle(t *testing.T, a, b *battle.Combatant, opts battle.Options) *battle.Battle {
	t.Helper()
	bt, err := battle.New("test", a, b, opts)
	require.NoError(t, err)
	return bt
}

func submitBoth(t *testing.T, bt *battle.Battle, a, b battle.Action) {
	t.Helper()
	require.NoError(t, bt.Submit("a", a))
	require.NoError(t, bt.Submit("b", b))
}

func kinds(events []battle.Event) []battle.EventKind {
	out := make([]battle.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}
