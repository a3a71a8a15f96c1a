package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/creaturebattle/internal/game/battle"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

func TestActionQueue_DrainIncomplete(t *testing.T) {
	a := side(t, "a", battle.KindHuman, ember("a1"))
	q := battle.NewActionQueue("a", "b")

	require.NoError(t, q.Submit(battle.Pending{Side: a, Action: battle.AttackWith("flame")}))
	_, err := q.Drain()
	assert.ErrorIs(t, err, battle.ErrIncompleteRound)
	assert.True(t, q.Has("a"), "incomplete drain keeps queued actions")
	assert.False(t, q.Has("b"))
}

func TestActionQueue_ResubmitOverwritesAndDrainOrders(t *testing.T) {
	a := side(t, "a", battle.KindHuman, ember("a1"))
	b := side(t, "b", battle.KindBot, sprout("b1"))
	q := battle.NewActionQueue("a", "b")

	require.NoError(t, q.Submit(battle.Pending{Side: b, Action: battle.AttackWith("vine")}))
	require.NoError(t, q.Submit(battle.Pending{Side: a, Action: battle.AttackWith("flame")}))
	require.NoError(t, q.Submit(battle.Pending{Side: a, Action: battle.AttackWith("tackle")}))

	got, err := q.Drain()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Side.ID)
	assert.Equal(t, "tackle", got[0].Action.SkillID)
	assert.Equal(t, "b", got[1].Side.ID)
	assert.False(t, q.Has("a"))
	assert.False(t, q.Has("b"))
}

func TestActionQueue_UnknownSide(t *testing.T) {
	q := battle.NewActionQueue("a", "b")
	stranger := side(t, "c", battle.KindBot, ember("c1"))
	assert.ErrorIs(t, q.Submit(battle.Pending{Side: stranger}), battle.ErrUnknownSide)
	assert.ErrorIs(t, q.Submit(battle.Pending{}), battle.ErrUnknownSide)
}

func TestActionQueue_Clear(t *testing.T) {
	a := side(t, "a", battle.KindHuman, ember("a1"))
	q := battle.NewActionQueue("a", "b")
	require.NoError(t, q.Submit(battle.Pending{Side: a}))
	q.Clear()
	assert.False(t, q.Has("a"))
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "attack(flame)", battle.AttackWith("flame").String())
	assert.Equal(t, "swap(b2)", battle.SwapTo("b2").String())
	assert.Equal(t, "unknown", battle.Action{}.String())
	assert.Equal(t, "unknown", battle.ActionUnknown.String())
}

func TestNewCombatant(t *testing.T) {
	fainted := sprout("b0")
	fainted.HP = 0
	c, err := battle.NewCombatant("b", "Bot", battle.KindBot, []*creature.Creature{fainted, sprout("b1")})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Active, "first non-fainted creature is active")
	assert.Equal(t, "bot", c.Kind.String())
	assert.False(t, c.Defeated())
	assert.Empty(t, c.Eligible())

	_, err = battle.NewCombatant("", "x", battle.KindBot, []*creature.Creature{sprout("b1")})
	assert.Error(t, err)
	_, err = battle.NewCombatant("b", "x", battle.KindBot, nil)
	assert.Error(t, err)
	_, err = battle.NewCombatant("b", "x", battle.KindBot, []*creature.Creature{sprout("b1"), sprout("b1")})
	assert.Error(t, err)
	_, err = battle.NewCombatant("b", "x", battle.KindBot, []*creature.Creature{fainted})
	assert.Error(t, err)
	_, err = battle.NewCombatant("b", "x", battle.KindBot, []*creature.Creature{nil})
	assert.Error(t, err)
}

func TestNewCombatant_RejectsHPOutOfRange(t *testing.T) {
	over := ember("a1")
	over.HP = 50
	under := puddle("a2")
	under.HP = -7
	noMax := sprout("a3")
	noMax.MaxHP, noMax.HP = 0, 0

	for name, c := range map[string]*creature.Creature{"above max": over, "negative": under, "zero max": noMax} {
		t.Run(name, func(t *testing.T) {
			_, err := battle.NewCombatant("a", "A", battle.KindHuman, []*creature.Creature{sprout("ok"), c})
			assert.Error(t, err)
		})
	}

	full := ember("a4")
	_, err := battle.NewCombatant("a", "A", battle.KindHuman, []*creature.Creature{full})
	assert.NoError(t, err, "hp == max hp is in range")
}
