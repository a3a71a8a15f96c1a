package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creaturebattle/internal/game/battle"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/game/dice"
)

func pendingPair(t *testing.T, speedA, speedB int, actA, actB battle.Action) []battle.Pending {
	t.Helper()
	ca := ember("a1")
	ca.Speed = speedA
	cb := sprout("b1")
	cb.Speed = speedB
	a := side(t, "a", battle.KindHuman, ca, puddle("a2"))
	b := side(t, "b", battle.KindBot, cb, puddle("b2"))
	return []battle.Pending{
		{Side: a, Action: actA, ActorID: ca.ID},
		{Side: b, Action: actB, ActorID: cb.ID},
	}
}

func TestOrder_FasterAttacksFirst(t *testing.T) {
	order := battle.NewTurnOrder(fixedSrc{val: 0})
	got := order.Order(pendingPair(t, 5, 9, battle.AttackWith("flame"), battle.AttackWith("vine")))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Side.ID)
	assert.Equal(t, "a", got[1].Side.ID)
}

func TestOrder_SwapPrecedesFasterAttack(t *testing.T) {
	order := battle.NewTurnOrder(fixedSrc{val: 0})
	got := order.Order(pendingPair(t, 99, 1, battle.AttackWith("flame"), battle.SwapTo("b2")))
	assert.Equal(t, battle.ActionSwap, got[0].Action.Kind)
	assert.Equal(t, "b", got[0].Side.ID)
}

func TestOrder_BothSwapsKeepSubmissionOrder(t *testing.T) {
	order := battle.NewTurnOrder(fixedSrc{val: 0})
	got := order.Order(pendingPair(t, 1, 99, battle.SwapTo("a2"), battle.SwapTo("b2")))
	assert.Equal(t, "a", got[0].Side.ID)
	assert.Equal(t, "b", got[1].Side.ID)
}

func TestOrder_TieUsesCoinFlip(t *testing.T) {
	in := pendingPair(t, 10, 10, battle.AttackWith("flame"), battle.AttackWith("vine"))

	heads := battle.NewTurnOrder(fixedSrc{val: 0}).Order(in)
	assert.Equal(t, "b", heads[0].Side.ID)

	tails := battle.NewTurnOrder(fixedSrc{val: 1}).Order(in)
	assert.Equal(t, "a", tails[0].Side.ID)

	assert.Equal(t, "a", in[0].Side.ID, "input is not reordered")
}

// TestOrder_TieBreakIsFair checks that equal speed does not favour either side.
func TestOrder_TieBreakIsFair(t *testing.T) {
	order := battle.NewTurnOrder(dice.NewCryptoSource())
	in := pendingPair(t, 10, 10, battle.AttackWith("flame"), battle.AttackWith("vine"))

	aFirst := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		if order.Order(in)[0].Side.ID == "a" {
			aFirst++
		}
	}
	assert.Greater(t, aFirst, 400)
	assert.Less(t, aFirst, 600)
}

func TestOrder_Property_SwapsFirstThenBySpeed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		speedA := rapid.IntRange(0, 30).Draw(rt, "speed_a")
		speedB := rapid.IntRange(0, 30).Draw(rt, "speed_b")
		actions := []battle.Action{battle.AttackWith("flame"), battle.SwapTo("x")}
		actA := rapid.SampledFrom(actions).Draw(rt, "act_a")
		actB := rapid.SampledFrom(actions).Draw(rt, "act_b")

		a := &battle.Combatant{ID: "a", Roster: []*creature.Creature{{Stats: creature.Stats{Speed: speedA}}}}
		b := &battle.Combatant{ID: "b", Roster: []*creature.Creature{{Stats: creature.Stats{Speed: speedB}}}}
		in := []battle.Pending{{Side: a, Action: actA}, {Side: b, Action: actB}}

		got := battle.NewTurnOrder(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed"))).Order(in)
		if len(got) != 2 || got[0].Side == got[1].Side {
			rt.Fatalf("not a permutation: %+v", got)
		}
		if got[1].Action.Kind == battle.ActionSwap && got[0].Action.Kind == battle.ActionAttack {
			rt.Fatalf("attack ordered before swap")
		}
		if got[0].Action.Kind == battle.ActionAttack && got[1].Action.Kind == battle.ActionAttack {
			assert.GreaterOrEqual(rt, got[0].Side.ActiveCreature().Speed, got[1].Side.ActiveCreature().Speed)
		}
	})
}
