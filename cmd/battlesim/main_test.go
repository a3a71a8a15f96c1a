package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creaturebattle/internal/game/battle"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return f.val % n }

func testSide() battle.SideSnapshot {
	return battle.SideSnapshot{
		ID:     "a",
		Name:   "Side A",
		Active: 0,
		Roster: []creature.Creature{
			{ID: "c1", HP: 5, Stats: creature.Stats{MaxHP: 5}, Skills: []creature.Skill{{ID: "scratch"}, {ID: "ember"}}},
			{ID: "c2", HP: 0, Stats: creature.Stats{MaxHP: 5}},
			{ID: "c3", HP: 3, Stats: creature.Stats{MaxHP: 5}},
		},
	}
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"emberling", "puddlet"}, splitIDs(" emberling, ,puddlet "))
	assert.Nil(t, splitIDs(""))
}

func TestPickAction(t *testing.T) {
	side := testSide()
	assert.Equal(t, battle.AttackWith("scratch"), pickAction(side, fixedSrc{0}))
	assert.Equal(t, battle.AttackWith("ember"), pickAction(side, fixedSrc{1}))
	assert.Equal(t, battle.SwapTo("c3"), pickAction(side, fixedSrc{2}))
}

func TestPickAction_NeverTargetsFaintedOrActive(t *testing.T) {
	side := testSide()
	rapid.Check(t, func(rt *rapid.T) {
		a := pickAction(side, fixedSrc{rapid.IntRange(0, 1000).Draw(rt, "val")})
		if a.Kind == battle.ActionSwap && a.CreatureID != "c3" {
			rt.Fatalf("illegal swap target %q", a.CreatureID)
		}
	})
}

func TestVerdict(t *testing.T) {
	snap := battle.Snapshot{Round: 4, WinnerID: "b", Sides: [2]battle.SideSnapshot{
		{ID: "a", Name: "Side A"}, {ID: "b", Name: "Side B"},
	}}
	assert.Equal(t, "Side B wins after 4 rounds [1s]", verdict(snap, time.Second))

	snap.WinnerID, snap.Draw = "", true
	assert.Equal(t, "draw after 4 rounds [1s]", verdict(snap, time.Second))

	snap.Draw = false
	assert.Equal(t, "no result after 4 rounds [1s]", verdict(snap, time.Second))
}
