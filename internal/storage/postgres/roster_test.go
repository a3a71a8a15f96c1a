package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/storage/postgres"
	"github.com/cory-johannsen/creaturebattle/internal/testutil"
)

func emberling() creature.Species {
	return creature.Species{
		ID: "emberling", Name: "Emberling", Element: creature.ElementFire,
		Stats: creature.Stats{MaxHP: 20, Attack: 10, Defense: 3, SpAttack: 12, SpDefense: 6, Speed: 20},
		Skills: []creature.Skill{
			{ID: "scratch", Name: "Scratch", Element: creature.ElementNormal, BaseDamage: 4, Physical: true},
			{ID: "flame_burst", Name: "Flame Burst", Element: creature.ElementFire, BaseDamage: 6},
		},
	}
}

func setupRoster(t *testing.T) (*postgres.RosterRepository, string) {
	t.Helper()
	repo := postgres.NewRosterRepository(testutil.NewPool(t))
	trainerID := testutil.Unique("trainer")
	require.NoError(t, repo.CreateTrainer(context.Background(), trainerID, "Rowan"))
	return repo, trainerID
}

func TestRosterRepository_AddAndLoad(t *testing.T) {
	repo, trainerID := setupRoster(t)
	ctx := context.Background()
	sp := emberling()

	first := sp.NewCreature()
	second := sp.NewCreature()
	second.HP = 7

	slot, err := repo.AddCreature(ctx, trainerID, first)
	require.NoError(t, err)
	assert.Equal(t, 0, slot)
	slot, err = repo.AddCreature(ctx, trainerID, second)
	require.NoError(t, err)
	assert.Equal(t, 1, slot)

	roster, err := repo.LoadRoster(ctx, trainerID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, first, roster[0])
	assert.Equal(t, second.ID, roster[1].ID)
	assert.Equal(t, 7, roster[1].HP)
	require.Len(t, roster[1].Skills, 2)
	assert.Equal(t, "flame_burst", roster[1].Skills[1].ID)
	assert.Equal(t, creature.ElementFire, roster[1].Skills[1].Element)
}

func TestRosterRepository_CreateTrainerDuplicate(t *testing.T) {
	repo, trainerID := setupRoster(t)
	err := repo.CreateTrainer(context.Background(), trainerID, "Again")
	assert.ErrorIs(t, err, postgres.ErrTrainerExists)
}

func TestRosterRepository_UnknownTrainer(t *testing.T) {
	repo, _ := setupRoster(t)
	ctx := context.Background()
	sp := emberling()

	_, err := repo.AddCreature(ctx, "nobody", sp.NewCreature())
	assert.ErrorIs(t, err, postgres.ErrTrainerNotFound)
	_, err = repo.LoadRoster(ctx, "nobody")
	assert.ErrorIs(t, err, postgres.ErrTrainerNotFound)
}

func TestRosterRepository_EmptyRoster(t *testing.T) {
	repo, trainerID := setupRoster(t)
	roster, err := repo.LoadRoster(context.Background(), trainerID)
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestRosterRepository_RosterFull(t *testing.T) {
	repo, trainerID := setupRoster(t)
	ctx := context.Background()
	sp := emberling()
	for i := 0; i < postgres.MaxRosterSize; i++ {
		_, err := repo.AddCreature(ctx, trainerID, sp.NewCreature())
		require.NoError(t, err)
	}
	_, err := repo.AddCreature(ctx, trainerID, sp.NewCreature())
	assert.ErrorIs(t, err, postgres.ErrRosterFull)

	roster, err := repo.LoadRoster(ctx, trainerID)
	require.NoError(t, err)
	assert.Len(t, roster, postgres.MaxRosterSize)
}

// TestRosterRepository_FailedAddWritesNothing checks that a duplicate creature
// id rolls the whole transaction back.
func TestRosterRepository_FailedAddWritesNothing(t *testing.T) {
	repo, trainerID := setupRoster(t)
	ctx := context.Background()
	sp := emberling()
	c := sp.NewCreature()
	_, err := repo.AddCreature(ctx, trainerID, c)
	require.NoError(t, err)

	dup := sp.NewCreature()
	dup.ID = c.ID
	_, err = repo.AddCreature(ctx, trainerID, dup)
	require.Error(t, err)

	roster, err := repo.LoadRoster(ctx, trainerID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestRosterRepository_RemoveCompactsSlots(t *testing.T) {
	repo, trainerID := setupRoster(t)
	ctx := context.Background()
	sp := emberling()
	cs := []*creature.Creature{sp.NewCreature(), sp.NewCreature(), sp.NewCreature()}
	for _, c := range cs {
		_, err := repo.AddCreature(ctx, trainerID, c)
		require.NoError(t, err)
	}

	require.NoError(t, repo.RemoveCreature(ctx, trainerID, cs[0].ID))
	assert.ErrorIs(t, repo.RemoveCreature(ctx, trainerID, cs[0].ID), postgres.ErrCreatureNotFound)

	roster, err := repo.LoadRoster(ctx, trainerID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, cs[1].ID, roster[0].ID)
	assert.Equal(t, cs[2].ID, roster[1].ID)

	slot, err := repo.AddCreature(ctx, trainerID, sp.NewCreature())
	require.NoError(t, err)
	assert.Equal(t, 2, slot)
}

func TestRosterRepository_Property_RoundTripsStats(t *testing.T) {
	repo, _ := setupRoster(t)
	ctx := context.Background()
	rapid.Check(t, func(rt *rapid.T) {
		trainerID := testutil.Unique("prop")
		if err := repo.CreateTrainer(ctx, trainerID, "Prop"); err != nil {
			rt.Fatal(err)
		}
		sp := emberling()
		sp.Element = rapid.SampledFrom([]creature.Element{
			creature.ElementNormal, creature.ElementFire, creature.ElementWater, creature.ElementLeaf,
		}).Draw(rt, "element")
		sp.Stats.MaxHP = rapid.IntRange(1, 500).Draw(rt, "max_hp")
		sp.Stats.Speed = rapid.IntRange(0, 200).Draw(rt, "speed")
		c := sp.NewCreature()
		c.HP = rapid.IntRange(0, c.MaxHP).Draw(rt, "hp")

		if _, err := repo.AddCreature(ctx, trainerID, c); err != nil {
			rt.Fatal(err)
		}
		roster, err := repo.LoadRoster(ctx, trainerID)
		if err != nil {
			rt.Fatal(err)
		}
		if len(roster) != 1 {
			rt.Fatalf("expected 1 creature, got %d", len(roster))
		}
		assert.Equal(rt, c, roster[0])
	})
}
