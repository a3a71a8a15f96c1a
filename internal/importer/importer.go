// Package importer seeds trainer rosters into the roster store from a YAML file.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/storage/postgres"
)

// RosterStore is the subset of postgres.RosterRepository the importer writes
// through. CreateTrainer must return postgres.ErrTrainerExists for a taken id.
type RosterStore interface {
	CreateTrainer(ctx context.Context, id, name string) error
	AddCreature(ctx context.Context, trainerID string, c *creature.Creature) (int, error)
}

// Result counts what a Run wrote.
type Result struct {
	Trainers  int
	Creatures int
	// Skipped lists trainer IDs that already existed.
	Skipped []string
}

// Importer validates a seed file against the species registry and writes it
// to a RosterStore.
type Importer struct {
	registry *creature.Registry
	store    RosterStore
	logger   *zap.Logger
}

// New constructs an Importer.
//
// Precondition: registry, store, and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(registry *creature.Registry, store RosterStore, logger *zap.Logger) *Importer {
	return &Importer{registry: registry, store: store, logger: logger}
}

// Run validates every trainer in f, then creates each trainer and its roster.
// Trainers that already exist are skipped and left untouched.
//
// Precondition: f must be non-nil.
// Postcondition: nothing is written if validation fails; otherwise returns the
// counts written or the first store error.
func (imp *Importer) Run(ctx context.Context, f *TrainerFile) (Result, error) {
	start := time.Now()
	if err := imp.validate(f); err != nil {
		return Result{}, err
	}

	var res Result
	for _, tr := range f.Trainers {
		err := imp.store.CreateTrainer(ctx, tr.ID, tr.Name)
		if errors.Is(err, postgres.ErrTrainerExists) {
			imp.logger.Warn("trainer exists, skipping", zap.String("trainer_id", tr.ID))
			res.Skipped = append(res.Skipped, tr.ID)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("trainer %q: %w", tr.ID, err)
		}
		res.Trainers++

		roster, err := imp.registry.Roster(tr.Species...)
		if err != nil {
			return res, fmt.Errorf("trainer %q: %w", tr.ID, err)
		}
		for _, c := range roster {
			if _, err := imp.store.AddCreature(ctx, tr.ID, c); err != nil {
				return res, fmt.Errorf("trainer %q: adding %q: %w", tr.ID, c.SpeciesID, err)
			}
			res.Creatures++
		}
		imp.logger.Info("trainer imported",
			zap.String("trainer_id", tr.ID),
			zap.Int("creatures", len(roster)),
		)
	}

	imp.logger.Info("import complete",
		zap.Int("trainers", res.Trainers),
		zap.Int("creatures", res.Creatures),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (imp *Importer) validate(f *TrainerFile) error {
	if len(f.Trainers) == 0 {
		return fmt.Errorf("importer: no trainers to import")
	}
	seen := make(map[string]bool, len(f.Trainers))
	for i, tr := range f.Trainers {
		if tr.ID == "" || tr.Name == "" {
			return fmt.Errorf("importer: trainer %d: id and name must not be empty", i)
		}
		if seen[tr.ID] {
			return fmt.Errorf("importer: duplicate trainer id %q", tr.ID)
		}
		seen[tr.ID] = true
		if len(tr.Species) == 0 {
			return fmt.Errorf("importer: trainer %q has no species", tr.ID)
		}
		for _, id := range tr.Species {
			if _, ok := imp.registry.Species(id); !ok {
				return fmt.Errorf("importer: trainer %q: unknown species %q", tr.ID, id)
			}
		}
	}
	return nil
}
