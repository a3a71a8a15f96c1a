package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

// MaxRosterSize is the most creatures a trainer may own.
const MaxRosterSize = 6

var (
	// ErrTrainerNotFound is returned when a trainer lookup yields no results.
	ErrTrainerNotFound = errors.New("trainer not found")
	// ErrTrainerExists is returned when creating a trainer whose id is taken.
	ErrTrainerExists = errors.New("trainer already exists")
	// ErrRosterFull is returned when a trainer already owns MaxRosterSize creatures.
	ErrRosterFull = errors.New("roster full")
	// ErrCreatureNotFound is returned when a creature is not in the trainer's roster.
	ErrCreatureNotFound = errors.New("creature not found")
)

// RosterRepository persists trainers' pre-battle rosters. Battle state is
// never written here.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a RosterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// CreateTrainer inserts a trainer.
//
// Precondition: id and name must be non-empty.
// Postcondition: Returns nil, or ErrTrainerExists on duplicate id.
func (r *RosterRepository) CreateTrainer(ctx context.Context, id, name string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO trainers (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrTrainerExists
		}
		return fmt.Errorf("inserting trainer: %w", err)
	}
	return nil
}

// AddCreature appends c to the end of trainerID's roster. The creature and its
// skills are written in one transaction.
//
// Precondition: c must be non-nil with a unique ID and at most one skill per position.
// Postcondition: Returns the roster slot assigned, or ErrTrainerNotFound,
// ErrRosterFull, or a wrapped database error with nothing written.
func (r *RosterRepository) AddCreature(ctx context.Context, trainerID string, c *creature.Creature) (int, error) {
	var slot int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		// Lock the trainer row so concurrent adds serialize on slot assignment.
		err := tx.QueryRow(ctx, `SELECT true FROM trainers WHERE id = $1 FOR UPDATE`, trainerID).Scan(&exists)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTrainerNotFound
			}
			return fmt.Errorf("locking trainer: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM creatures WHERE trainer_id = $1`, trainerID,
		).Scan(&slot); err != nil {
			return fmt.Errorf("counting roster: %w", err)
		}
		if slot >= MaxRosterSize {
			return ErrRosterFull
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO creatures
				(id, trainer_id, slot, species_id, name, element, hp, max_hp,
				 attack, defense, sp_attack, sp_defense, speed)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			c.ID, trainerID, slot, c.SpeciesID, c.Name, c.Element.String(), c.HP, c.MaxHP,
			c.Attack, c.Defense, c.SpAttack, c.SpDefense, c.Speed,
		); err != nil {
			return fmt.Errorf("inserting creature: %w", err)
		}

		batch := &pgx.Batch{}
		for i, s := range c.Skills {
			batch.Queue(`
				INSERT INTO creature_skills
					(creature_id, position, skill_id, name, element, base_damage, physical)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				c.ID, i, s.ID, s.Name, s.Element.String(), s.BaseDamage, s.Physical,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting skills: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return slot, nil
}

// LoadRoster returns trainerID's creatures in slot order with their skills.
//
// Postcondition: Returns a slice (may be empty) or ErrTrainerNotFound.
func (r *RosterRepository) LoadRoster(ctx context.Context, trainerID string) ([]*creature.Creature, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT true FROM trainers WHERE id = $1`, trainerID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("querying trainer: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, species_id, name, element, hp, max_hp,
		       attack, defense, sp_attack, sp_defense, speed
		FROM creatures WHERE trainer_id = $1 ORDER BY slot ASC`,
		trainerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing creatures: %w", err)
	}
	defer rows.Close()

	roster := make([]*creature.Creature, 0)
	byID := make(map[string]*creature.Creature)
	for rows.Next() {
		var c creature.Creature
		var element string
		if err := rows.Scan(
			&c.ID, &c.SpeciesID, &c.Name, &element, &c.HP, &c.MaxHP,
			&c.Attack, &c.Defense, &c.SpAttack, &c.SpDefense, &c.Speed,
		); err != nil {
			return nil, fmt.Errorf("scanning creature row: %w", err)
		}
		if c.Element, err = creature.ParseElement(element); err != nil {
			return nil, fmt.Errorf("creature %q: %w", c.ID, err)
		}
		roster = append(roster, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing creatures: %w", err)
	}

	skillRows, err := r.db.Query(ctx, `
		SELECT s.creature_id, s.skill_id, s.name, s.element, s.base_damage, s.physical
		FROM creature_skills s
		JOIN creatures c ON c.id = s.creature_id
		WHERE c.trainer_id = $1
		ORDER BY s.creature_id, s.position ASC`,
		trainerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var creatureID, element string
		var s creature.Skill
		if err := skillRows.Scan(&creatureID, &s.ID, &s.Name, &element, &s.BaseDamage, &s.Physical); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		if s.Element, err = creature.ParseElement(element); err != nil {
			return nil, fmt.Errorf("skill %q: %w", s.ID, err)
		}
		if c, ok := byID[creatureID]; ok {
			c.Skills = append(c.Skills, s)
		}
	}
	return roster, skillRows.Err()
}

// RemoveCreature deletes a creature from trainerID's roster and closes the
// slot gap so slots stay contiguous.
//
// Postcondition: Returns nil, or ErrCreatureNotFound if the creature is not owned by trainerID.
func (r *RosterRepository) RemoveCreature(ctx context.Context, trainerID, creatureID string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var slot int
		err := tx.QueryRow(ctx,
			`DELETE FROM creatures WHERE id = $1 AND trainer_id = $2 RETURNING slot`,
			creatureID, trainerID,
		).Scan(&slot)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCreatureNotFound
			}
			return fmt.Errorf("deleting creature: %w", err)
		}
		// Shift one row at a time in ascending order so UNIQUE (trainer_id, slot) holds.
		rows, err := tx.Query(ctx,
			`SELECT id FROM creatures WHERE trainer_id = $1 AND slot > $2 ORDER BY slot ASC`,
			trainerID, slot,
		)
		if err != nil {
			return fmt.Errorf("listing later slots: %w", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("listing later slots: %w", err)
		}
		for _, id := range ids {
			if _, err := tx.Exec(ctx, `UPDATE creatures SET slot = slot - 1 WHERE id = $1`, id); err != nil {
				return fmt.Errorf("compacting slots: %w", err)
			}
		}
		return nil
	})
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
