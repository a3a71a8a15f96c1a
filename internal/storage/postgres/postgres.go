// Package postgres stores trainer rosters in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/creaturebattle/internal/config"
)

// ErrSchemaMissing is returned by CheckSchema when a roster table does not exist.
var ErrSchemaMissing = errors.New("roster schema missing, run migrate up")

// rosterTables are the tables created by the roster migrations.
var rosterTables = []string{"trainers", "creatures", "creature_skills"}

// Pool is the roster store's connection pool.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the roster database with cfg's pool limits.
//
// Precondition: cfg must pass config validation with Enabled set.
// Postcondition: Returns a Pool that answered one ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "creaturebattle"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// CheckSchema verifies the roster tables exist before any roster is read or written.
//
// Postcondition: Returns nil, an error wrapping ErrSchemaMissing that names the
// first absent table, or a query error.
func (p *Pool) CheckSchema(ctx context.Context) error {
	for _, table := range rosterTables {
		var present bool
		if err := p.pool.QueryRow(ctx,
			`SELECT to_regclass($1) IS NOT NULL`, "public."+table,
		).Scan(&present); err != nil {
			return fmt.Errorf("checking table %q: %w", table, err)
		}
		if !present {
			return fmt.Errorf("table %q: %w", table, ErrSchemaMissing)
		}
	}
	return nil
}

// Rosters returns a RosterRepository backed by this pool.
func (p *Pool) Rosters() *RosterRepository {
	return NewRosterRepository(p.pool)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
