package battle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/game/dice"
)

const tracerName = "github.com/cory-johannsen/creaturebattle/internal/game/battle"

// entry pairs a battle with the lock serializing its operations.
type entry struct {
	mu     sync.Mutex
	battle *Battle
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Defaults are applied to every battle the Manager starts.
	Defaults Options
	// RestoreOnEnd resets roster HP when End is called.
	RestoreOnEnd bool
}

// Manager owns all live battles, keyed by a generated battle ID.
// All methods are safe for concurrent use; operations on one battle are
// serialized while different battles proceed independently.
type Manager struct {
	mu      sync.RWMutex
	battles map[string]*entry

	opts   ManagerOptions
	logger *zap.Logger
	tracer trace.Tracer
}

// NewManager creates an empty Manager.
//
// Postcondition: Returns a non-nil Manager ready for use.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Defaults.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Defaults.Logger = logger
	if opts.Defaults.Source == nil {
		opts.Defaults.Source = dice.NewCryptoSource()
	}
	return &Manager{
		battles: make(map[string]*entry),
		opts:    opts,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Start creates a battle between a and b and returns its ID.
//
// Precondition: a and b satisfy New's preconditions.
// Postcondition: Returns a fresh battle ID, or an error if New rejects the sides.
func (m *Manager) Start(ctx context.Context, a, b *Combatant) (string, error) {
	_, span := m.tracer.Start(ctx, "battle.Start")
	defer span.End()

	id := uuid.NewString()
	bt, err := New(id, a, b, m.opts.Defaults)
	if err != nil {
		fail(span, err)
		return "", err
	}
	span.SetAttributes(attribute.String("battle.id", id))

	m.mu.Lock()
	m.battles[id] = &entry{battle: bt}
	m.mu.Unlock()

	m.logger.Info("battle started",
		zap.String("battle_id", id),
		zap.String("side_a", a.ID),
		zap.String("side_b", b.ID),
	)
	return id, nil
}

// Snapshot returns a read-only copy of the battle's state.
func (m *Manager) Snapshot(battleID string) (Snapshot, error) {
	var snap Snapshot
	err := m.with(battleID, func(b *Battle) error {
		snap = b.State()
		return nil
	})
	return snap, err
}

// Submit queues sideID's action in the given battle.
func (m *Manager) Submit(ctx context.Context, battleID, sideID string, a Action) error {
	_, span := m.tracer.Start(ctx, "battle.Submit", trace.WithAttributes(
		attribute.String("battle.id", battleID),
		attribute.String("battle.side", sideID),
		attribute.String("battle.action", a.String()),
	))
	defer span.End()

	err := m.with(battleID, func(b *Battle) error { return b.Submit(sideID, a) })
	if err != nil {
		fail(span, err)
	}
	return err
}

// ResolveRound resolves the pending round of the given battle.
func (m *Manager) ResolveRound(ctx context.Context, battleID string) (RoundOutcome, error) {
	_, span := m.tracer.Start(ctx, "battle.ResolveRound", trace.WithAttributes(
		attribute.String("battle.id", battleID),
	))
	defer span.End()

	var out RoundOutcome
	err := m.with(battleID, func(b *Battle) (err error) {
		out, err = b.ResolveRound()
		return err
	})
	if err != nil {
		fail(span, err)
		return RoundOutcome{}, err
	}
	annotate(span, out)
	return out, nil
}

// SupplyForcedSwap sends creatureID in for sideID and resumes the round.
func (m *Manager) SupplyForcedSwap(ctx context.Context, battleID, sideID, creatureID string) (RoundOutcome, error) {
	_, span := m.tracer.Start(ctx, "battle.SupplyForcedSwap", trace.WithAttributes(
		attribute.String("battle.id", battleID),
		attribute.String("battle.side", sideID),
		attribute.String("battle.creature", creatureID),
	))
	defer span.End()

	var out RoundOutcome
	err := m.with(battleID, func(b *Battle) (err error) {
		out, err = b.SupplyForcedSwap(sideID, creatureID)
		return err
	})
	if err != nil {
		fail(span, err)
		return RoundOutcome{}, err
	}
	annotate(span, out)
	return out, nil
}

// AutoSwap supplies a uniformly random forced swap for sideID using src.
func (m *Manager) AutoSwap(ctx context.Context, battleID, sideID string, src dice.Source) (RoundOutcome, error) {
	_, span := m.tracer.Start(ctx, "battle.AutoSwap", trace.WithAttributes(
		attribute.String("battle.id", battleID),
		attribute.String("battle.side", sideID),
	))
	defer span.End()

	var out RoundOutcome
	err := m.with(battleID, func(b *Battle) (err error) {
		out, err = b.AutoSwap(sideID, src)
		return err
	})
	if err != nil {
		fail(span, err)
		return RoundOutcome{}, err
	}
	annotate(span, out)
	return out, nil
}

// End removes the battle and, if configured, restores every roster creature to full HP.
//
// Postcondition: the battle ID is unknown to the Manager afterwards.
func (m *Manager) End(battleID string) error {
	m.mu.Lock()
	e, ok := m.battles[battleID]
	delete(m.battles, battleID)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("battle %q: %w", battleID, ErrBattleNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if m.opts.RestoreOnEnd {
		e.battle.RestoreRosters()
	}
	m.logger.Info("battle removed",
		zap.String("battle_id", battleID),
		zap.Stringer("status", e.battle.Status()),
	)
	return nil
}

// Count returns the number of live battles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.battles)
}

func (m *Manager) with(battleID string, fn func(*Battle) error) error {
	m.mu.RLock()
	e, ok := m.battles[battleID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("battle %q: %w", battleID, ErrBattleNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.battle)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func annotate(span trace.Span, out RoundOutcome) {
	span.SetAttributes(
		attribute.Int("battle.round", out.Round),
		attribute.Int("battle.events", len(out.Events)),
		attribute.String("battle.status", out.Status.String()),
	)
}
