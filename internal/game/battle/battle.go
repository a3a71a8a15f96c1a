// Package battle implements the two-sided, turn-based creature battle engine:
// action intake, turn order, damage, faint handling with forced replacement,
// and battle-end detection.
//
// A Battle is not safe for concurrent use; Manager serializes access per battle.
package battle

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/game/dice"
)

// Mode selects whether sides may field more than one creature.
type Mode int

const (
	// ModeRoster allows swaps and forced replacement after a faint.
	ModeRoster Mode = iota
	// ModeSingle gives each side exactly one creature; swaps are rejected.
	ModeSingle
)

// ParseMode converts "roster" or "single" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "roster":
		return ModeRoster, nil
	case "single":
		return ModeSingle, nil
	default:
		return ModeRoster, fmt.Errorf("battle: unknown mode %q", s)
	}
}

// Hooks lets callers observe or adjust resolution. Implementations must not
// mutate the creatures they are given.
type Hooks interface {
	// OnDamage receives the computed damage and returns the damage to apply.
	OnDamage(attacker, defender *creature.Creature, skill creature.Skill, damage int) int
	// OnFaint is called after a creature's HP reaches 0.
	OnFaint(sideID string, c *creature.Creature)
}

// Options carries the injected policies of a Battle.
type Options struct {
	// Source settles speed ties. Defaults to a crypto source.
	Source dice.Source
	// MinDamage is the damage floor; 0 disables it.
	MinDamage int
	Mode      Mode
	// Hooks is optional.
	Hooks Hooks
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Battle is the state machine for one battle between two sides.
type Battle struct {
	ID string

	sides  [2]*Combatant
	queue  *ActionQueue
	order  *TurnOrder
	calc   DamageCalculator
	mode   Mode
	hooks  Hooks
	logger *zap.Logger

	round      int
	status     Status
	forcedSide string
	// remaining holds the actions of the current round still to execute while
	// a forced swap is pending.
	remaining []Pending
	winnerID  string
	draw      bool
}

// New creates a battle between a and b.
//
// Precondition: a and b must be non-nil with distinct IDs, every creature
// within 0 <= HP <= MaxHP, and a non-fainted active creature each; in
// ModeSingle each roster must hold exactly one creature.
// Postcondition: Returns a Battle in StatusAwaitingActions at round 0, or an error.
func New(id string, a, b *Combatant, opts Options) (*Battle, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("battle: both sides are required")
	}
	if a.ID == b.ID {
		return nil, fmt.Errorf("battle: side ids must differ, both are %q", a.ID)
	}
	for _, side := range []*Combatant{a, b} {
		if len(side.Roster) == 0 || side.Active < 0 || side.Active >= len(side.Roster) {
			return nil, fmt.Errorf("battle: side %q has no valid active creature", side.ID)
		}
		for _, c := range side.Roster {
			if c == nil {
				return nil, fmt.Errorf("battle: side %q has a nil roster slot", side.ID)
			}
			if err := checkHP(c); err != nil {
				return nil, fmt.Errorf("battle: side %q: %w", side.ID, err)
			}
		}
		if side.ActiveCreature().Fainted() {
			return nil, fmt.Errorf("battle: side %q starts with a fainted active creature", side.ID)
		}
		if opts.Mode == ModeSingle && len(side.Roster) != 1 {
			return nil, fmt.Errorf("battle: side %q has %d creatures, single mode allows 1", side.ID, len(side.Roster))
		}
	}
	if opts.MinDamage < 0 {
		return nil, fmt.Errorf("battle: min damage must be >= 0, got %d", opts.MinDamage)
	}
	if opts.Source == nil {
		opts.Source = dice.NewCryptoSource()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Battle{
		ID:     id,
		sides:  [2]*Combatant{a, b},
		queue:  NewActionQueue(a.ID, b.ID),
		order:  NewTurnOrder(opts.Source),
		calc:   DamageCalculator{MinDamage: opts.MinDamage},
		mode:   opts.Mode,
		hooks:  opts.Hooks,
		logger: opts.Logger.With(zap.String("battle_id", id)),
		status: StatusAwaitingActions,
	}, nil
}

// Status returns the current phase.
func (b *Battle) Status() Status { return b.status }

// Round returns the number of rounds resolved so far.
func (b *Battle) Round() int { return b.round }

// ForcedSwapSide returns the side that owes a forced swap, or "" if none.
func (b *Battle) ForcedSwapSide() string { return b.forcedSide }

// Winner returns the winning side ID and whether the battle was a draw.
// Both are zero until the battle has ended.
func (b *Battle) Winner() (winnerID string, draw bool) { return b.winnerID, b.draw }

// Side returns the side with the given ID.
func (b *Battle) Side(sideID string) (*Combatant, error) {
	for _, s := range b.sides {
		if s.ID == sideID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("side %q: %w", sideID, ErrUnknownSide)
}

func (b *Battle) opponent(c *Combatant) *Combatant {
	if c == b.sides[0] {
		return b.sides[1]
	}
	return b.sides[0]
}

// Submit queues sideID's action for the next round, replacing an earlier one.
//
// Precondition: the battle is in StatusAwaitingActions.
// Postcondition: Returns nil and queues the action, or returns an error wrapping
// ErrWrongPhase, ErrUnknownSide, or ErrInvalidAction and leaves state unchanged.
func (b *Battle) Submit(sideID string, a Action) error {
	if b.status != StatusAwaitingActions {
		return fmt.Errorf("submit while %s: %w", b.status, ErrWrongPhase)
	}
	side, err := b.Side(sideID)
	if err != nil {
		return err
	}
	if err := b.validate(side, a); err != nil {
		return err
	}
	return b.queue.Submit(Pending{Side: side, Action: a, ActorID: side.ActiveCreature().ID})
}

func (b *Battle) validate(side *Combatant, a Action) error {
	switch a.Kind {
	case ActionAttack:
		active := side.ActiveCreature()
		if _, ok := active.Skill(a.SkillID); !ok {
			return fmt.Errorf("%s does not know skill %q: %w", active.Name, a.SkillID, ErrInvalidAction)
		}
		return nil
	case ActionSwap:
		if b.mode == ModeSingle {
			return fmt.Errorf("swaps are disabled in single mode: %w", ErrInvalidAction)
		}
		idx := side.indexOf(a.CreatureID)
		switch {
		case idx < 0:
			return fmt.Errorf("creature %q is not in %s's roster: %w", a.CreatureID, side.ID, ErrInvalidAction)
		case idx == side.Active:
			return fmt.Errorf("creature %q is already active: %w", a.CreatureID, ErrInvalidAction)
		case side.Roster[idx].Fainted():
			return fmt.Errorf("creature %q has fainted: %w", a.CreatureID, ErrInvalidAction)
		}
		return nil
	default:
		return fmt.Errorf("action kind %s: %w", a.Kind, ErrInvalidAction)
	}
}

// ResolveRound executes the queued round.
// If either side has not submitted, it does nothing and reports Incomplete.
// Swaps run first; attacks follow in TurnOrder order. When an attack faints a
// defender that still has eligible creatures, resolution pauses in
// StatusAwaitingForcedSwap until SupplyForcedSwap is called.
//
// Precondition: the battle is in StatusAwaitingActions.
// Postcondition: 0 <= HP <= MaxHP for every creature; the returned outcome
// carries the events and the new status.
func (b *Battle) ResolveRound() (RoundOutcome, error) {
	if b.status != StatusAwaitingActions {
		return RoundOutcome{}, fmt.Errorf("resolve while %s: %w", b.status, ErrWrongPhase)
	}
	pending, err := b.queue.Drain()
	if err != nil {
		if errors.Is(err, ErrIncompleteRound) {
			return RoundOutcome{Round: b.round, Status: b.status, Incomplete: true}, nil
		}
		return RoundOutcome{}, err
	}

	b.round++
	b.status = StatusResolving
	b.remaining = b.order.Order(pending)
	b.logger.Debug("resolving round",
		zap.Int("round", b.round),
		zap.Stringer("first", b.remaining[0].Action),
		zap.String("first_side", b.remaining[0].Side.ID),
	)
	return b.run(nil), nil
}

// SupplyForcedSwap sends in a replacement for sideID's fainted creature and
// resumes the paused round.
//
// Precondition: the battle is in StatusAwaitingForcedSwap for sideID.
// Postcondition: on success the creature is active and the rest of the round has
// run; on error (ErrUnknownSide, ErrNoEligibleCreature, ErrWrongPhase,
// ErrInvalidTarget, checked in that order) state is unchanged.
func (b *Battle) SupplyForcedSwap(sideID, creatureID string) (RoundOutcome, error) {
	side, err := b.Side(sideID)
	if err != nil {
		return RoundOutcome{}, err
	}
	if len(side.Eligible()) == 0 {
		return RoundOutcome{}, fmt.Errorf("side %q: %w", sideID, ErrNoEligibleCreature)
	}
	if b.status != StatusAwaitingForcedSwap || b.forcedSide != sideID {
		return RoundOutcome{}, fmt.Errorf("forced swap for %q while %s: %w", sideID, b.status, ErrWrongPhase)
	}
	idx := side.indexOf(creatureID)
	if idx < 0 || idx == side.Active || side.Roster[idx].Fainted() {
		return RoundOutcome{}, fmt.Errorf("creature %q for side %q: %w", creatureID, sideID, ErrInvalidTarget)
	}

	side.Active = idx
	b.forcedSide = ""
	b.status = StatusResolving
	return b.run([]Event{b.swapEvent(side)}), nil
}

// Eligible returns the IDs of sideID's creatures that may be swapped in.
func (b *Battle) Eligible(sideID string) ([]string, error) {
	side, err := b.Side(sideID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, c := range side.Eligible() {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// AutoSwap supplies a forced swap for sideID chosen uniformly at random from
// its eligible creatures. It serves automated callers such as bots.
//
// Precondition: the battle is in StatusAwaitingForcedSwap for sideID; src must be non-nil.
func (b *Battle) AutoSwap(sideID string, src dice.Source) (RoundOutcome, error) {
	ids, err := b.Eligible(sideID)
	if err != nil {
		return RoundOutcome{}, err
	}
	if len(ids) == 0 {
		return RoundOutcome{}, fmt.Errorf("side %q: %w", sideID, ErrNoEligibleCreature)
	}
	return b.SupplyForcedSwap(sideID, ids[src.Intn(len(ids))])
}

// run executes b.remaining until it is empty, the battle ends, or a forced swap
// is needed.
func (b *Battle) run(events []Event) RoundOutcome {
	for len(b.remaining) > 0 {
		p := b.remaining[0]
		b.remaining = b.remaining[1:]

		switch p.Action.Kind {
		case ActionSwap:
			p.Side.Active = p.Side.indexOf(p.Action.CreatureID)
			events = append(events, b.swapEvent(p.Side))
		case ActionAttack:
			var fainted *Combatant
			events, fainted = b.attack(p, events)
			if b.checkEnd() {
				b.remaining = nil
				return b.outcome(events)
			}
			if fainted != nil && len(fainted.Eligible()) > 0 {
				b.status = StatusAwaitingForcedSwap
				b.forcedSide = fainted.ID
				return b.outcome(events)
			}
		}
	}
	b.status = StatusAwaitingActions
	return b.outcome(events)
}

// attack executes one attack and returns the defending side if its creature fainted.
func (b *Battle) attack(p Pending, events []Event) ([]Event, *Combatant) {
	actor := p.Side.ActiveCreature()
	defSide := b.opponent(p.Side)
	defender := defSide.ActiveCreature()
	skill, known := actor.Skill(p.Action.SkillID)

	if actor.Fainted() || actor.ID != p.ActorID || !known || defender.Fainted() {
		b.logger.Debug("attack fizzled",
			zap.String("side", p.Side.ID),
			zap.String("actor", p.ActorID),
			zap.String("skill", p.Action.SkillID),
		)
		return append(events, Event{
			Kind:         EventFizzle,
			SideID:       p.Side.ID,
			CreatureID:   p.ActorID,
			CreatureName: b.creatureName(p.Side, p.ActorID),
			SkillID:      p.Action.SkillID,
		}), nil
	}

	dmg := b.calc.Damage(actor, defender, skill)
	if b.hooks != nil {
		dmg = b.hooks.OnDamage(actor, defender, skill, dmg)
		if dmg < 0 {
			dmg = 0
		}
	}
	defender.ApplyDamage(dmg)
	events = append(events, Event{
		Kind:          EventDamage,
		SideID:        p.Side.ID,
		CreatureID:    actor.ID,
		CreatureName:  actor.Name,
		TargetSideID:  defSide.ID,
		TargetID:      defender.ID,
		TargetName:    defender.Name,
		SkillID:       skill.ID,
		Damage:        dmg,
		TargetHP:      defender.HP,
		Effectiveness: Effectiveness(skill.Element, defender.Element),
	})

	if !defender.Fainted() {
		return events, nil
	}
	b.logger.Info("creature fainted",
		zap.Int("round", b.round),
		zap.String("side", defSide.ID),
		zap.String("creature", defender.Name),
	)
	if b.hooks != nil {
		b.hooks.OnFaint(defSide.ID, defender)
	}
	return append(events, Event{
		Kind:         EventFaint,
		SideID:       defSide.ID,
		CreatureID:   defender.ID,
		CreatureName: defender.Name,
	}), defSide
}

// checkEnd evaluates battle end and records the verdict.
// Both sides defeated at once is a draw. One attack faints only one creature
// and the check runs after each attack, so play reaches a draw only when a
// caller zeroes HP on both rosters between rounds.
func (b *Battle) checkEnd() bool {
	aDown := b.sides[0].Defeated()
	bDown := b.sides[1].Defeated()
	switch {
	case aDown && bDown:
		b.draw = true
	case aDown:
		b.winnerID = b.sides[1].ID
	case bDown:
		b.winnerID = b.sides[0].ID
	default:
		return false
	}
	b.status = StatusEnded
	b.forcedSide = ""
	b.queue.Clear()
	b.logger.Info("battle ended",
		zap.Int("round", b.round),
		zap.String("winner", b.winnerID),
		zap.Bool("draw", b.draw),
	)
	return true
}

func (b *Battle) swapEvent(side *Combatant) Event {
	c := side.ActiveCreature()
	return Event{Kind: EventSwap, SideID: side.ID, CreatureID: c.ID, CreatureName: c.Name}
}

func (b *Battle) creatureName(side *Combatant, creatureID string) string {
	if idx := side.indexOf(creatureID); idx >= 0 {
		return side.Roster[idx].Name
	}
	return ""
}

func (b *Battle) outcome(events []Event) RoundOutcome {
	return RoundOutcome{
		Round:          b.round,
		Events:         events,
		Status:         b.status,
		ForcedSwapSide: b.forcedSide,
		WinnerID:       b.winnerID,
		Draw:           b.draw,
	}
}

// State returns a read-only snapshot of the battle.
//
// Postcondition: mutating the snapshot does not affect the battle.
func (b *Battle) State() Snapshot {
	return Snapshot{
		ID:             b.ID,
		Round:          b.round,
		Status:         b.status,
		ForcedSwapSide: b.forcedSide,
		WinnerID:       b.winnerID,
		Draw:           b.draw,
		Sides:          [2]SideSnapshot{snapshotSide(b.sides[0]), snapshotSide(b.sides[1])},
	}
}

// RestoreRosters resets every creature on both sides to full HP.
func (b *Battle) RestoreRosters() {
	for _, side := range b.sides {
		for _, c := range side.Roster {
			c.Restore()
		}
	}
}
