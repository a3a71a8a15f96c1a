package battle

import "errors"

var (
	// ErrInvalidAction is returned when an action references a skill or creature
	// the acting side does not own, or a swap target that is fainted or already active.
	ErrInvalidAction = errors.New("invalid action")
	// ErrIncompleteRound is reported by ActionQueue.Drain when a side has not submitted.
	// Battle.ResolveRound treats it as a no-op rather than an error.
	ErrIncompleteRound = errors.New("incomplete round")
	// ErrNoEligibleCreature is returned when a forced swap is requested for a side
	// whose roster has no creature left to send in.
	ErrNoEligibleCreature = errors.New("no eligible creature")
	// ErrInvalidTarget is returned when a forced-swap creature reference is not usable.
	ErrInvalidTarget = errors.New("invalid swap target")
	// ErrWrongPhase is returned when an operation does not fit the battle's current status.
	ErrWrongPhase = errors.New("operation not allowed in current battle phase")
	// ErrUnknownSide is returned when a side ID does not belong to the battle.
	ErrUnknownSide = errors.New("unknown side")
	// ErrBattleNotFound is returned by Manager for an unknown battle ID.
	ErrBattleNotFound = errors.New("battle not found")
)
