package battle

// EventKind identifies what happened in one step of a round.
type EventKind int

const (
	EventSwap   EventKind = iota // a creature was sent in
	EventDamage                  // an attack landed
	EventFaint                   // a creature's HP reached 0
	EventFizzle                  // a queued attack could not run
)

// String returns the lowercase name of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventSwap:
		return "swap"
	case EventDamage:
		return "damage"
	case EventFaint:
		return "faint"
	case EventFizzle:
		return "fizzle"
	default:
		return "unknown"
	}
}

// Event records one step of round resolution.
type Event struct {
	Kind EventKind
	// SideID is the acting side: the swapper, the attacker, or the owner of the fainted creature.
	SideID string
	// CreatureID and CreatureName identify the acting creature (the incoming one for swaps).
	CreatureID   string
	CreatureName string
	// Target fields are set for EventDamage only.
	TargetSideID string
	TargetID     string
	TargetName   string
	SkillID      string
	Damage       int
	// TargetHP is the defender's HP after the hit.
	TargetHP      int
	Effectiveness float64
}

// Status is the phase of a battle.
type Status int

const (
	StatusAwaitingActions Status = iota
	StatusResolving
	StatusAwaitingForcedSwap
	StatusEnded
)

// String returns the lowercase name of the Status.
func (s Status) String() string {
	switch s {
	case StatusAwaitingActions:
		return "awaiting_actions"
	case StatusResolving:
		return "resolving"
	case StatusAwaitingForcedSwap:
		return "awaiting_forced_swap"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// RoundOutcome reports what a ResolveRound or SupplyForcedSwap call did.
type RoundOutcome struct {
	Round  int
	Events []Event
	Status Status
	// Incomplete is true when ResolveRound ran before both sides submitted.
	Incomplete bool
	// ForcedSwapSide is the side that must call SupplyForcedSwap when Status is
	// StatusAwaitingForcedSwap.
	ForcedSwapSide string
	// WinnerID is set when Status is StatusEnded and the battle was not a draw.
	WinnerID string
	Draw     bool
}
