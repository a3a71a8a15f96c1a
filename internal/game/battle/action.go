package battle

import "fmt"

// ActionKind identifies what a side intends to do this round.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota // zero value; intentionally invalid
	ActionAttack                    // use one of the active creature's skills
	ActionSwap                      // bring another roster creature in
)

// String returns the human-readable name of the ActionKind.
//
// Postcondition: returns "attack", "swap", or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Action is one side's choice for a round: either an attack with a skill or a
// swap to a roster creature. Exactly one of SkillID and CreatureID is meaningful,
// selected by Kind.
type Action struct {
	Kind ActionKind
	// SkillID names the skill for ActionAttack.
	SkillID string
	// CreatureID names the swap target for ActionSwap.
	CreatureID string
}

// AttackWith returns an attack action using the skill with the given ID.
func AttackWith(skillID string) Action {
	return Action{Kind: ActionAttack, SkillID: skillID}
}

// SwapTo returns a swap action targeting the roster creature with the given ID.
func SwapTo(creatureID string) Action {
	return Action{Kind: ActionSwap, CreatureID: creatureID}
}

// String returns a compact description used in logs.
func (a Action) String() string {
	switch a.Kind {
	case ActionAttack:
		return fmt.Sprintf("attack(%s)", a.SkillID)
	case ActionSwap:
		return fmt.Sprintf("swap(%s)", a.CreatureID)
	default:
		return "unknown"
	}
}
