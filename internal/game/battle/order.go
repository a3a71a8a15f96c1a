package battle

import "github.com/cory-johannsen/creaturebattle/internal/game/dice"

// TurnOrder decides the execution order of a round's actions.
type TurnOrder struct {
	src dice.Source
}

// NewTurnOrder creates a TurnOrder that breaks speed ties with src.
//
// Precondition: src must be non-nil.
func NewTurnOrder(src dice.Source) *TurnOrder {
	return &TurnOrder{src: src}
}

// Order returns actions in execution order:
//   - every swap precedes every attack, swaps keeping their submission order;
//   - attacks run by the acting side's active creature speed, highest first;
//   - equal speeds are settled by a fresh coin flip each call.
//
// Postcondition: the result is a permutation of actions; actions is not modified.
func (o *TurnOrder) Order(actions []Pending) []Pending {
	swaps := make([]Pending, 0, len(actions))
	attacks := make([]Pending, 0, len(actions))
	for _, p := range actions {
		if p.Action.Kind == ActionSwap {
			swaps = append(swaps, p)
		} else {
			attacks = append(attacks, p)
		}
	}

	// Insertion sort, stable; at most two attacks per round in practice.
	for i := 1; i < len(attacks); i++ {
		for j := i; j > 0 && o.before(attacks[j], attacks[j-1]); j-- {
			attacks[j], attacks[j-1] = attacks[j-1], attacks[j]
		}
	}

	return append(swaps, attacks...)
}

// before reports whether a should act ahead of b.
func (o *TurnOrder) before(a, b Pending) bool {
	sa := a.Side.ActiveCreature().Speed
	sb := b.Side.ActiveCreature().Speed
	if sa != sb {
		return sa > sb
	}
	return dice.CoinFlip(o.src)
}
