package battle

import "fmt"

// Pending is one submitted action waiting for the round to resolve.
type Pending struct {
	Side   *Combatant
	Action Action
	// ActorID is the creature that was active when the action was submitted.
	// An attack fizzles if a different creature is active by the time it runs.
	ActorID string
}

// ActionQueue holds at most one pending action per side for the upcoming round.
type ActionQueue struct {
	order   [2]string
	pending map[string]Pending
}

// NewActionQueue creates an empty queue for the two given side IDs.
//
// Precondition: sideA and sideB must be distinct and non-empty.
func NewActionQueue(sideA, sideB string) *ActionQueue {
	return &ActionQueue{
		order:   [2]string{sideA, sideB},
		pending: make(map[string]Pending, 2),
	}
}

// Submit stores p for its side, overwriting any earlier submission this round.
//
// Precondition: p.Side must be non-nil.
// Postcondition: Has(p.Side.ID) is true, or ErrUnknownSide is returned.
func (q *ActionQueue) Submit(p Pending) error {
	if p.Side == nil || (p.Side.ID != q.order[0] && p.Side.ID != q.order[1]) {
		return ErrUnknownSide
	}
	q.pending[p.Side.ID] = p
	return nil
}

// Has reports whether sideID has an action queued.
func (q *ActionQueue) Has(sideID string) bool {
	_, ok := q.pending[sideID]
	return ok
}

// Drain returns both queued actions in side order and empties the queue.
//
// Postcondition: on success the queue is empty; if either side is missing,
// returns ErrIncompleteRound and the queue is left unchanged.
func (q *ActionQueue) Drain() ([]Pending, error) {
	out := make([]Pending, 0, 2)
	for _, id := range q.order {
		p, ok := q.pending[id]
		if !ok {
			return nil, fmt.Errorf("side %q has not submitted: %w", id, ErrIncompleteRound)
		}
		out = append(out, p)
	}
	q.Clear()
	return out, nil
}

// Clear discards every queued action.
func (q *ActionQueue) Clear() {
	clear(q.pending)
}
