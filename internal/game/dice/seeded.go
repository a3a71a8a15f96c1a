package dice

import (
	"math/rand/v2"
	"sync"
)

// seededSource is a reproducible Source backed by a PCG generator.
// The mutex makes it safe for concurrent use.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source: two sources built from the
// same seed produce the same sequence.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
