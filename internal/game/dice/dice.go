// Package dice provides the randomness abstraction used by the battle engine.
package dice

// Source is the randomness provider for tie-breaks and automated choices.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// CoinFlip reports the result of a fair 50/50 draw from src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns true iff src.Intn(2) == 0.
func CoinFlip(src Source) bool {
	return src.Intn(2) == 0
}
