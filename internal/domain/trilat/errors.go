package trilat

import "errors"

// ErrInsufficientGuesses is returned when fewer than three non-perfect
// guesses exist for a target. This is an expected, frequent condition
// during the first rounds for a target, not a fault.
var ErrInsufficientGuesses = errors.New("not enough guesses to trilaterate")
