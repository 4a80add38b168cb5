// Package model contains domain models passed between layers.
package model

// Score bounds of the game. MaxScore is awarded for an exact hit and
// implies distance zero from the true point.
const (
	MinScore = 0.0
	MaxScore = 30000.0
)

// Guess represents one observed answer for a target: where the player
// guessed and how the game scored that guess. Guesses are immutable once
// stored; the store only ever appends whole records.
type Guess struct {
	TargetID string  // opaque challenge/picture identifier
	Lat      float64 // degrees, [-90, 90]
	Lon      float64 // degrees, [-180, 180]
	Score    float64 // game score, [0, 30000]
}

// IsPerfect reports whether the guess hit the target exactly.
func (g Guess) IsPerfect() bool {
	return g.Score == MaxScore
}

// Location is a derived coordinate estimate. It is a value, not an
// entity: recomputed on demand and never persisted.
type Location struct {
	Lat float64
	Lon float64
}
