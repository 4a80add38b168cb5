// Package repository defines the durable guess store interface and errors.
package repository

import (
	"context"

	"github.com/mlahde/locus/internal/domain/model"
)

// Store provides append and read access to the recorded guesses.
type Store interface {
	// Add validates and durably appends one guess. A guess rejected by
	// validation is never persisted. A snapshot backup may be taken
	// after a successful append; backup failure never rolls back or
	// fails the append.
	Add(ctx context.Context, g model.Guess) error

	// Guesses returns every stored guess for a target in insertion
	// order. Unknown targets yield an empty slice, never an error.
	Guesses(ctx context.Context, targetID string) []model.Guess

	// HasPerfect reports whether any stored guess for the target has
	// the maximum score, i.e. ground truth is already known.
	HasPerfect(ctx context.Context, targetID string) bool

	// Count returns the total number of guesses across all targets.
	Count(ctx context.Context) int
}
