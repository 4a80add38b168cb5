// Package trilat estimates a target's true coordinates from scored
// guesses by trilateration.
//
// Every guess's score implies a distance from the true point via the
// score model. The solver minimizes the mean squared error between the
// great-circle distance from a candidate point to each guess and that
// guess's implied distance. The objective is not convex; the optimizer
// may settle in a local minimum. Seeding from the guess with the
// smallest implied distance steers it toward the correct basin in
// practice.
package trilat

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/scoremodel"
)

// Default solver configuration constants. The tolerance and iteration
// cap mirror the values used during offline model calibration; the cap
// is effectively unreached in practice.
const (
	defaultTolerance     = 1e-5
	defaultMaxIterations = 10_000_000
	convergeStreak       = 20
	minGuesses           = 3
)

// minConstraintScore bounds scores away from zero inside the solver.
// A zero score implies an unbounded distance, which would make the
// objective non-finite everywhere.
const minConstraintScore = 1e-6

// Option applies a configuration option to the Solver.
type Option func(*Solver)

// WithTolerance sets the relative function-convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(s *Solver) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// WithMaxIterations caps the number of optimizer iterations.
func WithMaxIterations(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// Solver fuses distance constraints into a coordinate estimate.
// The zero-configuration solver is deterministic: identical guess
// sequences produce identical estimates.
type Solver struct {
	tolerance     float64
	maxIterations int
}

// NewSolver creates a Solver with default configuration.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		tolerance:     defaultTolerance,
		maxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EstimateLocation returns the best-fit coordinates for the target the
// guesses belong to.
//
// A perfect-score guess is authoritative and short-circuits the
// optimization; the first one in storage order wins. With fewer than
// three guesses and no perfect one it returns ErrInsufficientGuesses.
// Non-convergence within the iteration cap is not an error: the best
// iterate found is still returned.
func (s *Solver) EstimateLocation(guesses []model.Guess) (model.Location, error) {
	for _, g := range guesses {
		if g.IsPerfect() {
			return model.Location{Lat: g.Lat, Lon: g.Lon}, nil
		}
	}
	if len(guesses) < minGuesses {
		return model.Location{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientGuesses, len(guesses), minGuesses)
	}

	locations := make([]model.Location, len(guesses))
	distances := make([]float64, len(guesses))
	best := 0
	for i, g := range guesses {
		score := g.Score
		if score < minConstraintScore {
			score = minConstraintScore
		}
		d, err := scoremodel.ScoreToDistance(score)
		if err != nil {
			return model.Location{}, err
		}
		locations[i] = model.Location{Lat: g.Lat, Lon: g.Lon}
		distances[i] = d
		if d < distances[best] {
			best = i
		}
	}

	// The closest known observation is the best starting point.
	initial := []float64{locations[best].Lat, locations[best].Lon}

	objective := func(x []float64) float64 {
		return meanSquaredError(x, locations, distances)
	}
	// L-BFGS needs a gradient; estimate it by finite differences, as
	// scipy's L-BFGS-B does for a gradient-free objective.
	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		},
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Relative:   s.tolerance,
			Iterations: convergeStreak,
		},
		MajorIterations: s.maxIterations,
	}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.LBFGS{})
	if err != nil || result == nil || len(result.X) != 2 {
		// A locally optimal iterate still beats no answer; fall back to
		// the seed when the optimizer could not produce one at all.
		if result != nil && len(result.X) == 2 {
			return model.Location{Lat: result.X[0], Lon: result.X[1]}, nil
		}
		return model.Location{Lat: initial[0], Lon: initial[1]}, nil
	}
	return model.Location{Lat: result.X[0], Lon: result.X[1]}, nil
}

// meanSquaredError measures how far a candidate point x (lat, lon) is
// from satisfying every distance constraint.
func meanSquaredError(x []float64, locations []model.Location, distances []float64) float64 {
	candidate := model.Location{Lat: x[0], Lon: x[1]}
	var mse float64
	for i, loc := range locations {
		diff := greatCircleDistance(candidate, loc) - distances[i]
		mse += diff * diff
	}
	return mse / float64(len(distances))
}
