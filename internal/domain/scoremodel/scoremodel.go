// Package scoremodel converts between game scores and implied distances
// from the true location.
//
// The game assigns a score in [0, 30000] that decays exponentially with
// distance: score = A * exp(B * distance), with A = 30000 and B = -0.005.
// The constants were fitted offline against observed rounds and are part
// of this package's contract; they are not configuration.
package scoremodel

import (
	"fmt"
	"math"

	"github.com/mlahde/locus/internal/domain/model"
)

// Fitted model constants. A is the score at distance zero, B the decay
// rate per meter.
const (
	coefA = model.MaxScore
	coefB = -0.005
)

// ScoreToDistance returns the distance in meters from the true point
// implied by score. The mapping is the inverse exponential
// ln(score/A) / B: 0 at the maximum score, growing without bound as the
// score approaches 0. A score of exactly 0 maps to +Inf; callers that
// need a finite distance must guard that boundary.
func ScoreToDistance(score float64) (float64, error) {
	if score < model.MinScore || score > model.MaxScore {
		return 0, fmt.Errorf("%w: score %v outside [%v, %v]", ErrScoreOutOfRange, score, model.MinScore, model.MaxScore)
	}
	return math.Log(score/coefA) / coefB, nil
}

// DistanceToScore returns the score implied by a distance in meters.
// It is the exact analytic inverse of ScoreToDistance: equal to the
// maximum score at distance 0 and saturating toward 0 as the distance
// grows.
func DistanceToScore(distance float64) (float64, error) {
	if distance < 0 {
		return 0, fmt.Errorf("%w: distance %v", ErrNegativeDistance, distance)
	}
	return coefA * math.Exp(coefB*distance), nil
}
