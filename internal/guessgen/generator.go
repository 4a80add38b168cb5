package guessgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"

	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/scoremodel"
	"github.com/mlahde/locus/internal/domain/trilat"
	"github.com/mlahde/locus/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Constants for scenario geometry. True points stay away from the
// poles so the local flat-earth offset stays accurate, and offsets are
// drawn log-uniformly so near and far guesses are equally represented.
const (
	maxGeneratedLat = 65.0
	minOffsetMeters = 50.0
	maxOffsetMeters = 200000.0

	earthRadiusMeters = 6371009.0
	degPerRad         = 180 / math.Pi
)

// minGeneratedScore keeps a noisy score from collapsing to zero, which
// would imply an infinite distance.
const minGeneratedScore = 1.0

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateScenarios creates synthetic targets with guesses whose
// scores encode the exact great-circle distance to the hidden true
// point, optionally perturbed by the configured noise.
func generateScenarios(ctx context.Context, config *Config, stats *Stats) ([]Scenario, error) {
	logger.Get().Info(ctx, "generating scenarios",
		logger.Int("targets", config.Targets),
		logger.Int("guessesPerTarget", config.GuessesPerTarget))

	scenarios := make([]Scenario, 0, config.Targets)
	for i := 0; i < config.Targets; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during scenario generation: %w", ctx.Err())
		default:
		}

		truePoint := model.Location{
			Lat: -maxGeneratedLat + getRandomFloat()*2*maxGeneratedLat,
			Lon: -180 + getRandomFloat()*360,
		}
		scenario := Scenario{
			TargetID: uuid.New().String(),
			True:     truePoint,
			Guesses:  make([]GuessPayload, 0, config.GuessesPerTarget),
		}
		for j := 0; j < config.GuessesPerTarget; j++ {
			guess, err := generateSingleGuess(scenario.TargetID, truePoint, config.ScoreNoise)
			if err != nil {
				return nil, fmt.Errorf("failed to generate guess %d for target %s: %w", j, scenario.TargetID, err)
			}
			scenario.Guesses = append(scenario.Guesses, guess)
		}
		scenarios = append(scenarios, scenario)
	}

	stats.TargetsGenerated = len(scenarios)
	stats.GuessesGenerated = len(scenarios) * config.GuessesPerTarget
	logger.Get().Info(ctx, "generated scenarios successfully",
		logger.Int("targets", stats.TargetsGenerated),
		logger.Int("guesses", stats.GuessesGenerated))

	return scenarios, nil
}

// generateSingleGuess places a guess at a random bearing and log-uniform
// distance from the true point, then scores it from the actual
// great-circle distance so the scenario is internally consistent.
func generateSingleGuess(targetID string, truePoint model.Location, noise float64) (GuessPayload, error) {
	bearing := getRandomFloat() * 2 * math.Pi
	offset := minOffsetMeters * math.Pow(maxOffsetMeters/minOffsetMeters, getRandomFloat())
	at := offsetLocation(truePoint, bearing, offset)

	score, err := scoremodel.DistanceToScore(trilat.Distance(at, truePoint))
	if err != nil {
		return GuessPayload{}, err
	}
	if noise > 0 {
		score *= 1 + noise*(2*getRandomFloat()-1)
		score = math.Min(math.Max(score, minGeneratedScore), model.MaxScore)
	}

	return GuessPayload{
		TargetID: targetID,
		Lat:      at.Lat,
		Lon:      at.Lon,
		Score:    score,
	}, nil
}

// offsetLocation displaces loc by dist meters along bearing using a
// local flat-earth approximation, accurate to a small fraction of the
// offsets generated here.
func offsetLocation(loc model.Location, bearing, dist float64) model.Location {
	latRad := loc.Lat / degPerRad
	out := model.Location{
		Lat: loc.Lat + dist*math.Cos(bearing)/earthRadiusMeters*degPerRad,
		Lon: loc.Lon + dist*math.Sin(bearing)/(earthRadiusMeters*math.Cos(latRad))*degPerRad,
	}
	if out.Lon > 180 {
		out.Lon -= 360
	}
	if out.Lon < -180 {
		out.Lon += 360
	}
	return out
}
