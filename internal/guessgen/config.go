package guessgen

import (
	"time"

	"github.com/mlahde/locus/internal/domain/model"
)

// Config holds configuration for a generation run
type Config struct {
	BaseURL          string        // Base URL of the engine
	Targets          int           // Number of synthetic targets
	GuessesPerTarget int           // Guesses generated per target
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	ScoreNoise       float64       // Relative score perturbation, 0 for exact scores
	OutputFile       string        // Output file for scenarios
	LogFile          string        // Log file for run output
	Verbose          bool          // Enable verbose logging
}

// GuessPayload mirrors the POST /guesses request body.
type GuessPayload struct {
	TargetID string  `json:"target_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Score    float64 `json:"score"`
}

// Scenario is one synthetic target: its hidden true location and the
// guesses derived from it.
type Scenario struct {
	TargetID string         `json:"target_id"`
	True     model.Location `json:"true_location"`
	Guesses  []GuessPayload `json:"guesses"`
}

// TargetResult is the outcome of one target's round trip: the engine's
// estimate compared against the known true location.
type TargetResult struct {
	TargetID    string
	True        model.Location
	Estimate    model.Location
	ErrorMeters float64
	Err         error
}

// Stats holds run statistics
type Stats struct {
	TargetsGenerated   int
	GuessesGenerated   int
	GuessesSubmitted   int
	GuessesRecorded    int
	GuessesSkipped     int
	GuessesFailed      int
	EstimatesRetrieved int
	EstimatesMissing   int
	MeanErrorMeters    float64
	WorstErrorMeters   float64
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
