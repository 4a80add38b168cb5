package guessgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mlahde/locus/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete accuracy run: generate scenarios, submit
// their guesses, then compare the engine's estimates against the known
// true locations.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting locus accuracy run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("targets", config.Targets),
		logger.Int("guessesPerTarget", config.GuessesPerTarget),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Float64("scoreNoise", config.ScoreNoise),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate scenarios
	scenarios, err := generateScenarios(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("scenario generation failed: %w", err)
	}

	// Step 3: Submit guesses concurrently
	if err := submitGuesses(ctx, config, scenarios, stats); err != nil {
		return fmt.Errorf("guess submission failed: %w", err)
	}

	// Step 4: Brief settle; appends are synchronous so this only covers
	// requests still in flight at the tail of the pool.
	time.Sleep(SettleDelay)

	// Step 5: Retrieve estimates concurrently
	results, err := retrieveEstimates(ctx, config, scenarios, stats)
	if err != nil {
		return fmt.Errorf("estimate retrieval failed: %w", err)
	}

	// Step 6: Compare estimates against true locations
	reportAccuracy(ctx, config, results, stats)

	// Step 7: Save scenarios to file
	if err := saveScenariosToFile(ctx, config, scenarios); err != nil {
		logger.Get().Warn(ctx, "failed to save scenarios to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "run completed successfully")
	return nil
}

// checkServiceHealth verifies the engine is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 response is healthy (the endpoint serves Prometheus metrics).
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveScenariosToFile saves the generated scenarios to a JSON file so
// a run can be replayed or inspected.
func saveScenariosToFile(ctx context.Context, config *Config, scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_scenarios_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if err := writeScenarioJSON(file, scenarios); err != nil {
		return err
	}

	logger.Get().Info(ctx, "scenarios saved to file", logger.String("filename", filename))
	return nil
}

// writeScenarioJSON writes scenarios as an indented JSON array.
func writeScenarioJSON(w io.Writer, scenarios []Scenario) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scenarios); err != nil {
		return fmt.Errorf("failed to encode scenarios: %w", err)
	}
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, guessesPerSecond float64

	if stats.GuessesSubmitted > 0 {
		successRate = float64(stats.GuessesRecorded) / float64(stats.GuessesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		guessesPerSecond = float64(stats.GuessesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("targetsGenerated", stats.TargetsGenerated),
		logger.Int("guessesGenerated", stats.GuessesGenerated),
		logger.Int("guessesSubmitted", stats.GuessesSubmitted),
		logger.Int("guessesRecorded", stats.GuessesRecorded),
		logger.Int("guessesSkipped", stats.GuessesSkipped),
		logger.Int("guessesFailed", stats.GuessesFailed),
		logger.Int("estimatesRetrieved", stats.EstimatesRetrieved),
		logger.Int("estimatesMissing", stats.EstimatesMissing),
		logger.Float64("meanErrorMeters", stats.MeanErrorMeters),
		logger.Float64("worstErrorMeters", stats.WorstErrorMeters),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("guessesPerSecond", guessesPerSecond))
}
