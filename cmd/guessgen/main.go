package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/mlahde/locus/internal/guessgen"
)

// Default configuration constants.
const (
	defaultTargets          = 20
	defaultGuessesPerTarget = 5
	defaultWorkers          = 2 // multiplier for runtime.NumCPU()
	defaultTimeout          = 30 * time.Second
	defaultRunTimeout       = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the engine")
		targets    = flag.Int("targets", defaultTargets, "Number of synthetic targets to generate")
		guesses    = flag.Int("guesses", defaultGuessesPerTarget, "Guesses generated per target")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		noise      = flag.Float64("noise", 0, "Relative score perturbation, 0 for exact scores")
		outputFile = flag.String("output", "", "Output file for generated scenarios (default: generated_scenarios_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: run_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		guessgen.ShowHelp()
		return
	}

	if err := guessgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &guessgen.Config{
		BaseURL:          *baseURL,
		Targets:          *targets,
		GuessesPerTarget: *guesses,
		Workers:          *workers,
		Timeout:          *timeout,
		ScoreNoise:       *noise,
		OutputFile:       *outputFile,
		LogFile:          *logFile,
		Verbose:          *verbose,
	}

	if err := guessgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		return
	}
}
