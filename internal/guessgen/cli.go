package guessgen

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mlahde/locus/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "run_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the guess generator tool.
func ShowHelp() {
	os.Stdout.WriteString(`Locus Guess Generator
=====================

Generates synthetic targets with score-consistent guesses, submits them
to a running engine and reports how far each estimate lands from the
known true location.

Usage:
  go run cmd/guessgen/main.go [options]

Options:
  -url string
        Base URL of the engine (default "http://localhost:8080")
  -targets int
        Number of synthetic targets to generate (default 20)
  -guesses int
        Guesses generated per target (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -noise float
        Relative score perturbation, 0 for exact scores (default 0)
  -output string
        Output file for generated scenarios (default: generated_scenarios_TIMESTAMP.json)
  -log string
        Log file for run output (default: run_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/guessgen/main.go

  # Stress the solver with noisy scores
  go run cmd/guessgen/main.go -targets 100 -guesses 8 -noise 0.002

  # Run against a non-default address
  go run cmd/guessgen/main.go -url http://localhost:9090 -verbose
`)
}
