// Package service provides the core location estimation engine that
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	repository "github.com/mlahde/locus/internal/adapters/repository"
	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/trilat"
	"github.com/mlahde/locus/internal/domain/types"
	"github.com/mlahde/locus/pkg/logger"
	"github.com/mlahde/locus/pkg/metrics"
)

// Default engine configuration.
const (
	defaultDataFile       = "data/guesses.parquet"
	defaultBackupInterval = 10 * time.Minute
)

// Service wires the guess store and the trilateration solver. It owns
// the durable table exclusively; estimates are recomputed from the
// store on every request, never cached.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	solver *trilat.Solver

	// Configuration
	dataFile       string
	backupDir      string
	backupInterval time.Duration
	solverOpts     []trilat.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataFile sets the path of the durable guess table.
func WithDataFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataFile = path
		}
	}
}

// WithBackupDir sets the snapshot directory.
func WithBackupDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.backupDir = dir
		}
	}
}

// WithBackupInterval sets the minimum time between snapshots.
func WithBackupInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.backupInterval = interval
		}
	}
}

// WithSolverTolerance sets the optimizer's convergence tolerance.
func WithSolverTolerance(tol float64) Option {
	return func(s *Service) {
		if tol > 0 {
			s.solverOpts = append(s.solverOpts, trilat.WithTolerance(tol))
		}
	}
}

// WithSolverMaxIterations caps optimizer iterations per estimate.
func WithSolverMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.solverOpts = append(s.solverOpts, trilat.WithMaxIterations(n))
		}
	}
}

// WithStore injects a prebuilt store. Tests use it; by default Start
// opens the parquet table at the configured path.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataFile:       defaultDataFile,
		backupInterval: defaultBackupInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the durable store and builds the solver.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting location estimation engine...")

	if s.store == nil {
		backupDir := s.backupDir
		if backupDir == "" {
			backupDir = filepath.Join(filepath.Dir(s.dataFile), "backups")
		}
		store, err := repository.NewGuessTable(ctx, s.dataFile,
			repository.WithBackupDir(backupDir),
			repository.WithBackupInterval(s.backupInterval),
			repository.WithLogger(s.logger),
		)
		if err != nil {
			return err
		}
		s.store = store
		s.backupDir = backupDir
	}
	s.solver = trilat.NewSolver(s.solverOpts...)

	s.started = true
	s.logger.Info(ctx, "location estimation engine started",
		logger.String("dataFile", s.dataFile),
		logger.String("backupDir", s.backupDir),
		logger.Int("storedGuesses", s.store.Count(ctx)),
	)
	return nil
}

// Stop shuts the engine down. The store persists on every append, so
// there is nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "location estimation engine stopped")
	s.started = false
}

// RecordGuess validates and durably appends one guess. It reports
// whether the guess was recorded: once a perfect guess exists for a
// target, further guesses for it are acknowledged but not appended,
// since ground truth is already known.
func (s *Service) RecordGuess(ctx context.Context, g model.Guess) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store.HasPerfect(ctx, g.TargetID) {
		metrics.RecordGuessSkipped()
		s.logger.Debug(ctx, "target already solved, skipping guess",
			logger.String("targetID", g.TargetID),
		)
		return false, nil
	}
	if err := s.store.Add(ctx, g); err != nil {
		return false, err
	}
	s.logger.Debug(ctx, "guess recorded",
		logger.String("targetID", g.TargetID),
		logger.Float64("score", g.Score),
	)
	return true, nil
}

// EstimateLocation computes the best estimate of the target's true
// coordinates from the guesses stored so far. It returns
// trilat.ErrInsufficientGuesses when fewer than three guesses exist
// and none is perfect.
func (s *Service) EstimateLocation(ctx context.Context, targetID string) (model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guesses := s.store.Guesses(ctx, targetID)

	start := time.Now()
	loc, err := s.solver.EstimateLocation(guesses)
	metrics.RecordSolverLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordEstimateNoData()
		return model.Location{}, err
	}

	metrics.RecordEstimateServed()
	s.logger.Debug(ctx, "estimate computed",
		logger.String("targetID", targetID),
		logger.Int("guesses", len(guesses)),
		logger.Float64("lat", loc.Lat),
		logger.Float64("lon", loc.Lon),
	)
	return loc, nil
}

// GuessesFor returns the stored sequence for a target in API shape.
func (s *Service) GuessesFor(ctx context.Context, targetID string) []types.GuessRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guesses := s.store.Guesses(ctx, targetID)
	records := make([]types.GuessRecord, len(guesses))
	for i, g := range guesses {
		records[i] = types.GuessRecord{
			TargetID: g.TargetID,
			Lat:      g.Lat,
			Lon:      g.Lon,
			Score:    g.Score,
		}
	}
	return records
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"dataFile": s.dataFile,
	}
	if s.started {
		total := s.store.Count(context.Background())
		stats["totalGuesses"] = total
		metrics.UpdateTotalGuesses(total)
	}
	return stats
}
