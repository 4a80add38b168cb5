package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/validate"
	"github.com/mlahde/locus/pkg/logger"
	"github.com/mlahde/locus/pkg/metrics"
)

// Parquet-backed, append-only Store implementation.
//
// The whole table lives in one flat parquet file. Every successful
// append rewrites the file through a temp-file rename, so a committed
// guess survives a crash immediately after Add returns. Reads are
// served from memory under a shared lock and copy out, so estimation
// queries always observe a consistent snapshot.

// defaultBackupInterval is the minimum spacing between snapshots.
const defaultBackupInterval = 10 * time.Minute

// File permission constants.
const (
	dirPermission  = 0o750
	filePermission = 0o600
)

// guessRow is the on-disk column layout: one typed row per guess.
type guessRow struct {
	Pic   string  `parquet:"pic"`
	Lat   float64 `parquet:"lat"`
	Lon   float64 `parquet:"lon"`
	Score float64 `parquet:"score"`
}

// GuessTable implements Store on a single parquet file plus a side
// directory of timestamped full snapshots.
type GuessTable struct {
	mu sync.RWMutex

	path           string
	backupDir      string
	backupInterval time.Duration
	now            func() time.Time
	log            logger.Logger

	rows     []model.Guess
	byTarget map[string][]int // target id -> row indexes, insertion order
}

// NewGuessTable opens (or creates) the table at path and loads any
// existing rows, so committed guesses survive process restarts.
func NewGuessTable(ctx context.Context, path string, opts ...Option) (*GuessTable, error) {
	t := &GuessTable{
		path:           path,
		backupDir:      filepath.Join(filepath.Dir(path), "backups"),
		backupInterval: defaultBackupInterval,
		now:            time.Now,
		byTarget:       make(map[string][]int),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.MkdirAll(t.backupDir, dirPermission); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if _, err := os.Stat(path); err == nil {
		stored, err := parquet.ReadFile[guessRow](path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrPersist, path, err)
		}
		t.rows = make([]model.Guess, 0, len(stored))
		for _, r := range stored {
			t.index(model.Guess{TargetID: r.Pic, Lat: r.Lat, Lon: r.Lon, Score: r.Score})
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	metrics.UpdateTotalGuesses(len(t.rows))
	metrics.UpdateTrackedTargets(len(t.byTarget))
	return t, nil
}

// index appends g to the in-memory view.
func (t *GuessTable) index(g model.Guess) {
	t.byTarget[g.TargetID] = append(t.byTarget[g.TargetID], len(t.rows))
	t.rows = append(t.rows, g)
}

// Add validates g, appends it to the durable table and persists the
// table immediately. After a successful append it takes a snapshot
// backup when one is due; a failed backup is surfaced as a warning and
// a metric, never as an error, since the append already committed.
func (t *GuessTable) Add(ctx context.Context, g model.Guess) error {
	if err := validate.Guess(g); err != nil {
		metrics.RecordGuessRejected()
		return fmt.Errorf("%w: %w", ErrInvalidGuess, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.index(g)
	if err := t.persist(); err != nil {
		// Roll back the in-memory append so the view matches disk.
		t.rows = t.rows[:len(t.rows)-1]
		idx := t.byTarget[g.TargetID]
		if len(idx) == 1 {
			delete(t.byTarget, g.TargetID)
		} else {
			t.byTarget[g.TargetID] = idx[:len(idx)-1]
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	metrics.RecordGuessRecorded()
	metrics.UpdateTotalGuesses(len(t.rows))
	metrics.UpdateTrackedTargets(len(t.byTarget))

	if err := t.maybeBackup(); err != nil {
		metrics.RecordBackupFailure()
		if t.log != nil {
			t.log.Warn(ctx, "snapshot backup failed", logger.Error(err))
		}
	}
	return nil
}

// persist writes the whole table to a temp file and renames it over
// the table path. Callers hold the write lock.
func (t *GuessTable) persist() error {
	return WriteTable(t.path, t.rows)
}

// WriteTable writes guesses as one flat parquet table through a
// temp-file rename, so readers never observe a partial table. Every
// live append goes through it; the bulk importer uses it to seed an
// initial table.
func WriteTable(path string, guesses []model.Guess) error {
	stored := make([]guessRow, len(guesses))
	for i, g := range guesses {
		stored[i] = guessRow{Pic: g.TargetID, Lat: g.Lat, Lon: g.Lon, Score: g.Score}
	}

	tmp := path + ".tmp"
	if err := parquet.WriteFile(tmp, stored); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Guesses returns the stored sequence for a target in insertion order.
func (t *GuessTable) Guesses(ctx context.Context, targetID string) []model.Guess {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.byTarget[targetID]
	out := make([]model.Guess, len(idx))
	for i, row := range idx {
		out[i] = t.rows[row]
	}
	return out
}

// HasPerfect reports whether the target's true location is already
// pinned by a maximum-score guess.
func (t *GuessTable) HasPerfect(ctx context.Context, targetID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, row := range t.byTarget[targetID] {
		if t.rows[row].IsPerfect() {
			return true
		}
	}
	return false
}

// Count returns the total number of guesses across all targets.
func (t *GuessTable) Count(ctx context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
