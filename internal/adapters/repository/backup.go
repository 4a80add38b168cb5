package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlahde/locus/pkg/metrics"
)

// Snapshot naming: <stem>_backup_<UTC timestamp><ext>, whole-second
// resolution. The layout sorts chronologically, so the newest snapshot
// and its age are recovered by parsing names alone, never file
// metadata.
const (
	backupMarker     = "_backup_"
	backupTimeLayout = "20060102T150405Z"
)

// maybeBackup writes a full snapshot of the table file when no backup
// exists yet or at least one backup interval has elapsed since the
// latest one. Callers hold the write lock.
func (t *GuessTable) maybeBackup() error {
	latest, err := t.latestBackupTime()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackup, err)
	}
	now := t.now().UTC()
	if !latest.IsZero() && now.Sub(latest) < t.backupInterval {
		return nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackup, err)
	}
	name := t.backupName(now)
	if err := os.WriteFile(filepath.Join(t.backupDir, name), data, filePermission); err != nil {
		return fmt.Errorf("%w: %w", ErrBackup, err)
	}
	metrics.RecordBackup()
	return nil
}

// backupName builds the snapshot filename for ts.
func (t *GuessTable) backupName(ts time.Time) string {
	base := filepath.Base(t.path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + backupMarker + ts.UTC().Format(backupTimeLayout) + ext
}

// latestBackupTime scans the backup directory and returns the
// timestamp of the newest snapshot, parsed from its filename. The zero
// time means no snapshot exists.
func (t *GuessTable) latestBackupTime() (time.Time, error) {
	entries, err := os.ReadDir(t.backupDir)
	if err != nil {
		return time.Time{}, err
	}

	base := filepath.Base(t.path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + backupMarker

	var latest time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		ts, err := time.Parse(backupTimeLayout, stamp)
		if err != nil {
			// Foreign files in the backup directory are ignored.
			continue
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	return latest, nil
}
