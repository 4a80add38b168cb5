// Package repository defines the durable guess store interface and errors.
package repository

import (
	"time"

	"github.com/mlahde/locus/pkg/logger"
)

// Option applies a configuration option to the GuessTable.
type Option func(*GuessTable)

// WithBackupDir sets the directory snapshots are written to. Defaults
// to a "backups" directory beside the table file.
func WithBackupDir(dir string) Option {
	return func(t *GuessTable) {
		if dir != "" {
			t.backupDir = dir
		}
	}
}

// WithBackupInterval sets the minimum time between snapshots.
func WithBackupInterval(interval time.Duration) Option {
	return func(t *GuessTable) {
		if interval > 0 {
			t.backupInterval = interval
		}
	}
}

// WithLogger sets the logger used for backup warnings.
func WithLogger(log logger.Logger) Option {
	return func(t *GuessTable) {
		if log != nil {
			t.log = log
		}
	}
}

// WithClock overrides the time source. Tests use it to step through
// backup intervals without sleeping.
func WithClock(now func() time.Time) Option {
	return func(t *GuessTable) {
		if now != nil {
			t.now = now
		}
	}
}
