// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Layer defaults, optional YAML file, then environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataFile is the path of the durable guess table.
	DataFile string `koanf:"data_file"`

	// BackupDir holds timestamped snapshots of the guess table.
	// Empty means a "backups" directory beside DataFile.
	BackupDir string `koanf:"backup_dir"`

	// BackupIntervalMinutes is the minimum spacing between snapshots.
	BackupIntervalMinutes int `koanf:"backup_interval_minutes"`

	// SolverTolerance is the relative convergence tolerance of the
	// trilateration optimizer.
	SolverTolerance float64 `koanf:"solver_tolerance"`

	// SolverMaxIterations caps optimizer iterations per estimate.
	SolverMaxIterations int `koanf:"solver_max_iterations"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		DataFile:              "data/guesses.parquet",
		BackupDir:             "",
		BackupIntervalMinutes: 10,
		SolverTolerance:       1e-5,
		SolverMaxIterations:   10_000_000,
	}
}
