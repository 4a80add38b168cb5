package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LOCUS_CONFIG is set
//  3. env (prefix LOCUS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LOCUS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LOCUS_ADDR, LOCUS_DATA_FILE, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("LOCUS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "locus_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DataFile == "":
		return nil, fmt.Errorf("%w: data_file must not be empty", ErrInvalidConfig)
	case cfg.BackupIntervalMinutes <= 0:
		return nil, fmt.Errorf("%w: backup_interval_minutes must be positive", ErrInvalidConfig)
	case cfg.SolverTolerance <= 0:
		return nil, fmt.Errorf("%w: solver_tolerance must be positive", ErrInvalidConfig)
	case cfg.SolverMaxIterations <= 0:
		return nil, fmt.Errorf("%w: solver_max_iterations must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
