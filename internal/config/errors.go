package config

import (
	"errors"
)

// Sentinel error kinds for configuration loading; callers match them
// with errors.Is. ErrInvalidConfig marks a value that failed
// validation, ErrLoadConfig a file or env layer that could not be read.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
