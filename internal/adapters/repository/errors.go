package repository

import "errors"

// Sentinel kinds for guess store errors.
var (
	ErrInvalidGuess = errors.New("guess rejected")
	ErrPersist      = errors.New("persisting guess table failed")
	ErrBackup       = errors.New("snapshot backup failed")
)
