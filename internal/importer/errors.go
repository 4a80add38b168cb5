package importer

import "errors"

// Sentinel errors for bulk import failures.
var (
	ErrWorkbook = errors.New("failed to read workbook")
	ErrAnchor   = errors.New("invalid table anchor")
	ErrNoRows   = errors.New("workbook produced no valid guesses")
)
