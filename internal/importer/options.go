package importer

import "github.com/mlahde/locus/pkg/logger"

// Option applies a configuration option to the Importer.
type Option func(*Importer)

// WithAnchor sets the upper-left cell of the guess table on each sheet.
func WithAnchor(cell string) Option {
	return func(i *Importer) {
		i.anchor = cell
	}
}

// WithSummarySheet names a sheet to skip entirely. The historical
// workbook kept a score-conversion reference sheet next to the guess
// sheets.
func WithSummarySheet(name string) Option {
	return func(i *Importer) {
		i.summarySheet = name
	}
}

// WithLogger sets the logger used for per-sheet progress.
func WithLogger(log logger.Logger) Option {
	return func(i *Importer) {
		i.log = log
	}
}
