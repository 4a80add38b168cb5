package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/mlahde/locus/internal/importer"
	"github.com/mlahde/locus/pkg/logger"
)

const defaultImportTimeout = 5 * time.Minute

func main() {
	var (
		workbook = flag.String("workbook", "", "Path to the xlsx workbook to import")
		table    = flag.String("table", "data/guesses.parquet", "Path of the parquet table to write")
		anchor   = flag.String("anchor", "B3", "Upper-left cell of the guess block on each sheet")
		skip     = flag.String("skip-sheet", "", "Name of a summary sheet to skip")
	)
	flag.Parse()

	if *workbook == "" {
		os.Stderr.WriteString("usage: import -workbook <file.xlsx> [-table <file.parquet>] [-anchor <cell>] [-skip-sheet <name>]\n")
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultImportTimeout)
	defer cancel()

	imp := importer.New(
		importer.WithAnchor(*anchor),
		importer.WithSummarySheet(*skip),
		importer.WithLogger(log),
	)
	n, err := imp.Import(ctx, *workbook, *table)
	if err != nil {
		log.Error(ctx, "import failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "import complete", logger.String("table", *table), logger.Int("guesses", n))
}
