// Package importer seeds the guess table from an xlsx workbook.
//
// Each sheet carries one block of guess rows anchored at a fixed
// upper-left cell, four columns wide: target id, latitude, longitude,
// score. Rows pass through the same validation as live recording plus
// the run-based acceptance policy, and exact duplicate rows are
// dropped keeping the first occurrence.
package importer

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mlahde/locus/internal/adapters/repository"
	"github.com/mlahde/locus/internal/domain/dedupe"
	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/validate"
	"github.com/mlahde/locus/pkg/logger"
)

// defaultAnchor matches the layout of the historical workbook.
const defaultAnchor = "B3"

// tableColumns is the width of a guess block on a sheet.
const tableColumns = 4

// Importer extracts guesses from a workbook and writes the initial
// parquet table.
type Importer struct {
	anchor       string
	summarySheet string
	log          logger.Logger
}

// New creates an importer.
func New(opts ...Option) *Importer {
	i := &Importer{anchor: defaultAnchor}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import extracts every accepted guess from the workbook at xlsxPath
// and writes them as one parquet table at tablePath. It returns the
// number of guesses written.
func (i *Importer) Import(ctx context.Context, xlsxPath, tablePath string) (int, error) {
	guesses, err := i.Extract(ctx, xlsxPath)
	if err != nil {
		return 0, err
	}
	if len(guesses) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoRows, xlsxPath)
	}
	if err := repository.WriteTable(tablePath, guesses); err != nil {
		return 0, fmt.Errorf("writing %s: %w", tablePath, err)
	}
	return len(guesses), nil
}

// Extract reads every sheet of the workbook, applies validation, the
// run policy and duplicate filtering, and returns the accepted guesses
// in sheet order.
func (i *Importer) Extract(ctx context.Context, xlsxPath string) ([]model.Guess, error) {
	col, row, err := excelize.CellNameToCoordinates(i.anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrAnchor, i.anchor, err)
	}

	book, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWorkbook, xlsxPath, err)
	}
	defer book.Close()

	filter := dedupe.NewFilter()
	var accepted []model.Guess
	for _, sheet := range book.GetSheetList() {
		if sheet == i.summarySheet {
			continue
		}
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %w", ErrWorkbook, sheet, err)
		}

		valid := validate.Runs(tableBlock(rows, row, col))
		kept := 0
		for _, g := range valid {
			if filter.SeenAndRecord(g) {
				continue
			}
			accepted = append(accepted, g)
			kept++
		}
		if i.log != nil {
			i.log.Info(ctx, "imported sheet",
				logger.String("sheet", sheet),
				logger.Int("accepted", len(valid)),
				logger.Int("kept", kept))
		}
	}
	return accepted, nil
}

// tableBlock cuts the raw sheet down to the guess block: rows from the
// anchor row on, columns from the anchor column across the block
// width. Short rows pass through unchanged so validation rejects them
// and terminates the surrounding run.
func tableBlock(rows [][]string, anchorRow, anchorCol int) [][]string {
	if anchorRow > len(rows) {
		return nil
	}
	block := make([][]string, 0, len(rows)-anchorRow+1)
	for _, cells := range rows[anchorRow-1:] {
		if anchorCol > len(cells) {
			block = append(block, nil)
			continue
		}
		cells = cells[anchorCol-1:]
		if len(cells) > tableColumns {
			cells = cells[:tableColumns]
		}
		block = append(block, cells)
	}
	return block
}
