// Package validate checks candidate guesses before they reach the store.
//
// Live recording validates one guess at a time with Guess. The offline
// bulk importer additionally applies the run-based acceptance policy of
// Runs, which mirrors how the historical spreadsheet was laid out: one
// target per contiguous block of rows.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mlahde/locus/internal/domain/model"
)

// placeholderTarget is the literal string a broken upstream serializer
// emits for a missing target id. It is never a valid target.
const placeholderTarget = "None"

// fieldsPerRow is the exact column count of a raw guess row.
const fieldsPerRow = 4

// Guess reports whether g is a well-formed guess: a usable target id,
// coordinates within latitude/longitude bounds and a score within the
// game's range. It has no side effects.
func Guess(g model.Guess) error {
	switch {
	case strings.TrimSpace(g.TargetID) == "":
		return fmt.Errorf("%w: empty target id", ErrInvalidGuess)
	case g.TargetID == placeholderTarget:
		return fmt.Errorf("%w: placeholder target id %q", ErrInvalidGuess, g.TargetID)
	case g.Lat < -90 || g.Lat > 90:
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidGuess, g.Lat)
	case g.Lon < -180 || g.Lon > 180:
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidGuess, g.Lon)
	case g.Score < model.MinScore || g.Score > model.MaxScore:
		return fmt.Errorf("%w: score %v outside [%v, %v]", ErrInvalidGuess, g.Score, model.MinScore, model.MaxScore)
	}
	return nil
}

// Row parses a raw four-field row (target id, lat, lon, score) into a
// Guess and validates it. Rows with a missing or extra field, or with
// non-numeric coordinates or score, are rejected.
func Row(cells []string) (model.Guess, error) {
	if len(cells) != fieldsPerRow {
		return model.Guess{}, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidGuess, fieldsPerRow, len(cells))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(cells[1]), 64)
	if err != nil {
		return model.Guess{}, fmt.Errorf("%w: latitude %q is not a number", ErrInvalidGuess, cells[1])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(cells[2]), 64)
	if err != nil {
		return model.Guess{}, fmt.Errorf("%w: longitude %q is not a number", ErrInvalidGuess, cells[2])
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(cells[3]), 64)
	if err != nil {
		return model.Guess{}, fmt.Errorf("%w: score %q is not a number", ErrInvalidGuess, cells[3])
	}
	g := model.Guess{
		TargetID: strings.TrimSpace(cells[0]),
		Lat:      lat,
		Lon:      lon,
		Score:    score,
	}
	if err := Guess(g); err != nil {
		return model.Guess{}, err
	}
	return g, nil
}

// Runs applies the bulk-import acceptance policy to raw rows: maximal
// runs of consecutive valid rows are kept only when every row in the
// run names the same target. A mixed-target run is discarded whole, not
// just the offending row. An invalid row terminates the current run.
//
// This quirk matches the layout of the historical spreadsheet (one
// target per table block); live recording never uses it.
func Runs(rows [][]string) []model.Guess {
	var accepted []model.Guess
	var run []model.Guess

	flush := func() {
		if sameTarget(run) {
			accepted = append(accepted, run...)
		}
		run = nil
	}

	for _, row := range rows {
		g, err := Row(row)
		if err != nil {
			flush()
			continue
		}
		run = append(run, g)
	}
	flush()
	return accepted
}

// sameTarget reports whether every guess in run shares one target id.
// An empty run is vacuously rejected (nothing to accept).
func sameTarget(run []model.Guess) bool {
	if len(run) == 0 {
		return false
	}
	for _, g := range run[1:] {
		if g.TargetID != run[0].TargetID {
			return false
		}
	}
	return true
}
