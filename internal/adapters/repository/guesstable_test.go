package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mlahde/locus/internal/adapters/repository"
	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

func newTable(t *testing.T, opts ...repository.Option) (*repository.GuessTable, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "guesses.parquet")
	table, err := repository.NewGuessTable(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("new guess table: %v", err)
	}
	return table, path
}

func backupFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read backup dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestGuessTableAddAndQuery(t *testing.T) {
	Convey("Given an empty guess table", t, func() {
		ctx := context.Background()
		table, _ := newTable(t)

		Convey("When appending guesses for two targets", func() {
			So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100}), ShouldBeNil)
			So(table.Add(ctx, model.Guess{TargetID: "pic2", Lat: 61.0, Lon: 25.0, Score: 200}), ShouldBeNil)
			So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.1, Lon: 24.1, Score: 300}), ShouldBeNil)

			Convey("Then guesses come back per target in insertion order", func() {
				got := table.Guesses(ctx, "pic1")
				So(got, ShouldHaveLength, 2)
				So(got[0].Score, ShouldEqual, 100)
				So(got[1].Score, ShouldEqual, 300)
				So(table.Count(ctx), ShouldEqual, 3)
			})

			Convey("Then an unknown target yields an empty sequence", func() {
				So(table.Guesses(ctx, "nope"), ShouldBeEmpty)
			})
		})

		Convey("When appending an invalid guess", func() {
			err := table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 91.0, Lon: 10.0, Score: 100})

			Convey("Then the error names both taxonomies", func() {
				So(err, ShouldWrap, repository.ErrInvalidGuess)
				So(err, ShouldWrap, validate.ErrInvalidGuess)
			})

			Convey("Then nothing was persisted", func() {
				So(table.Count(ctx), ShouldEqual, 0)
				So(table.Guesses(ctx, "pic1"), ShouldBeEmpty)
			})
		})
	})
}

func TestGuessTableHasPerfect(t *testing.T) {
	Convey("Given a table with one perfect and one ordinary guess", t, func() {
		ctx := context.Background()
		table, _ := newTable(t)
		So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 30000}), ShouldBeNil)
		So(table.Add(ctx, model.Guess{TargetID: "pic2", Lat: 61.0, Lon: 25.0, Score: 29999}), ShouldBeNil)

		Convey("Then only the perfect target reports a perfect guess", func() {
			So(table.HasPerfect(ctx, "pic1"), ShouldBeTrue)
			So(table.HasPerfect(ctx, "pic2"), ShouldBeFalse)
			So(table.HasPerfect(ctx, "unknown"), ShouldBeFalse)
		})
	})
}

func TestGuessTableSurvivesRestart(t *testing.T) {
	Convey("Given a table with committed guesses", t, func() {
		ctx := context.Background()
		table, path := newTable(t)
		So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100}), ShouldBeNil)
		So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.1, Lon: 24.1, Score: 200}), ShouldBeNil)

		Convey("When reopening the same table file", func() {
			reopened, err := repository.NewGuessTable(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then every committed guess is still there, in order", func() {
				So(reopened.Count(ctx), ShouldEqual, 2)
				got := reopened.Guesses(ctx, "pic1")
				So(got[0].Score, ShouldEqual, 100)
				So(got[1].Score, ShouldEqual, 200)
			})
		})
	})
}

func TestGuessTableBackupRotation(t *testing.T) {
	Convey("Given a table with a steppable clock", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "guesses.parquet")
		backupDir := filepath.Join(dir, "backups")

		current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		table, err := repository.NewGuessTable(ctx, path,
			repository.WithBackupDir(backupDir),
			repository.WithBackupInterval(10*time.Minute),
			repository.WithClock(func() time.Time { return current }),
		)
		So(err, ShouldBeNil)

		Convey("When appending repeatedly within one interval", func() {
			for i := 0; i < 5; i++ {
				So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: float64(100 + i)}), ShouldBeNil)
				current = current.Add(time.Minute)
			}

			Convey("Then at most one snapshot exists", func() {
				So(backupFiles(t, backupDir), ShouldHaveLength, 1)
			})

			Convey("And once the interval elapses the next append snapshots again", func() {
				current = current.Add(10 * time.Minute)
				So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 900}), ShouldBeNil)
				So(backupFiles(t, backupDir), ShouldHaveLength, 2)
			})
		})

		Convey("When a snapshot is taken", func() {
			So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100}), ShouldBeNil)

			Convey("Then its name encodes the UTC timestamp", func() {
				names := backupFiles(t, backupDir)
				So(names, ShouldHaveLength, 1)
				So(names[0], ShouldEqual, "guesses_backup_20250301T120000Z.parquet")
			})

			Convey("Then names sort chronologically across intervals", func() {
				current = current.Add(11 * time.Minute)
				So(table.Add(ctx, model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 200}), ShouldBeNil)
				names := backupFiles(t, backupDir)
				So(names, ShouldHaveLength, 2)
				So(names[0], ShouldEqual, "guesses_backup_20250301T120000Z.parquet")
				So(names[1], ShouldEqual, "guesses_backup_20250301T121100Z.parquet")
				So(strings.Compare(names[0], names[1]), ShouldEqual, -1)
			})
		})
	})
}
