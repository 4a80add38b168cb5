package config_test

import (
	"testing"

	"github.com/mlahde/locus/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DataFile, convey.ShouldEqual, "data/guesses.parquet")
			convey.So(cfg.BackupIntervalMinutes, convey.ShouldEqual, 10)
			convey.So(cfg.SolverTolerance, convey.ShouldEqual, 1e-5)
			convey.So(cfg.SolverMaxIterations, convey.ShouldEqual, 10_000_000)
		})
	})
}
