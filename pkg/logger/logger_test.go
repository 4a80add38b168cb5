package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When logging at every level", func() {
			ctx := context.Background()
			log := Get()

			Convey("Then no call should panic", func() {
				So(func() {
					log.Debug(ctx, "debug", String("k", "v"))
					log.Info(ctx, "info", Int("n", 1))
					log.Warn(ctx, "warn", Float64("f", 1.5))
					log.Error(ctx, "error", Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})

		Convey("When deriving a named logger", func() {
			named := Named("store")

			Convey("Then it should be usable", func() {
				So(named, ShouldNotBeNil)
				So(func() { named.Info(context.Background(), "hello") }, ShouldNotPanic)
			})
		})

		Convey("When setting levels from strings", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			So(SetLevelString("WARN"), ShouldBeNil)
			So(SetLevelString(""), ShouldBeNil)
			So(SetLevelString("nope"), ShouldNotBeNil)

			Convey("Then explicit levels also apply", func() {
				So(func() { SetLevel(slog.LevelInfo) }, ShouldNotPanic)
			})
		})

		Convey("When syncing", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}
