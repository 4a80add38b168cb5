package dedupe_test

import (
	"testing"

	"github.com/mlahde/locus/internal/domain/dedupe"
	"github.com/mlahde/locus/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilter(t *testing.T) {
	Convey("Given an empty filter", t, func() {
		f := dedupe.NewFilter()

		Convey("When recording a row for the first time", func() {
			g := model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100}

			Convey("Then it is not reported as seen", func() {
				So(f.SeenAndRecord(g), ShouldBeFalse)
				So(f.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same row twice", func() {
			g := model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100}
			So(f.SeenAndRecord(g), ShouldBeFalse)

			Convey("Then the repeat is flagged and not counted again", func() {
				So(f.SeenAndRecord(g), ShouldBeTrue)
				So(f.Size(), ShouldEqual, 1)
			})
		})

		Convey("When rows differ in any field", func() {
			base := model.Guess{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 100}
			So(f.SeenAndRecord(base), ShouldBeFalse)

			variants := []model.Guess{
				{TargetID: "pic2", Lat: 60.0, Lon: 24.0, Score: 100},
				{TargetID: "pic1", Lat: 60.1, Lon: 24.0, Score: 100},
				{TargetID: "pic1", Lat: 60.0, Lon: 24.1, Score: 100},
				{TargetID: "pic1", Lat: 60.0, Lon: 24.0, Score: 200},
			}

			Convey("Then each variant passes as new", func() {
				for _, g := range variants {
					So(f.SeenAndRecord(g), ShouldBeFalse)
				}
				So(f.Size(), ShouldEqual, 5)
			})
		})
	})

	Convey("Given a filter presized with a capacity hint", t, func() {
		f := dedupe.NewFilter(dedupe.WithCapacity(128))

		Convey("Then it behaves like an empty filter", func() {
			So(f.Size(), ShouldEqual, 0)
			So(f.SeenAndRecord(model.Guess{TargetID: "pic1", Lat: 1, Lon: 2, Score: 3}), ShouldBeFalse)
			So(f.Size(), ShouldEqual, 1)
		})
	})
}
