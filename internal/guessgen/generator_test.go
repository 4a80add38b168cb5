package guessgen

import (
	"context"
	"testing"

	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/scoremodel"
	"github.com/mlahde/locus/internal/domain/trilat"
	"github.com/mlahde/locus/internal/domain/validate"
	"github.com/mlahde/locus/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func initLogger(t *testing.T) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
}

func TestOffsetLocation(t *testing.T) {
	Convey("Given a reference point", t, func() {
		loc := model.Location{Lat: 60.17, Lon: 24.94}

		Convey("When displacing it by known offsets", func() {
			offsets := []float64{50, 1000, 25000, 200000}
			bearings := []float64{0, 0.7, 2.1, 4.5}

			Convey("Then the great-circle displacement matches within a percent", func() {
				for i, dist := range offsets {
					moved := offsetLocation(loc, bearings[i], dist)
					So(trilat.Distance(loc, moved), ShouldAlmostEqual, dist, dist*0.01)
				}
			})
		})
	})
}

func TestGenerateSingleGuess(t *testing.T) {
	Convey("Given a true location", t, func() {
		truePoint := model.Location{Lat: 60.17, Lon: 24.94}

		Convey("When generating exact guesses", func() {
			Convey("Then each guess validates and its score encodes the true distance", func() {
				for i := 0; i < 50; i++ {
					guess, err := generateSingleGuess("target", truePoint, 0)
					So(err, ShouldBeNil)
					So(validate.Guess(model.Guess{
						TargetID: guess.TargetID,
						Lat:      guess.Lat,
						Lon:      guess.Lon,
						Score:    guess.Score,
					}), ShouldBeNil)

					implied, err := scoremodel.ScoreToDistance(guess.Score)
					So(err, ShouldBeNil)
					actual := trilat.Distance(model.Location{Lat: guess.Lat, Lon: guess.Lon}, truePoint)
					So(implied, ShouldAlmostEqual, actual, actual*1e-9+1e-6)
				}
			})
		})

		Convey("When generating noisy guesses", func() {
			Convey("Then scores stay inside the game range", func() {
				for i := 0; i < 50; i++ {
					guess, err := generateSingleGuess("target", truePoint, 0.01)
					So(err, ShouldBeNil)
					So(guess.Score, ShouldBeGreaterThanOrEqualTo, minGeneratedScore)
					So(guess.Score, ShouldBeLessThanOrEqualTo, model.MaxScore)
				}
			})
		})
	})
}

func TestGenerateScenarios(t *testing.T) {
	initLogger(t)

	Convey("Given a generation config", t, func() {
		config := &Config{Targets: 4, GuessesPerTarget: 5}
		stats := &Stats{}

		Convey("When generating scenarios", func() {
			scenarios, err := generateScenarios(context.Background(), config, stats)
			So(err, ShouldBeNil)

			Convey("Then counts and stats line up", func() {
				So(scenarios, ShouldHaveLength, 4)
				for _, s := range scenarios {
					So(s.Guesses, ShouldHaveLength, 5)
				}
				So(stats.TargetsGenerated, ShouldEqual, 4)
				So(stats.GuessesGenerated, ShouldEqual, 20)
			})

			Convey("Then target ids are unique", func() {
				seen := make(map[string]bool)
				for _, s := range scenarios {
					So(seen[s.TargetID], ShouldBeFalse)
					seen[s.TargetID] = true
				}
			})
		})
	})
}
