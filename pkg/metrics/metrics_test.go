package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording engine events", func() {
			Convey("Then helpers should not panic", func() {
				So(func() {
					RecordGuessRecorded()
					RecordGuessRejected()
					RecordGuessSkipped()
					RecordBackup()
					RecordBackupFailure()
					RecordEstimateServed()
					RecordEstimateNoData()
					RecordSolverLatency(12.5)
					UpdateTotalGuesses(10)
					UpdateTrackedTargets(3)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
					RecordSystemGCPauseTime(0.3)
					RecordHTTPRequest("guesses", "POST", "201")
					RecordHTTPRequestDuration("guesses", "POST", "201", 4.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then it should gather without error", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
