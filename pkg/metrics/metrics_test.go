package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithHTTPBuckets([]float64{5, 50}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should apply", func() {
				So(m, ShouldNotBeNil)
				So(m.namespace, ShouldEqual, "test")
				So(m.subsystem, ShouldEqual, "unit")
				So(m.histogramBuckets, ShouldResemble, []float64{0.1, 1})
				So(m.httpBuckets, ShouldResemble, []float64{5, 50})
			})

			Convey("And empty options should leave defaults alone", func() {
				d := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(prometheus.NewRegistry()))
				So(d.namespace, ShouldEqual, "secondary")
				So(d.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})

		Convey("When registering twice on the same registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording run metrics", func() {
			before := testutil.ToFloat64(globalManager.runsTotal)
			RecordRunStarted()
			RecordRecordsEvaluated(3)
			RecordRunCompleted(25 * time.Millisecond)

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.runsTotal), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.lastRunUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When recording labelled metrics", func() {
			RecordRunFailure("duplicate_player")
			RecordCategoryAssignment("tiered", "Elite")
			RecordDataIssue("missing_ras")
			UpdatePositionGroupSize("CB", 7)
			RecordDatasetRows("secondary_ranks_prepared", 7)
			RecordUnrecognizedPosition()
			RecordSnapshotPublished(12)
			RecordRepositoryQueryLatency(0.4)

			Convey("Then each series should be readable", func() {
				So(testutil.ToFloat64(globalManager.groupSize.WithLabelValues("CB")), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.repositoryPlayers), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.categoryAssignments.WithLabelValues("tiered", "Elite")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.runFailures.WithLabelValues("duplicate_player")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/rankings", "GET", "200")
				RecordHTTPRequestDuration("/rankings", "GET", "200", 12.5)
			}, ShouldNotPanic)
		})

		Convey("When gathering the registry", func() {
			mfs, err := GetRegistry().Gather()

			Convey("Then the engine families should be present", func() {
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, mf := range mfs {
					names[mf.GetName()] = true
				}
				So(names["secondary_engine_runs_total"], ShouldBeTrue)
				So(names["secondary_engine_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
