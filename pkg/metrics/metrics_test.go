package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/salesdeck/pulse/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func TestGlobalManager(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then recording functions do not panic", func() {
			So(func() {
				metrics.RecordMetricsQuery()
				metrics.RecordAIQuery()
				metrics.RecordDegradedQuery()
				metrics.UpdateRowsProduced(12)
				metrics.RecordMeetingGroupsMatched(3)
				metrics.RecordMeetingGroupsOrphaned(1)
				metrics.RecordMeetingRecordsExcluded(2)
				metrics.RecordSheetRowDropped()
				metrics.RecordUpstreamFailure("vendor")
				metrics.RecordUpstreamFailure("meetings")
				metrics.RecordVendorLatency(42.0)
				metrics.RecordLLMLatency(900.0)
				metrics.RecordCacheRefresh()
				metrics.RecordCacheHit()
				metrics.RecordHTTPRequest("metrics-data", "GET", "200")
				metrics.RecordHTTPRequestDuration("metrics-data", "GET", "200", 7.5)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry is exposed", func() {
			reg := metrics.GetRegistry()
			So(reg, ShouldNotBeNil)

			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestNewManagerOptions(t *testing.T) {
	Convey("Given a manager with custom options", t, func() {
		// A fresh registry avoids duplicate registration with the global manager.
		m := metrics.NewManager(
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("suite"),
			metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			metrics.WithPrometheusRegistry(newTestRegistry()),
		)
		So(m, ShouldNotBeNil)
	})
}
