package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "softcopyright")
				So(manager.subsystem, ShouldEqual, "client")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sdk"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "sdk")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty option values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "softcopyright")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording client requests", func() {
			manager.RecordClientRequest("/copyright/list", "GET", "200", 12)
			manager.RecordClientRequest("/copyright/list", "GET", "200", 30)
			manager.RecordClientRequest("/copyright/create", "POST", "500", 8)

			Convey("Then counters should be labelled per endpoint and status", func() {
				So(testutil.ToFloat64(manager.clientRequests.WithLabelValues("/copyright/list", "GET", "200")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.clientRequests.WithLabelValues("/copyright/create", "POST", "500")), ShouldEqual, 1)
			})
		})

		Convey("When recording blob bytes", func() {
			manager.RecordBlobBytes("/api/download/code", 100)
			manager.RecordBlobBytes("/api/download/code", 0)
			manager.RecordBlobBytes("/api/download/code", 24)

			Convey("Then non-positive sizes should be ignored", func() {
				So(testutil.ToFloat64(manager.blobBytes.WithLabelValues("/api/download/code")), ShouldEqual, 124)
			})
		})

		Convey("When recording stream activity", func() {
			manager.RecordStreamOpen("/agenthub/api/generate-all-stream", "ok", 40)
			manager.RecordStreamEvent("data")
			manager.RecordStreamEvent("data")
			manager.RecordStreamEvent("error")

			Convey("Then stream counters should be updated", func() {
				So(testutil.ToFloat64(manager.streamOpens.WithLabelValues("/agenthub/api/generate-all-stream", "ok")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.streamEvents.WithLabelValues("data")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.streamEvents.WithLabelValues("error")), ShouldEqual, 1)
			})
		})

		Convey("When recording errors and stub requests", func() {
			manager.RecordClientError("/copyright/1", "status")
			manager.RecordServerRequest("copyright", "GET", "404", 1)

			Convey("Then they should be counted", func() {
				So(testutil.ToFloat64(manager.clientErrors.WithLabelValues("/copyright/1", "status")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.serverRequests.WithLabelValues("copyright", "GET", "404")), ShouldEqual, 1)
			})
		})
	})
}

func TestJobMetrics(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When jobs are queued and run", func() {
			manager.UpdateQueueDepth(3)
			manager.RecordJob("ok", 120)
			manager.RecordJob("ok", 80)
			manager.RecordJob("rejected_full", 0)

			Convey("Then depth and outcomes should be recorded", func() {
				So(testutil.ToFloat64(manager.queueDepth), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.jobs.WithLabelValues("ok")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.jobs.WithLabelValues("rejected_full")), ShouldEqual, 1)
				So(testutil.CollectAndCount(manager.jobDuration), ShouldEqual, 1)
			})
		})
	})
}

func TestMetricsDisabled(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		manager := NewManager(
			WithMetricsEnabled(false),
			WithPrometheusRegistry(prometheus.NewRegistry()),
		)

		Convey("When recording", func() {
			manager.RecordClientRequest("/x", "GET", "200", 1)
			manager.RecordStreamEvent("data")

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(manager.clientRequests.WithLabelValues("/x", "GET", "200")), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.streamEvents.WithLabelValues("data")), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRegistry(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When recording through package helpers", func() {
			So(func() {
				RecordClientRequest("/copyright/list", "GET", "200", 5)
				RecordClientError("/copyright/list", "transport")
				RecordBlobBytes("/api/download/manual", 10)
				RecordStreamOpen("/agenthub/api/generate-parallel", "ok", 3)
				RecordStreamEvent("data")
				RecordServerRequest("copyright", "GET", "200", 1)
			}, ShouldNotPanic)

			Convey("Then the custom registry should gather them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
