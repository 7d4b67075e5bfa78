package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qctracker"

var (
	RecordsSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "records_saved_total", Help: "Saved QC records by kind (create|edit|rework)",
	}, []string{"kind"})
	SlotConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "slot_conflicts_total", Help: "Rejected submissions for an occupied slot",
	})
	ValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "validation_failures_total", Help: "Rejected submissions by entity",
	}, []string{"entity"})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests",
	}, []string{"method", "route", "status"})
	StoreOp = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "store_op_seconds", Help: "KV store operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "bot_updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "Store ping latency",
		Buckets: prometheus.DefBuckets,
	})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "job", Name: "runs_total", Help: "Background job runs",
	}, []string{"job"})
	jobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "job", Name: "errors_total", Help: "Background job errors",
	}, []string{"job"})
	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "job", Name: "duration_seconds", Help: "Background job duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(RecordsSaved, SlotConflicts, ValidationFailures, HTTPRequests, StoreOp, BotUpdates, HandlerErrors, DBPing,
		jobRuns, jobErrors, jobDuration)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveStore records the latency of one store call started at t0.
func ObserveStore(op string, t0 time.Time) {
	StoreOp.WithLabelValues(op).Observe(time.Since(t0).Seconds())
}

// ObserveJob counts one finished run of job started at t0; err marks a failure.
func ObserveJob(job string, t0 time.Time, err error) {
	if err != nil {
		jobErrors.WithLabelValues(job).Inc()
	}
	jobRuns.WithLabelValues(job).Inc()
	jobDuration.WithLabelValues(job).Observe(time.Since(t0).Seconds())
}
