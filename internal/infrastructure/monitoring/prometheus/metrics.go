package prometheus

import (
	"strconv"
	"time"
)

// Buckets for the metric families below.
var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultComputeDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 60}
	DefaultResidueCountBuckets    = []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	DefaultNeighborBuckets        = []float64{1, 2, 4, 6, 8, 12, 16, 24, 32}
)

// AppMetrics holds every metric family emitted by hmoment.
type AppMetrics struct {
	// Moment computation
	MomentRunsTotal       CounterVec
	MomentsComputedTotal  CounterVec
	MomentComputeDuration HistogramVec
	MomentRunResidues     HistogramVec
	NeighborhoodSize      HistogramVec
	BucketAssignments     CounterVec

	// Cache and archive
	CacheRequestsTotal     CounterVec
	ArchiveOperationsTotal CounterVec

	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Health
	ErrorsTotal       CounterVec
	HealthCheckStatus GaugeVec
}

// NewAppMetrics registers all families on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		MomentRunsTotal: collector.RegisterCounter("moment_runs_total",
			"Moment computation runs by scale and outcome", "scale", "status"),
		MomentsComputedTotal: collector.RegisterCounter("moments_computed_total",
			"Region moments computed", "scale"),
		MomentComputeDuration: collector.RegisterHistogram("moment_compute_duration_seconds",
			"Wall time of a moment computation run", DefaultComputeDurationBuckets, "scale", "distance_mode"),
		MomentRunResidues: collector.RegisterHistogram("moment_run_residues",
			"Residues per computation run", DefaultResidueCountBuckets, "scale"),
		NeighborhoodSize: collector.RegisterHistogram("neighborhood_size",
			"Residues within the sphere of each centre", DefaultNeighborBuckets, "scale"),
		BucketAssignments: collector.RegisterCounter("color_bucket_assignments_total",
			"Region moments per colour bucket", "bucket"),

		CacheRequestsTotal: collector.RegisterCounter("cache_requests_total",
			"Result cache lookups", "result"),
		ArchiveOperationsTotal: collector.RegisterCounter("archive_operations_total",
			"Report archive operations", "operation", "status"),

		HTTPRequestsTotal: collector.RegisterCounter("http_requests_total",
			"Total HTTP requests", "method", "route", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds",
			"HTTP request duration", DefaultHTTPDurationBuckets, "method", "route"),
		HTTPActiveRequests: collector.RegisterGauge("http_active_requests",
			"In-flight HTTP requests", "method"),

		ErrorsTotal: collector.RegisterCounter("errors_total",
			"Errors by component and code", "component", "code"),
		HealthCheckStatus: collector.RegisterGauge("health_check_status",
			"Dependency health (1 up, 0 down)", "dependency"),
	}
}

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RecordMomentRun records a finished run.  neighbors holds the neighbourhood
// size and buckets the colour bucket of each emitted moment.
func (m *AppMetrics) RecordMomentRun(scale, mode string, duration time.Duration, neighbors, buckets []int) {
	m.MomentRunsTotal.WithLabelValues(scale, "success").Inc()
	m.MomentsComputedTotal.WithLabelValues(scale).Add(float64(len(neighbors)))
	m.MomentComputeDuration.WithLabelValues(scale, mode).Observe(duration.Seconds())
	m.MomentRunResidues.WithLabelValues(scale).Observe(float64(len(neighbors)))
	for _, n := range neighbors {
		m.NeighborhoodSize.WithLabelValues(scale).Observe(float64(n))
	}
	for _, b := range buckets {
		m.BucketAssignments.WithLabelValues(strconv.Itoa(b)).Inc()
	}
}

// RecordMomentFailure records a run that returned an error with code.
func (m *AppMetrics) RecordMomentFailure(scale, code string) {
	m.MomentRunsTotal.WithLabelValues(scale, "error").Inc()
	m.ErrorsTotal.WithLabelValues("moments", code).Inc()
}

// RecordCacheLookup records a cache hit, miss or error.
func (m *AppMetrics) RecordCacheLookup(result string) {
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordArchive records an archive operation outcome.
func (m *AppMetrics) RecordArchive(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ArchiveOperationsTotal.WithLabelValues(op, status).Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *AppMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetHealth records the health of a dependency.
func (m *AppMetrics) SetHealth(dependency string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(dependency).Set(v)
}

//Personal.AI order the ending
