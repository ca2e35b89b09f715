// Package metrics provides Prometheus metrics for the nutrition screening service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Assessment metrics
	assessments        *prometheus.CounterVec
	assessmentFailures *prometheus.CounterVec
	decisionPaths      *prometheus.CounterVec
	riskScore          prometheus.Histogram
	assessmentLatency  prometheus.Histogram
	batchSize          prometheus.Histogram

	// Screening pipeline
	screeningsSubmitted prometheus.Counter
	screeningsDuplicate prometheus.Counter
	repositoryRecords   prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics

// customRegistry keeps the exposition free of default registrations.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // metrics must exist before any package records
	customRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nutriscreen",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.assessments = auto.NewCounterVec(
		m.counterOpts("assessments_total", "Successful assessments by subject group and nutritional category"),
		[]string{"group", "category"})
	m.assessmentFailures = auto.NewCounterVec(
		m.counterOpts("assessment_failures_total", "Failed assessments by error kind"),
		[]string{"error_kind"})
	m.decisionPaths = auto.NewCounterVec(
		m.counterOpts("decision_paths_total", "Classifier terminal decisions by path"),
		[]string{"path"})
	m.riskScore = auto.NewHistogram(
		m.histogramOpts("risk_score", "Distribution of composite risk scores",
			prometheus.LinearBuckets(10, 10, 10)))
	m.assessmentLatency = auto.NewHistogram(
		m.histogramOpts("assessment_latency_milliseconds", "Time to assess one subject in milliseconds", m.histogramBuckets))
	m.batchSize = auto.NewHistogram(
		m.histogramOpts("batch_size", "Subjects per batch request",
			prometheus.ExponentialBuckets(1, 4, 8)))

	m.screeningsSubmitted = auto.NewCounter(
		m.counterOpts("screenings_submitted_total", "Screenings accepted for asynchronous assessment"))
	m.screeningsDuplicate = auto.NewCounter(
		m.counterOpts("screenings_duplicate_total", "Screenings rejected as duplicates"))
	m.repositoryRecords = auto.NewGauge(
		m.gaugeOpts("repository_records", "Screening results held in the repository"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Screenings waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Screenings enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total", "Screenings dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Enqueue attempts rejected"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured workers"))
	m.workerActive = auto.NewGauge(m.gaugeOpts("worker_active", "Workers currently assessing"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Time from dequeue to stored result in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Worker failures"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_total", "Errors by component and type"),
		[]string{"component", "error_type"})
}

// RecordAssessment counts a successful assessment.
func RecordAssessment(group, category, path string, riskScore int) {
	globalManager.assessments.WithLabelValues(group, category).Inc()
	globalManager.decisionPaths.WithLabelValues(path).Inc()
	globalManager.riskScore.Observe(float64(riskScore))
}

// RecordAssessmentFailure counts a failed assessment.
func RecordAssessmentFailure(kind string) {
	globalManager.assessmentFailures.WithLabelValues(kind).Inc()
}

// RecordAssessmentLatency records the time to assess one subject.
func RecordAssessmentLatency(latencyMs float64) {
	globalManager.assessmentLatency.Observe(latencyMs)
}

// RecordBatchSize records the size of a batch request.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// RecordScreeningSubmitted counts an accepted screening.
func RecordScreeningSubmitted() {
	globalManager.screeningsSubmitted.Inc()
}

// RecordScreeningDuplicate counts a duplicate screening.
func RecordScreeningDuplicate() {
	globalManager.screeningsDuplicate.Inc()
}

// UpdateRepositoryRecords sets the number of stored results.
func UpdateRepositoryRecords(n int) {
	globalManager.repositoryRecords.Set(float64(n))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of configured workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// AddWorkerActive moves the active-worker gauge by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a worker failure.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest counts one HTTP request and records its duration.
func RecordHTTPRequest(endpoint, method string, status int, durationMs float64) {
	code := strconv.Itoa(status)
	globalManager.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(durationMs)
}

// RecordError counts an error in component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
