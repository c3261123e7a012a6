// Package metrics provides Prometheus-backed observability for the
// dataflow router and worker runtime: a promauto factory wiring namespaced
// gauges, counters, and histograms that are optional-by-nil from the
// caller's perspective.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RouterMetrics implements dataflow.RouterObserver with Prometheus gauges
// and counters namespaced "dataflow_".
//
// Metrics exposed:
//
//  1. dataflow_workers_registered_total (counter): cumulative AddWorker calls.
//  2. dataflow_messages_routed_total{source,destination} (counter): successful
//     per-edge deliveries.
//  3. dataflow_fanout_dropped_total{destination} (counter): sends to an
//     unknown or removed worker id.
//  4. dataflow_queue_depth{worker_id} (gauge): inbox length observed just
//     before a blocking receive.
type RouterMetrics struct {
	mu sync.Mutex

	workersRegistered prometheus.Counter
	messagesRouted    *prometheus.CounterVec
	fanoutDropped     *prometheus.CounterVec
	queueDepth        *prometheus.GaugeVec
}

// NewRouterMetrics registers all router metrics with registry. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() for test isolation.
func NewRouterMetrics(registry prometheus.Registerer) *RouterMetrics {
	factory := promauto.With(registry)

	return &RouterMetrics{
		workersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dataflow",
			Name:      "workers_registered_total",
			Help:      "Cumulative number of workers registered with the router.",
		}),
		messagesRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataflow",
			Name:      "messages_routed_total",
			Help:      "Per-edge delta batches successfully handed to a child's inbox.",
		}, []string{"source", "destination"}),
		fanoutDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataflow",
			Name:      "fanout_dropped_total",
			Help:      "Sends addressed to an unknown or removed worker id.",
		}, []string{"destination"}),
		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dataflow",
			Name:      "queue_depth",
			Help:      "Inbox length observed immediately before a worker blocks on receive.",
		}, []string{"worker_id"}),
	}
}

// WorkerRegistered implements dataflow.RouterObserver.
func (m *RouterMetrics) WorkerRegistered(int) {
	m.workersRegistered.Inc()
}

// MessageRouted implements dataflow.RouterObserver.
func (m *RouterMetrics) MessageRouted(source, destination int) {
	m.messagesRouted.WithLabelValues(strconv.Itoa(source), strconv.Itoa(destination)).Inc()
}

// FanoutDropped implements dataflow.RouterObserver.
func (m *RouterMetrics) FanoutDropped(destination int) {
	m.fanoutDropped.WithLabelValues(strconv.Itoa(destination)).Inc()
}

// QueueDepth implements dataflow.RouterObserver.
func (m *RouterMetrics) QueueDepth(id int, depth int) {
	m.queueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(depth))
}

// WorkerMetrics implements dataflow.ProcessObserver, recording per-operator
// processing latency as a Prometheus histogram.
type WorkerMetrics struct {
	processDuration *prometheus.HistogramVec
}

// NewWorkerMetrics registers the processing-latency histogram with
// registry. Buckets are tuned for an in-process, non-IO operator call
// (microseconds to tens of milliseconds) rather than a network call.
func NewWorkerMetrics(registry prometheus.Registerer) *WorkerMetrics {
	factory := promauto.With(registry)

	return &WorkerMetrics{
		processDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dataflow",
			Name:      "process_duration_seconds",
			Help:      "Operator.Process call latency in seconds.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"worker_id", "operator"}),
	}
}

// ObserveProcess implements dataflow.ProcessObserver.
func (m *WorkerMetrics) ObserveProcess(workerID int, operatorName string, seconds float64) {
	m.processDuration.WithLabelValues(strconv.Itoa(workerID), operatorName).Observe(seconds)
}
