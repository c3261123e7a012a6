package dataflow

// RouterObserver receives routing events for observability. Implementations
// live in the metrics package (Prometheus-backed) or are nil, in which case
// the router simply skips the calls. Keeping this as a small interface
// rather than a concrete *metrics.RouterMetrics field keeps the core
// package free of a hard dependency on the Prometheus client.
type RouterObserver interface {
	WorkerRegistered(id int)
	MessageRouted(source, destination int)
	FanoutDropped(destination int)
	QueueDepth(id int, depth int)
}

// ProcessObserver receives per-operator processing timings. Nil means
// processing latency is not recorded.
type ProcessObserver interface {
	ObserveProcess(workerID int, operatorName string, seconds float64)
}
