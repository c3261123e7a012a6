package dataflow

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WorkerOption configures an OperatorWorker or DebugSinkWorker at
// construction time.
type WorkerOption func(*workerConfig)

type workerConfig struct {
	name     string
	tracer   trace.Tracer
	observer ProcessObserver
	logger   *log.Logger
}

func newWorkerConfig() *workerConfig {
	return &workerConfig{logger: log.Default()}
}

// WithWorkerName attaches a cosmetic name used in log lines. Metric labels
// use the worker id and the operator's type name, not this name. It never
// participates in routing or equality — worker identity is always the
// router-assigned id.
func WithWorkerName(name string) WorkerOption {
	return func(c *workerConfig) { c.name = name }
}

// WithTracer attaches an OpenTelemetry tracer; the worker creates one span
// per Operator.Process call. A nil tracer (the default) disables tracing.
func WithTracer(tracer trace.Tracer) WorkerOption {
	return func(c *workerConfig) { c.tracer = tracer }
}

// WithProcessObserver attaches a metrics sink recording per-call processing
// latency. A nil observer (the default) disables this.
func WithProcessObserver(obs ProcessObserver) WorkerOption {
	return func(c *workerConfig) { c.observer = obs }
}

// WithWorkerLogger overrides the worker's logger. Defaults to log.Default().
func WithWorkerLogger(logger *log.Logger) WorkerOption {
	return func(c *workerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// OperatorWorker drives one Operator in its own goroutine. It registers
// with the router at construction time and is inert until Start is called.
//
// Start iterates the router's message sequence for this worker's id. For
// each batch it invokes the operator, then asks the router to fan the
// result out to every child. There is no panic recovery beyond ending this
// worker's own loop: a panicking operator takes down this worker only,
// leaving children blocked on their next receive until they are explicitly
// stopped. There is no supervision or automatic restart.
type OperatorWorker struct {
	ID       int
	operator Operator
	router   *MessageRouter
	cfg      *workerConfig
}

// NewOperatorWorker registers a new worker wrapping op as a child of
// parents and returns it. The worker does not start processing until
// Start is called.
func NewOperatorWorker(router *MessageRouter, op Operator, parents []int, opts ...WorkerOption) *OperatorWorker {
	cfg := newWorkerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &OperatorWorker{
		ID:       router.AddWorker(parents),
		operator: op,
		router:   router,
		cfg:      cfg,
	}
}

// Start runs the worker's driver loop until a Stop message is observed or
// its inbox is closed. It is meant to be called from a dedicated goroutine.
func (w *OperatorWorker) Start(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.cfg.logger.Printf("dataflow: worker %d (%s) panicked and stopped: %v", w.ID, w.label(), r)
		}
	}()

	it := w.router.Iter(w.ID)
	for {
		batch, ok := it.Next()
		if !ok {
			return
		}
		result := w.process(ctx, batch)
		w.router.SendUpdates(w.ID, result)
	}
}

func (w *OperatorWorker) process(ctx context.Context, batch Updates) []RowUpdate {
	operatorName := fmt.Sprintf("%T", w.operator)

	if w.cfg.tracer != nil {
		var span trace.Span
		ctx, span = w.cfg.tracer.Start(ctx, "dataflow.operator.process",
			trace.WithAttributes(
				attribute.Int("dataflow.worker_id", w.ID),
				attribute.String("dataflow.operator", operatorName),
				attribute.Int("dataflow.batch_size", len(batch.Rows)),
			),
		)
		defer span.End()
	}

	start := time.Now()
	result := w.operator.Process(batch)
	if w.cfg.observer != nil {
		w.cfg.observer.ObserveProcess(w.ID, operatorName, time.Since(start).Seconds())
	}
	return result
}

func (w *OperatorWorker) label() string {
	if w.cfg.name == "" {
		return fmt.Sprintf("worker-%d", w.ID)
	}
	return w.cfg.name
}

// DebugSinkWorker is a terminal observer: it forwards every incoming batch
// to its children (if any) unchanged, and writes a human-readable rendering
// to the writer given to NewDebugSinkWorker as a side effect.
type DebugSinkWorker struct {
	ID     int
	router *MessageRouter
	out    io.Writer
	cfg    *workerConfig
}

// NewDebugSinkWorker registers a new sink worker as a child of parents.
func NewDebugSinkWorker(router *MessageRouter, out io.Writer, parents []int, opts ...WorkerOption) *DebugSinkWorker {
	cfg := newWorkerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &DebugSinkWorker{
		ID:     router.AddWorker(parents),
		router: router,
		out:    out,
		cfg:    cfg,
	}
}

// Start runs the sink's driver loop until a Stop message is observed or its
// inbox is closed.
func (w *DebugSinkWorker) Start(ctx context.Context) {
	_ = ctx
	it := w.router.Iter(w.ID)
	for {
		batch, ok := it.Next()
		if !ok {
			return
		}
		for _, update := range batch.Rows {
			fmt.Fprintf(w.out, "%s %v\n", update.Tag, update.Row)
		}
		w.router.SendUpdates(w.ID, batch.Rows)
	}
}
