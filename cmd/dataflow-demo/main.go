// Command dataflow-demo wires up the reference pipeline — Filter, Map,
// Count, and a debug sink — and drives it with a fixed batch of rows,
// printing the deltas the sink observes. It exists to give a human-runnable
// walkthrough of the wiring described in the dataflow package's docs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/flowkit/dataflow/dataflow"
	"github.com/flowkit/dataflow/metrics"
	"github.com/flowkit/dataflow/state"

	"github.com/prometheus/client_golang/prometheus"
)

// runningWorker pairs a router-assigned id with the Start method of the
// worker that owns it, so Shutdown can address a Stop to the right inbox
// after launching the worker's driver loop.
type runningWorker struct {
	id    int
	start func(context.Context)
}

// Shutdown drains a pipeline given in parent-to-child order: workers must
// already have their root input queued on the first entry's inbox. For each
// worker in turn, it spawns the worker's driver loop on its own goroutine,
// sends it a Stop, and waits for that goroutine to return before moving to
// the next entry.
//
// The per-worker wait matters for correctness, not just tidiness: a Stop
// delivered to a downstream worker's inbox and the batch that worker's
// parent forwards to that same inbox arrive from two different senders, so
// nothing orders them relative to each other except the fact that the
// parent's forward happens-before the parent's own goroutine returns.
// Waiting for worker i to finish before sending worker i+1's Stop is what
// guarantees every forwarded batch is already queued ahead of that Stop.
// All goroutines are tracked on one errgroup.Group, which Shutdown joins
// before returning.
func Shutdown(ctx context.Context, router *dataflow.MessageRouter, workers ...runningWorker) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		done := make(chan struct{})
		g.Go(func() error {
			defer close(done)
			w.start(gctx)
			return nil
		})
		router.SendMessage(w.id, dataflow.Stop)
		<-done
	}
	return g.Wait()
}

func main() {
	registry := prometheus.NewRegistry()
	routerMetrics := metrics.NewRouterMetrics(registry)
	workerMetrics := metrics.NewWorkerMetrics(registry)

	router := dataflow.NewMessageRouter(
		dataflow.WithRouterObserver(routerMetrics),
	)

	filter := &dataflow.Filter{
		Constraints: []dataflow.ColumnConstraint{
			{Column: 0, Constraint: dataflow.CompareConstraint(dataflow.OpGreaterThan, dataflow.Int(30))},
		},
	}
	filterWorker := dataflow.NewOperatorWorker(router, filter, nil,
		dataflow.WithWorkerName("filter"),
		dataflow.WithProcessObserver(workerMetrics),
	)

	mapOp := &dataflow.Map{Sources: []dataflow.Source{dataflow.SourceColumn(1)}}
	mapWorker := dataflow.NewOperatorWorker(router, mapOp, []int{filterWorker.ID},
		dataflow.WithWorkerName("map"),
		dataflow.WithProcessObserver(workerMetrics),
	)

	count := &dataflow.Count{
		Source: dataflow.SourceLiteral(dataflow.Int(1)),
		Group:  []int{0},
		State:  state.NewMemStore(),
	}
	countWorker := dataflow.NewOperatorWorker(router, count, []int{mapWorker.ID},
		dataflow.WithWorkerName("count"),
		dataflow.WithProcessObserver(workerMetrics),
	)

	sinkWorker := dataflow.NewDebugSinkWorker(router, os.Stdout, []int{countWorker.ID},
		dataflow.WithWorkerName("sink"),
	)

	input := []dataflow.RowUpdate{
		dataflow.NewAdd(dataflow.Row{dataflow.Int(300), dataflow.Bool(true)}),
		dataflow.NewAdd(dataflow.Row{dataflow.Int(200), dataflow.Bool(true)}),
		dataflow.NewAdd(dataflow.Row{dataflow.Int(20), dataflow.Bool(true)}),
		dataflow.NewAdd(dataflow.Row{dataflow.Int(50), dataflow.Bool(false)}),
	}

	ctx := context.Background()

	router.SendMessage(filterWorker.ID, dataflow.UpdateMessage(dataflow.Updates{
		Rows:        input,
		Source:      -1,
		Destination: filterWorker.ID,
	}))

	err := Shutdown(ctx, router,
		runningWorker{filterWorker.ID, filterWorker.Start},
		runningWorker{mapWorker.ID, mapWorker.Start},
		runningWorker{countWorker.ID, countWorker.Start},
		runningWorker{sinkWorker.ID, sinkWorker.Start},
	)
	if err != nil {
		log.Fatalf("dataflow-demo: %v", err)
	}

	fmt.Println("dataflow-demo: pipeline drained, all workers stopped")
}
