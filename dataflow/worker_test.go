package dataflow

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// TestOperatorWorker_ProcessesAndForwards exercises a single stage of the
// reference pipeline end to end through the router.
func TestOperatorWorker_ProcessesAndForwards(t *testing.T) {
	router := NewMessageRouter()
	filter := &Filter{Constraints: []ColumnConstraint{
		{Column: 0, Constraint: CompareConstraint(OpGreaterThan, Int(30))},
	}}
	w := NewOperatorWorker(router, filter, nil)
	sinkID := router.AddWorker([]int{w.ID})

	router.SendMessage(w.ID, UpdateMessage(Updates{Rows: []RowUpdate{
		NewAdd(Row{Int(50)}),
		NewAdd(Row{Int(10)}),
	}}))
	router.SendMessage(w.ID, Stop)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after receiving Stop")
	}

	msg := router.NextMessage(sinkID)
	if msg.IsStop() {
		t.Fatal("expected the filtered batch to have been forwarded")
	}
	if len(msg.UpdatesPayload().Rows) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(msg.UpdatesPayload().Rows))
	}
}

// TestOperatorWorker_PanicIsContained verifies that a panicking operator
// ends only its own worker's goroutine; Start must not propagate the panic
// to the caller.
func TestOperatorWorker_PanicIsContained(t *testing.T) {
	router := NewMessageRouter()
	boom := OperatorFunc(func(Updates) []RowUpdate { panic("boom") })
	w := NewOperatorWorker(router, boom, nil)

	router.SendMessage(w.ID, UpdateMessage(Updates{Rows: []RowUpdate{NewAdd(Row{Int(1)})}}))

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a panicking operator must still let Start return")
	}
}

// TestGracefulShutdown builds a three-stage chain plus a sink, injects one
// batch, and sends Stop to every worker; all four goroutines must join in
// finite time. Each stage's Stop is queued, and that stage started, only
// after the previous stage has finished forwarding: the router's per-worker
// inbox is FIFO, so starting a later stage before its input has arrived
// would race the Stop against the data it's meant to see.
func TestGracefulShutdown(t *testing.T) {
	router := NewMessageRouter()

	stage1 := NewOperatorWorker(router, &Filter{}, nil)
	stage2 := NewOperatorWorker(router, &Map{Sources: []Source{SourceColumn(0)}}, []int{stage1.ID})
	stage3 := NewOperatorWorker(router, &Map{Sources: []Source{SourceColumn(0)}}, []int{stage2.ID})
	var buf bytes.Buffer
	sink := NewDebugSinkWorker(router, &buf, []int{stage3.ID})

	runAndJoin := func(id int, start func(context.Context)) {
		t.Helper()
		router.SendMessage(id, Stop)
		done := make(chan struct{})
		go func() {
			start(context.Background())
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("worker %d did not join in time", id)
		}
	}

	router.SendMessage(stage1.ID, UpdateMessage(Updates{Rows: []RowUpdate{NewAdd(Row{Int(7)})}}))

	runAndJoin(stage1.ID, stage1.Start)
	runAndJoin(stage2.ID, stage2.Start)
	runAndJoin(stage3.ID, stage3.Start)
	runAndJoin(sink.ID, sink.Start)

	if !strings.Contains(buf.String(), "Add") {
		t.Fatalf("expected the sink to have observed the forwarded row, got %q", buf.String())
	}
}
