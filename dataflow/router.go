package dataflow

import (
	"log"
	"sync"
)

// defaultChannelCapacity is the recommended inbox size: a small constant
// that provides backpressure while keeping the fast path lock-free.
const defaultChannelCapacity = 10

// RouterOption configures a MessageRouter at construction time using the
// functional-options pattern.
type RouterOption func(*MessageRouter)

// WithChannelCapacity overrides the default bounded-inbox capacity.
func WithChannelCapacity(n int) RouterOption {
	return func(r *MessageRouter) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithRouterObserver attaches a metrics sink to the router. Pass nil (the
// default) to disable observability.
func WithRouterObserver(obs RouterObserver) RouterOption {
	return func(r *MessageRouter) { r.observer = obs }
}

// WithRouterLogger overrides the router's logger. Defaults to log.Default().
func WithRouterLogger(logger *log.Logger) RouterOption {
	return func(r *MessageRouter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// MessageRouter owns the graph topology and the per-worker bounded inboxes.
// It is the only object shared across workers; workers never call each
// other directly.
//
// The topology graph and the channel table are guarded by independent
// reader-writer locks. Writes (registering a new worker) happen only during
// graph construction; steady-state traffic takes only read locks. A read
// lock is never held across a potentially blocking channel send — see
// SendMessage — which avoids the priority inversion the spec calls out
// between setup and fan-out.
type MessageRouter struct {
	mu       sync.RWMutex
	children map[int][]int
	nextID   int

	chanMu   sync.RWMutex
	channels map[int]chan Message

	capacity int
	observer RouterObserver
	logger   *log.Logger
}

// NewMessageRouter constructs an empty router. The topology starts empty;
// edges are added as workers register via AddWorker.
func NewMessageRouter(opts ...RouterOption) *MessageRouter {
	r := &MessageRouter{
		children: make(map[int][]int),
		channels: make(map[int]chan Message),
		capacity: defaultChannelCapacity,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddWorker allocates a fresh worker id, wires edges from each parent id to
// it, and creates its bounded inbox. Worker ids are assigned monotonically
// and are stable for the lifetime of the run; the topology never changes
// after construction.
func (r *MessageRouter) AddWorker(parents []int) int {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	for _, parent := range parents {
		r.children[parent] = append(r.children[parent], id)
	}
	r.mu.Unlock()

	r.chanMu.Lock()
	r.channels[id] = make(chan Message, r.capacity)
	r.chanMu.Unlock()

	if r.observer != nil {
		r.observer.WorkerRegistered(id)
	}
	return id
}

// SendMessage delivers a message to dest's inbox. It is non-blocking while
// capacity remains and blocks once the inbox is full, providing
// backpressure. An unknown destination (never registered, or since
// removed) is silently dropped, as is any send that would otherwise race a
// closed channel — producers must not fail because a consumer has gone
// away.
func (r *MessageRouter) SendMessage(dest int, msg Message) {
	r.chanMu.RLock()
	ch, ok := r.channels[dest]
	r.chanMu.RUnlock()
	if !ok {
		if r.observer != nil {
			r.observer.FanoutDropped(dest)
		}
		return
	}
	ch <- msg
}

// SendUpdates fans a delta list out to every child of id, wrapping it in an
// Updates envelope addressed from id to each child in turn. An empty delta
// list is a no-op: no message is sent and no child observes an empty batch.
func (r *MessageRouter) SendUpdates(id int, deltas []RowUpdate) {
	if len(deltas) == 0 {
		return
	}

	r.mu.RLock()
	children := append([]int(nil), r.children[id]...)
	r.mu.RUnlock()

	for _, child := range children {
		r.SendMessage(child, UpdateMessage(Updates{
			Rows:        CloneRowUpdates(deltas),
			Source:      id,
			Destination: child,
		}))
		if r.observer != nil {
			r.observer.MessageRouted(id, child)
		}
	}
}

// NextMessage blocks until a message arrives on id's inbox. It returns Stop
// if id is unknown or its channel has been closed.
func (r *MessageRouter) NextMessage(id int) Message {
	r.chanMu.RLock()
	ch, ok := r.channels[id]
	r.chanMu.RUnlock()
	if !ok {
		return Stop
	}

	if r.observer != nil {
		r.observer.QueueDepth(id, len(ch))
	}

	msg, ok := <-ch
	if !ok {
		return Stop
	}
	return msg
}

// MessageIterator produces a finite sequence of non-Stop messages for one
// worker id, terminating as soon as a Stop is seen or the channel closes.
type MessageIterator struct {
	router *MessageRouter
	id     int
}

// Iter returns a lazy iterator over id's inbox.
func (r *MessageRouter) Iter(id int) *MessageIterator {
	return &MessageIterator{router: r, id: id}
}

// Next blocks for the next message. It returns ok=false once a Stop has
// been observed; the caller's loop should exit without calling Next again.
func (it *MessageIterator) Next() (Updates, bool) {
	msg := it.router.NextMessage(it.id)
	if msg.IsStop() {
		return Updates{}, false
	}
	return msg.UpdatesPayload(), true
}
