package state

import (
	"sync"

	"github.com/flowkit/dataflow/dataflow"
)

// MemStore is an in-memory dataflow.Store backed by a map, guarded by a
// mutex for safe use from the single worker goroutine that owns it plus any
// concurrent inspection (tests, debug endpoints). It never errors: an unset
// key simply reads back as an empty slice, matching dataflow.Store's
// zero-value-on-miss convention.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]dataflow.DataType
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]dataflow.DataType)}
}

// Get implements dataflow.Store. Keys that encode identically (same values,
// same order) collide by design; this is the multiset grouping semantics a
// stateful operator like Count relies on.
func (s *MemStore) Get(key dataflow.Key) []dataflow.DataType {
	encoded, err := encodeKey(key)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.data[encoded]
	if !ok {
		return nil
	}
	out := make([]dataflow.DataType, len(values))
	copy(out, values)
	return out
}

// Set implements dataflow.Store.
func (s *MemStore) Set(key dataflow.Key, values []dataflow.DataType) {
	encoded, err := encodeKey(key)
	if err != nil {
		panic(err)
	}

	stored := make([]dataflow.DataType, len(values))
	copy(stored, values)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[encoded] = stored
}

// Len reports the number of distinct keys currently stored. Exposed for
// tests and demo instrumentation; not part of dataflow.Store.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
