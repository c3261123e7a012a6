package state

import (
	"testing"

	"github.com/flowkit/dataflow/dataflow"
)

func TestMemStore_GetMissingReturnsNil(t *testing.T) {
	s := NewMemStore()
	got := s.Get(dataflow.Key{dataflow.Int(1)})
	if got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}
}

func TestMemStore_SetThenGet(t *testing.T) {
	s := NewMemStore()
	key := dataflow.Key{dataflow.Int(1)}
	s.Set(key, []dataflow.DataType{dataflow.Int(42)})

	got := s.Get(key)
	if len(got) != 1 {
		t.Fatalf("expected 1 value, got %d", len(got))
	}
	if v, ok := got[0].AsInt(); !ok || v != 42 {
		t.Fatalf("expected Int(42), got %v", got[0])
	}
}

func TestMemStore_GetIsDefensiveCopy(t *testing.T) {
	s := NewMemStore()
	key := dataflow.Key{dataflow.Text("g")}
	s.Set(key, []dataflow.DataType{dataflow.Int(1)})

	got := s.Get(key)
	got[0] = dataflow.Int(999)

	again := s.Get(key)
	if v, _ := again[0].AsInt(); v != 1 {
		t.Fatalf("mutation of Get's result leaked into the store, got %v", again[0])
	}
}

func TestMemStore_DistinctKeysDoNotCollide(t *testing.T) {
	s := NewMemStore()
	keyA := dataflow.Key{dataflow.Int(1)}
	keyB := dataflow.Key{dataflow.Int(2)}

	s.Set(keyA, []dataflow.DataType{dataflow.Int(10)})
	s.Set(keyB, []dataflow.DataType{dataflow.Int(20)})

	a := s.Get(keyA)
	b := s.Get(keyB)
	va, _ := a[0].AsInt()
	vb, _ := b[0].AsInt()
	if va != 10 || vb != 20 {
		t.Fatalf("expected 10 and 20, got %d and %d", va, vb)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", s.Len())
	}
}

func TestMemStore_EqualCompositeKeysCollide(t *testing.T) {
	s := NewMemStore()
	keyA := dataflow.Key{dataflow.Int(1), dataflow.Text("x")}
	keyB := dataflow.Key{dataflow.Int(1), dataflow.Text("x")}

	s.Set(keyA, []dataflow.DataType{dataflow.Int(1)})
	s.Set(keyB, []dataflow.DataType{dataflow.Int(2)})

	if s.Len() != 1 {
		t.Fatalf("expected equal-valued keys to collide into one entry, got %d", s.Len())
	}
	got := s.Get(keyA)
	if v, _ := got[0].AsInt(); v != 2 {
		t.Fatalf("expected the later Set to win, got %d", v)
	}
}
