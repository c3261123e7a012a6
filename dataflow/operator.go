package dataflow

// Operator is the single contract shared by every node in the graph:
// filters, projections, and stateful aggregations alike consume a batch of
// deltas and produce a batch of deltas.
//
// Implementations must process batches in the order received and preserve
// the relative order of their outputs within a batch; reordering across
// batches is never permitted. An operator may mutate its own state but
// must never share mutable state with another operator — the router is the
// only cross-operator coupling.
//
// An empty result is valid and, per MessageRouter.SendUpdates's contract,
// produces no fan-out message at all.
type Operator interface {
	Process(batch Updates) []RowUpdate
}

// OperatorFunc adapts a plain function to the Operator interface, mirroring
// the allocation-free escape hatch every operator would otherwise need a
// named type for.
type OperatorFunc func(batch Updates) []RowUpdate

// Process implements Operator.
func (f OperatorFunc) Process(batch Updates) []RowUpdate { return f(batch) }

// Key is the group-by tuple used to look up state: an arbitrary sequence of
// values agreed between an operator and its Store.
type Key []DataType

// Store is the keyed-state abstraction stateful operators depend on. The
// in-memory reference implementation and any disk-backed variant live
// behind this interface in the state package; Count and future stateful
// operators never see a concrete store type.
//
// Get must not distinguish "missing" from "present but empty" to callers:
// both return a nil or zero-length slice.
type Store interface {
	Get(key Key) []DataType
	Set(key Key, values []DataType)
}
