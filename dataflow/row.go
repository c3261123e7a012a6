package dataflow

import "strings"

// Row is an ordered, schema-less sequence of values. Column count and types
// are agreed by construction between an operator and its children; Row
// itself enforces nothing beyond positional access.
type Row []DataType

// String renders the row for logging and the demo sink, e.g. "[1, "x", true]".
func (r Row) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range r {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Clone returns a copy of the row, used when fanning a delta out to
// multiple children so that no two children share backing storage.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Get returns the value at the given column index.
func (r Row) Get(i int) DataType { return r[i] }

// Set writes the value at the given column index.
func (r Row) Set(i int, v DataType) { r[i] = v }

// Tag distinguishes an addition from a retraction.
type Tag uint8

const (
	Add Tag = iota
	Remove
)

func (t Tag) String() string {
	if t == Add {
		return "Add"
	}
	return "Remove"
}

// RowUpdate is a single delta: a row tagged as either an addition or a
// retraction. A stream of RowUpdates is the delta encoding of a multiset;
// summing adds and subtracting removes at a given key yields the current
// multiplicity. Stateful operators such as Count rely on this invariant.
type RowUpdate struct {
	Tag Tag
	Row Row
}

// NewAdd builds an Add-tagged update from the given row.
func NewAdd(row Row) RowUpdate { return RowUpdate{Tag: Add, Row: row} }

// NewRemove builds a Remove-tagged update from the given row.
func NewRemove(row Row) RowUpdate { return RowUpdate{Tag: Remove, Row: row} }

// Get returns the value at the given column index of the update's row.
func (u RowUpdate) Get(i int) DataType { return u.Row[i] }

// Clone deep-copies the update's row, preserving its tag.
func (u RowUpdate) Clone() RowUpdate {
	return RowUpdate{Tag: u.Tag, Row: u.Row.Clone()}
}

// CloneRowUpdates deep-copies a slice of updates; used by the router when a
// single delta list is fanned out to more than one child.
func CloneRowUpdates(updates []RowUpdate) []RowUpdate {
	out := make([]RowUpdate, len(updates))
	for i, u := range updates {
		out[i] = u.Clone()
	}
	return out
}
