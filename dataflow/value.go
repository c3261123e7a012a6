// Package dataflow implements an incremental, record-at-a-time dataflow
// engine: a directed graph of long-lived operators that exchange row deltas
// (additions and retractions). It mirrors the execution layer of a
// materialized-view maintenance system, minus the SQL parsing/planning and
// storage concerns that would normally sit in front of it.
package dataflow

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant of DataType a value holds.
//
// Kind order is significant: it defines the cross-variant comparison order
// used by Compare, so reordering these constants changes observable
// behavior (e.g. None < Integer(0) relies on KindNone < KindInteger).
type Kind uint8

const (
	KindNone Kind = iota
	KindInteger
	KindText
	KindBoolean
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInteger:
		return "Integer"
	case KindText:
		return "Text"
	case KindBoolean:
		return "Boolean"
	case KindFloat:
		return "Float"
	default:
		return "Unknown"
	}
}

// DataType is a tagged union over the five value variants the engine
// understands. It is immutable once constructed and safe to copy by value.
//
// Float comparison and hashing are undefined for NaN inputs: the engine
// uses an ordered-float model and does not promise IEEE-NaN semantics. A
// NaN float injected via Float(math.NaN()) will compare inconsistently with
// itself; callers must not feed NaN through the engine.
type DataType struct {
	kind Kind
	i    int32
	s    string
	b    bool
	f    float32
}

// None is the sql-null value.
var None = DataType{kind: KindNone}

// Int constructs an Integer value.
func Int(v int32) DataType {
	return DataType{kind: KindInteger, i: v}
}

// Text constructs a Text value.
func Text(v string) DataType {
	return DataType{kind: KindText, s: v}
}

// Bool constructs a Boolean value.
func Bool(v bool) DataType {
	return DataType{kind: KindBoolean, b: v}
}

// Float constructs a Float value from a 32-bit float. The caller must not
// pass NaN; see the DataType doc comment.
func Float(v float32) DataType {
	return DataType{kind: KindFloat, f: v}
}

// Kind reports which variant this value holds.
func (d DataType) Kind() Kind { return d.kind }

// IsNone reports whether the value is the sql-null variant.
func (d DataType) IsNone() bool { return d.kind == KindNone }

// AsInt returns the underlying int32 and whether the value was an Integer.
func (d DataType) AsInt() (int32, bool) { return d.i, d.kind == KindInteger }

// AsText returns the underlying string and whether the value was Text.
func (d DataType) AsText() (string, bool) { return d.s, d.kind == KindText }

// AsBool returns the underlying bool and whether the value was Boolean.
func (d DataType) AsBool() (bool, bool) { return d.b, d.kind == KindBoolean }

// AsFloat returns the underlying float32 and whether the value was Float.
func (d DataType) AsFloat() (float32, bool) { return d.f, d.kind == KindFloat }

// Equal reports structural equality. Values of different Kind are never
// equal, including None compared to a zero-valued Integer.
func (d DataType) Equal(other DataType) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindNone:
		return true
	case KindInteger:
		return d.i == other.i
	case KindText:
		return d.s == other.s
	case KindBoolean:
		return d.b == other.b
	case KindFloat:
		return d.f == other.f
	default:
		return false
	}
}

// Compare orders two values. Across variants, order follows Kind's
// declaration order (None < Integer < Text < Boolean < Float); within a
// variant it uses the natural order of the underlying Go type. The result
// is -1, 0, or 1, matching the usual three-way comparator convention.
func (d DataType) Compare(other DataType) int {
	if d.kind != other.kind {
		if d.kind < other.kind {
			return -1
		}
		return 1
	}
	switch d.kind {
	case KindNone:
		return 0
	case KindInteger:
		return compareOrdered(d.i, other.i)
	case KindText:
		return compareOrdered(d.s, other.s)
	case KindBoolean:
		return compareOrdered(boolRank(d.b), boolRank(other.b))
	case KindFloat:
		return compareOrdered(d.f, other.f)
	default:
		return 0
	}
}

func boolRank(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

func compareOrdered[T int32 | string | int8 | float32](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether d sorts strictly before other.
func (d DataType) Less(other DataType) bool { return d.Compare(other) < 0 }

// String renders a debug form, used for logging and the demo sink.
func (d DataType) String() string {
	switch d.kind {
	case KindNone:
		return "None"
	case KindInteger:
		return strconv.FormatInt(int64(d.i), 10)
	case KindText:
		return strconv.Quote(d.s)
	case KindBoolean:
		return strconv.FormatBool(d.b)
	case KindFloat:
		return strconv.FormatFloat(float64(d.f), 'g', -1, 32)
	default:
		return fmt.Sprintf("<invalid kind %d>", d.kind)
	}
}

// ComparisonOp names the comparison operators Filter constraints support.
type ComparisonOp int

const (
	OpEqual ComparisonOp = iota
	OpNotEqual
	OpGreaterThan
	OpLessThan
	OpGreaterEqual
	OpLessEqual
)

// Matches evaluates op against the ordered relationship of a to b, i.e.
// "does a <op> b hold".
func (op ComparisonOp) Matches(a, b DataType) bool {
	c := a.Compare(b)
	switch op {
	case OpEqual:
		return a.Equal(b)
	case OpNotEqual:
		return !a.Equal(b)
	case OpGreaterThan:
		return c > 0
	case OpLessThan:
		return c < 0
	case OpGreaterEqual:
		return c >= 0
	case OpLessEqual:
		return c <= 0
	default:
		panic(fmt.Sprintf("dataflow: unknown comparison op %d", op))
	}
}

// dataTypeJSON is the wire shape used to serialize a DataType for a
// disk-backed Store (see the state package's SQL-backed implementations).
// DataType's fields are unexported, so it needs explicit (Un)MarshalJSON
// rather than relying on struct tags.
type dataTypeJSON struct {
	Kind  string   `json:"kind"`
	Int   *int32   `json:"int,omitempty"`
	Text  *string  `json:"text,omitempty"`
	Bool  *bool    `json:"bool,omitempty"`
	Float *float32 `json:"float,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d DataType) MarshalJSON() ([]byte, error) {
	j := dataTypeJSON{Kind: d.kind.String()}
	switch d.kind {
	case KindInteger:
		v := d.i
		j.Int = &v
	case KindText:
		v := d.s
		j.Text = &v
	case KindBoolean:
		v := d.b
		j.Bool = &v
	case KindFloat:
		v := d.f
		j.Float = &v
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DataType) UnmarshalJSON(data []byte) error {
	var j dataTypeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	switch j.Kind {
	case "None":
		*d = None
	case "Integer":
		if j.Int == nil {
			return fmt.Errorf("dataflow: Integer json missing \"int\" field")
		}
		*d = Int(*j.Int)
	case "Text":
		if j.Text == nil {
			return fmt.Errorf("dataflow: Text json missing \"text\" field")
		}
		*d = Text(*j.Text)
	case "Boolean":
		if j.Bool == nil {
			return fmt.Errorf("dataflow: Boolean json missing \"bool\" field")
		}
		*d = Bool(*j.Bool)
	case "Float":
		if j.Float == nil {
			return fmt.Errorf("dataflow: Float json missing \"float\" field")
		}
		*d = Float(*j.Float)
	default:
		return fmt.Errorf("dataflow: unknown Kind %q in json", j.Kind)
	}
	return nil
}
