package dataflow

import "fmt"

// Count is the non-distinct row counter, optionally grouped by any number
// of columns. Count(*) is expressed by the caller rewriting to
// Source: SourceLiteral(Int(1)) before construction, which unifies
// Count(expr) and Count(*) into this one code path.
//
// Null suppression reproduces SQL's COUNT(expr) semantics: a source value
// of None contributes zero to the running total, but the row still passes
// through with its tag preserved so downstream operators see the record.
//
// Count emits one output delta per input delta, even when an Add
// immediately followed by a Remove nets to no change — collapsing those
// pairs into a no-op is a known, deliberately unimplemented optimization.
type Count struct {
	Source Source
	Group  []int
	State  Store
}

func (c *Count) getCount(group Key) int32 {
	data := c.State.Get(group)
	switch len(data) {
	case 0:
		return 0
	case 1:
		n, ok := data[0].AsInt()
		if !ok {
			panic(fmt.Sprintf("dataflow: Count state for group %v holds a non-Integer value", group))
		}
		return n
	default:
		panic(fmt.Sprintf("dataflow: Count state for group %v holds %d values, want at most 1", group, len(data)))
	}
}

func (c *Count) setCount(group Key, value int32) {
	c.State.Set(group, []DataType{Int(value)})
}

// Process implements Operator.
func (c *Count) Process(batch Updates) []RowUpdate {
	out := make([]RowUpdate, 0, len(batch.Rows))
	for _, update := range batch.Rows {
		group := make(Key, len(c.Group))
		for gi, col := range c.Group {
			group[gi] = update.Get(col)
		}

		cur := c.getCount(group)
		value := c.Source.Resolve(update.Row)

		change := int32(1)
		if update.Tag == Remove {
			change = -1
		}
		if value.IsNone() {
			change = 0
		}

		next := cur + change
		c.setCount(group, next)

		row := make(Row, len(update.Row)+1)
		copy(row, update.Row)
		row[len(update.Row)] = Int(next)

		out = append(out, RowUpdate{Tag: update.Tag, Row: row})
	}
	return out
}
