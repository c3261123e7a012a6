package dataflow

// Map projects each incoming row through an ordered list of Source
// selectors, producing one output row per input row with one column per
// selector. It may widen, narrow, reorder, duplicate columns, or insert
// literal constants. Map is stateless and total: output batch size always
// equals input batch size.
type Map struct {
	Sources []Source
}

// Process implements Operator.
func (m *Map) Process(batch Updates) []RowUpdate {
	out := make([]RowUpdate, len(batch.Rows))
	for i, update := range batch.Rows {
		row := make(Row, len(m.Sources))
		for col, src := range m.Sources {
			row[col] = src.Resolve(update.Row)
		}
		out[i] = RowUpdate{Tag: update.Tag, Row: row}
	}
	return out
}
