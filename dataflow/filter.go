package dataflow

// Constraint is the per-column predicate a Filter evaluates. Exactly one of
// Comparison or In applies, selected by which constructor built it.
type Constraint struct {
	isIn   bool
	op     ComparisonOp
	value  DataType
	values []DataType
}

// CompareConstraint builds a constraint that compares the column's value
// against a fixed value using op.
func CompareConstraint(op ComparisonOp, value DataType) Constraint {
	return Constraint{op: op, value: value}
}

// InConstraint builds a constraint that matches when the column's value
// equals any of the given values.
func InConstraint(values ...DataType) Constraint {
	return Constraint{isIn: true, values: values}
}

// matches reports whether v satisfies the constraint.
func (c Constraint) matches(v DataType) bool {
	if c.isIn {
		for _, candidate := range c.values {
			if v.Equal(candidate) {
				return true
			}
		}
		return false
	}
	return c.op.Matches(v, c.value)
}

// ColumnConstraint binds a Constraint to the column index it evaluates.
type ColumnConstraint struct {
	Column     int
	Constraint Constraint
}

// Filter keeps only rows whose every constraint matches, preserving the
// Add/Remove tag verbatim. Retractions traverse the same predicate path as
// additions, which is what lets downstream multiset reconstruction stay
// correct: a filter that only evaluated adds would leak retractions for
// rows it should have dropped.
//
// Malformed column indices are a programmer error (topology is fixed at
// construction) and are allowed to panic via the normal out-of-range slice
// access; Filter does not guard against them.
type Filter struct {
	Constraints []ColumnConstraint
}

// Process implements Operator. An empty constraint list is the identity
// transform: every input delta passes through unchanged.
func (f *Filter) Process(batch Updates) []RowUpdate {
	out := make([]RowUpdate, 0, len(batch.Rows))
	for _, update := range batch.Rows {
		if f.keep(update) {
			out = append(out, update)
		}
	}
	return out
}

func (f *Filter) keep(update RowUpdate) bool {
	for _, cc := range f.Constraints {
		if !cc.Constraint.matches(update.Get(cc.Column)) {
			return false
		}
	}
	return true
}
