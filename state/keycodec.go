// Package state provides dataflow.Store implementations: an in-memory map
// for tests and small demos, and SQL-backed stores (MySQL, SQLite) for
// durable keyed state.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/flowkit/dataflow/dataflow"
)

// encodeKey renders a dataflow.Key as a canonical JSON array string, used
// both as the MemStore map key and as the primary-key column value in the
// SQL-backed stores. Reusing DataType's own JSON encoding keeps one
// definition of "how a value is serialized" instead of a second bespoke
// encoding living next to it.
func encodeKey(key dataflow.Key) (string, error) {
	b, err := json.Marshal([]dataflow.DataType(key))
	if err != nil {
		return "", fmt.Errorf("state: encoding key: %w", err)
	}
	return string(b), nil
}

func encodeValues(values []dataflow.DataType) (string, error) {
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("state: encoding values: %w", err)
	}
	return string(b), nil
}

func decodeValues(s string) ([]dataflow.DataType, error) {
	var values []dataflow.DataType
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, fmt.Errorf("state: decoding values: %w", err)
	}
	return values, nil
}
