package state

import (
	"context"

	_ "github.com/go-sql-driver/mysql"

	"github.com/flowkit/dataflow/dataflow"
)

const mysqlUpsert = `
INSERT INTO dataflow_state (state_key, value) VALUES (?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value)`

// MySQLStore is a dataflow.Store backed by MySQL, using the same
// open/ping/migrate-on-construct shape as the other SQL-backed stores. Keys
// and values are stored as the JSON encoding produced by dataflow.DataType's
// marshaler.
type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore opens dsn, verifies connectivity, and ensures the backing
// table exists.
func NewMySQLStore(ctx context.Context, dsn string) (*MySQLStore, error) {
	s, err := openSQLStore(ctx, "mysql", dsn, mysqlUpsert)
	if err != nil {
		return nil, err
	}
	return &MySQLStore{sqlStore: s}, nil
}

// Get implements dataflow.Store.
func (s *MySQLStore) Get(key dataflow.Key) []dataflow.DataType { return s.get(key) }

// Set implements dataflow.Store.
func (s *MySQLStore) Set(key dataflow.Key, values []dataflow.DataType) { s.set(key, values) }
