package state

import (
	"context"

	_ "modernc.org/sqlite"

	"github.com/flowkit/dataflow/dataflow"
)

const sqliteUpsert = `
INSERT INTO dataflow_state (state_key, value) VALUES (?, ?)
ON CONFLICT(state_key) DO UPDATE SET value = excluded.value`

// SQLiteStore is a dataflow.Store backed by SQLite via the pure-Go
// modernc.org/sqlite driver (no cgo). Suitable for local development, tests,
// and single-process deployments; see NewSQLiteStore's path argument for the
// in-memory option.
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore opens path (use ":memory:" for an ephemeral database),
// enables WAL mode, and ensures the backing table exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	s, err := openSQLStore(ctx, "sqlite", path, sqliteUpsert)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	return &SQLiteStore{sqlStore: s}, nil
}

// Get implements dataflow.Store.
func (s *SQLiteStore) Get(key dataflow.Key) []dataflow.DataType { return s.get(key) }

// Set implements dataflow.Store.
func (s *SQLiteStore) Set(key dataflow.Key, values []dataflow.DataType) { s.set(key, values) }
