package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/flowkit/dataflow/dataflow"
)

// sqlStore is the shared implementation behind MySQLStore and SQLiteStore:
// both open a *sql.DB on a dialect-specific driver, create the same single
// key/value table, and differ only in their upsert statement and driver
// name. Factoring the common part out keeps each backend's file down to its
// dialect-specific bits while sharing row-marshaling logic.
type sqlStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	upsert string // dialect-specific upsert statement (ON CONFLICT or ON DUPLICATE KEY UPDATE), %s-free, uses ? placeholders
}

const createStateTable = `
CREATE TABLE IF NOT EXISTS dataflow_state (
	state_key VARCHAR(768) NOT NULL PRIMARY KEY,
	value TEXT NOT NULL
)`

func openSQLStore(ctx context.Context, driver, dsn, upsert string) (*sqlStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("state: opening %s connection: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: pinging %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, createStateTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: creating dataflow_state table: %w", err)
	}
	return &sqlStore{db: db, upsert: upsert}, nil
}

// Close releases the underlying database connection.
func (s *sqlStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// get implements the read half of dataflow.Store. SQL errors are treated as
// programmer/operational errors: there is no recovery path for a keyed-state
// backend that can't be read, so the worker panics rather than silently
// treating a DB outage as "no state for this key".
func (s *sqlStore) get(key dataflow.Key) []dataflow.DataType {
	encoded, err := encodeKey(key)
	if err != nil {
		panic(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		panic("state: store is closed")
	}

	var raw string
	err = s.db.QueryRowContext(context.Background(),
		`SELECT value FROM dataflow_state WHERE state_key = ?`, encoded).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		panic(fmt.Errorf("state: reading key: %w", err))
	}

	values, err := decodeValues(raw)
	if err != nil {
		panic(err)
	}
	return values
}

func (s *sqlStore) set(key dataflow.Key, values []dataflow.DataType) {
	encoded, err := encodeKey(key)
	if err != nil {
		panic(err)
	}
	encodedValues, err := encodeValues(values)
	if err != nil {
		panic(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		panic("state: store is closed")
	}

	if _, err := s.db.ExecContext(context.Background(), s.upsert, encoded, encodedValues); err != nil {
		panic(fmt.Errorf("state: writing key: %w", err))
	}
}
