package state

import (
	"context"
	"os"
	"testing"

	"github.com/flowkit/dataflow/dataflow"
)

// TestMySQLStore_Integration exercises MySQLStore against a real MySQL
// server. It is skipped unless TEST_MYSQL_DSN is set.
//
// Prerequisites:
//   - a MySQL server reachable from this process
//   - TEST_MYSQL_DSN set to a DSN the go-sql-driver/mysql driver accepts,
//     e.g. "user:password@tcp(localhost:3306)/test_db?parseTime=true"
//   - the DSN's user has CREATE, INSERT, SELECT, UPDATE permissions
//
// To run:
//
//	export TEST_MYSQL_DSN="user:password@tcp(localhost:3306)/test_db?parseTime=true"
//	go test -run TestMySQLStore_Integration ./state
func TestMySQLStore_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("skipping MySQL integration test: set TEST_MYSQL_DSN to run")
	}

	ctx := context.Background()
	s, err := NewMySQLStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	t.Run("missing key returns nil", func(t *testing.T) {
		key := dataflow.Key{dataflow.Text("mysql-integration-missing")}
		if got := s.Get(key); got != nil {
			t.Fatalf("expected nil for missing key, got %v", got)
		}
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		key := dataflow.Key{dataflow.Text("mysql-integration-group"), dataflow.Int(7)}
		s.Set(key, []dataflow.DataType{dataflow.Int(42)})

		got := s.Get(key)
		if len(got) != 1 {
			t.Fatalf("expected 1 value, got %d", len(got))
		}
		if v, ok := got[0].AsInt(); !ok || v != 42 {
			t.Fatalf("expected Int(42), got %v", got[0])
		}
	})

	t.Run("set overwrites existing key", func(t *testing.T) {
		key := dataflow.Key{dataflow.Text("mysql-integration-overwrite")}
		s.Set(key, []dataflow.DataType{dataflow.Int(1)})
		s.Set(key, []dataflow.DataType{dataflow.Int(2)})

		got := s.Get(key)
		if v, _ := got[0].AsInt(); v != 2 {
			t.Fatalf("expected the second Set to win, got %d", v)
		}
	})

	t.Run("closed store panics on Get", func(t *testing.T) {
		s2, err := NewMySQLStore(ctx, dsn)
		if err != nil {
			t.Fatalf("NewMySQLStore: %v", err)
		}
		if err := s2.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected Get on a closed store to panic")
			}
		}()
		s2.Get(dataflow.Key{dataflow.Int(1)})
	})
}
