package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/phonebook/internal/metrics"
	"github.com/mmynk/phonebook/internal/storage"
)

// newTestStore creates a store backed by a fresh database file.
func newTestStore(t *testing.T, opts ...Option) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.sqlite")
	store, err := New(dbPath, opts...)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

// execRaw runs a statement on its own connection, bypassing the store API.
func execRaw(t *testing.T, store *SQLiteStore, query string, args ...any) error {
	t.Helper()

	conn, err := store.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(context.Background(), query, args...)
	return err
}

func countRows(t *testing.T, store *SQLiteStore, query string, args ...any) int {
	t.Helper()

	conn, err := store.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func TestConnect(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("foreign keys are enabled", func(t *testing.T) {
		conn, err := store.Connect(ctx)
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		defer conn.Close()

		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("PRAGMA query failed: %v", err)
		}
		if enabled != 1 {
			t.Errorf("Expected foreign_keys = 1, got %d", enabled)
		}
	})

	t.Run("orphan phone is rejected", func(t *testing.T) {
		err := execRaw(t, store, `INSERT INTO phone ("number", label, person_id) VALUES ('555-0000', 'CELL', 9999)`)
		if err == nil {
			t.Fatal("Expected foreign key violation, got nil")
		}
		if !isConstraint(err) {
			t.Errorf("Expected constraint error, got %v", err)
		}
	})

	t.Run("schema bootstrap is idempotent", func(t *testing.T) {
		if _, err := New(store.Path()); err != nil {
			t.Fatalf("Reopening existing database failed: %v", err)
		}
	})

	t.Run("closing releases the connection", func(t *testing.T) {
		conn, err := store.Connect(ctx)
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		if err := conn.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := conn.PingContext(ctx); err == nil {
			t.Error("Expected ping on closed connection to fail")
		}
	})
}

func TestNewFailsOnUnwritableDirectory(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if _, err := New(filepath.Join(parent, "db.sqlite")); err == nil {
		t.Error("Expected error when parent path is a regular file")
	}
}

func TestStoreRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewStoreMetrics(reg)
	if err != nil {
		t.Fatalf("NewStoreMetrics failed: %v", err)
	}

	store := newTestStore(t, WithMetrics(m), WithLogger(slog.New(slog.DiscardHandler)))
	ctx := context.Background()

	if _, err := store.PersonIDs(ctx); err != nil {
		t.Fatalf("PersonIDs failed: %v", err)
	}
	if _, err := store.GetUser(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	expected := `
# HELP phonebook_store_operations_total Store operations by operation and result.
# TYPE phonebook_store_operations_total counter
phonebook_store_operations_total{operation="get_user",result="error"} 1
phonebook_store_operations_total{operation="person_ids",result="ok"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "phonebook_store_operations_total"); err != nil {
		t.Error(err)
	}
}
