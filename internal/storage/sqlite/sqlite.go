// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The store keeps no open handles between calls: every operation acquires its
// own connection, runs its statements and releases the connection before
// returning.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/phonebook/internal/metrics"
	"github.com/mmynk/phonebook/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// DefaultBusyTimeout is how long a connection waits on a locked database.
const DefaultBusyTimeout = 5 * time.Second

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	path        string
	busyTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.StoreMetrics
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for operation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLiteStore) {
		s.logger = logger
	}
}

// WithMetrics records every operation on m.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(s *SQLiteStore) {
		s.metrics = m
	}
}

// WithBusyTimeout overrides DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *SQLiteStore) {
		s.busyTimeout = d
	}
}

// New creates a new SQLiteStore for the database file at dbPath.
// It creates the parent directories and the schema if they are missing.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		path:        dbPath,
		busyTimeout: DefaultBusyTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	ctx := context.Background()
	conn, err := s.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := runMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) dsn() string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_txlock=immediate",
		s.path, s.busyTimeout.Milliseconds())
}

// Conn is a single connection to the store with foreign key enforcement
// turned on for its whole lifetime. Close must be called to release it.
type Conn struct {
	*sql.Conn
	db *sql.DB
}

// Close releases the connection and its handle.
func (c *Conn) Close() error {
	err := c.Conn.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

// Connect opens a new connection to the database file.
func (s *SQLiteStore) Connect(ctx context.Context) (*Conn, error) {
	// Open database with pure Go driver
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// The DSN pragma covers this too; keep it explicit for the pinned conn.
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Conn{Conn: conn, db: db}, nil
}

// withConn runs fn on a fresh connection and always releases it.
func (s *SQLiteStore) withConn(ctx context.Context, fn func(*Conn) error) error {
	conn, err := s.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

// withTx runs fn inside a transaction on a fresh connection. The transaction
// is committed when fn returns nil and rolled back otherwise.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return s.withConn(ctx, func(conn *Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// observe logs and records a finished operation. errp points at the
// operation's named error result.
func (s *SQLiteStore) observe(op string, start time.Time, errp *error) {
	err := *errp
	s.metrics.Observe(op, start, err)

	if err != nil {
		s.logger.Warn("Store operation failed",
			"operation", op,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	s.logger.Debug("Store operation ok",
		"operation", op,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
