package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pennyledger/penny/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultTimeout is how long Open waits for the store before failing,
// and how long a writer waits on a locked database.
const DefaultTimeout = 30 * time.Second

// Store wraps an embedded SQLite database. All repository operations share
// its single connection; callers own its lifetime via Close.
type Store struct {
	db      *sql.DB
	path    string
	timeout time.Duration
}

// Option configures a Store before it is opened.
type Option func(*Store)

// WithTimeout overrides the default open/busy timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Open opens the SQLite store at path with WAL journaling, NORMAL
// synchronization, and foreign keys enforced. The connection is verified
// before Open returns; failures wrap common.ErrConnection.
func Open(path string, opts ...Option) (*Store, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	s := &Store{path: path, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=%d",
		path, s.timeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	s.db = db
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location the store was opened with.
func (s *Store) Path() string {
	return s.path
}
