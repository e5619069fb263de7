package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pennyledger/penny/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration. Steps are registered
// in a fixed sequence and applied strictly in order; each Up must be
// idempotent (create-if-absent semantics).
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS schema_version (
					version INTEGER PRIMARY KEY
				)`,

				`CREATE TABLE IF NOT EXISTS preferences (
					item TEXT PRIMARY KEY,
					data TEXT
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL,
					type TEXT NOT NULL,
					budget REAL,
					description TEXT,
					is_active INTEGER NOT NULL,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					type TEXT NOT NULL,
					amount REAL NOT NULL,
					date TEXT NOT NULL,
					category TEXT,
					account TEXT NOT NULL,
					description TEXT,
					is_active INTEGER NOT NULL,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
				`CREATE INDEX IF NOT EXISTS idx_categories_type ON categories(type)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account)`,
				`CREATE INDEX IF NOT EXISTS idx_preferences_item ON preferences(item)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion returns the currently applied migration number. A missing
// schema_version table and an empty one both mean 0: never initialized.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil && strings.Contains(err.Error(), "no such table"):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending migrations. Each step and its version bump
// commit together; a failing step rolls back and aborts the run with the
// version unchanged.
func (s *Store) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMigration, err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("%w: failed to begin transaction: %v", common.ErrMigration, txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: step %d (%s): %v", common.ErrMigration, migration.Version, migration.Description, upErr)
		}

		if verErr := setVersion(tx, migration.Version); verErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: failed to record version %d: %v", common.ErrMigration, migration.Version, verErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("%w: failed to commit step %d: %v", common.ErrMigration, migration.Version, commitErr)
		}

		slog.Info("applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMigration, err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d", common.ErrMigration, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// setVersion replaces the single schema_version row inside the step's own
// transaction, so the bump is atomic with the step's effects.
func setVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return err
	}
	_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version)
	return err
}
