package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/pennyledger/penny/internal/common"
)

// Fields is an explicit partial field set supplied by callers on create
// and update. Keys are column names; the repository owns id, is_active,
// and the timestamps and overwrites any caller attempt to set them.
type Fields map[string]any

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// repository is the generic CRUD kernel shared by the entity repositories.
// It is parameterized by the table name, the select column list, and a
// row-to-record scan function supplied at construction. Every read is
// conjoined with the is_active filter; soft-deleted rows are invisible to
// all public paths.
type repository[T any] struct {
	store   *Store
	scan    func(rowScanner) (T, error)
	table   string
	columns string
}

func newRepository[T any](store *Store, table, columns string, scan func(rowScanner) (T, error)) repository[T] {
	return repository[T]{
		store:   store,
		table:   table,
		columns: columns,
		scan:    scan,
	}
}

// nowStamp returns the timestamp format used for created_at/updated_at.
func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// isUniqueViolation reports whether err is a SQLite uniqueness or primary
// key constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Create inserts a new row with a fresh id, active flag, and equal
// created_at/updated_at, then re-reads it by id. A uniqueness violation
// surfaces as common.ErrDuplicateEntry rather than a raw driver error.
func (r *repository[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	now := nowStamp()
	row := make(Fields, len(fields)+4)
	for k, v := range fields {
		row[k] = v
	}
	row["id"] = uuid.NewString()
	row["is_active"] = 1
	row["created_at"] = now
	row["updated_at"] = now

	// Sorted column order keeps statements deterministic.
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	args := make([]any, 0, len(cols))
	for _, c := range cols {
		args = append(args, row[c])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateEntry, r.table)
		}
		return nil, fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}

	id, _ := row["id"].(string)
	slog.Debug("created record", "table", r.table, "id", id)
	return r.GetByID(ctx, id)
}

// GetByID returns the active record with the given id, or
// common.ErrNotFound. Soft-deleted rows are excluded.
func (r *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND is_active = 1", r.columns, r.table)
	rec, err := r.scan(r.store.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", common.ErrNotFound, r.table, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	return &rec, nil
}

// GetAll returns all active records, ordered by id.
func (r *repository[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_active = 1 ORDER BY id", r.columns, r.table)
	return r.queryMany(ctx, query)
}

// Update sets updated_at plus the caller's fields on the active record
// with the given id and re-reads it. A missing row and a soft-deleted row
// both collapse to common.ErrNotFound: update never bypasses the active
// filter and never resurrects a deleted record.
func (r *repository[T]) Update(ctx context.Context, id string, fields Fields) (*T, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	row := make(Fields, len(fields)+1)
	for k, v := range fields {
		row[k] = v
	}
	delete(row, "id")
	delete(row, "is_active")
	delete(row, "created_at")
	row["updated_at"] = nowStamp()

	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	assignments := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		assignments = append(assignments, c+" = ?")
		args = append(args, row[c])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? AND is_active = 1",
		r.table, strings.Join(assignments, ", "))

	result, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateEntry, r.table)
		}
		return nil, fmt.Errorf("failed to update %s: %w", r.table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s %s", common.ErrNotFound, r.table, id)
	}

	return r.GetByID(ctx, id)
}

// Delete soft-deletes the record by flipping its active flag. It reports
// whether a row was affected; deleting a missing or already-deleted id
// returns false, so repeated deletes are idempotent.
func (r *repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	query := fmt.Sprintf("UPDATE %s SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1", r.table)
	result, err := r.store.db.ExecContext(ctx, query, nowStamp(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("soft-deleted record", "table", r.table, "id", id, "affected", affected)
	return affected > 0, nil
}

// queryMany runs a query and scans every row with the repository's scan
// function.
func (r *repository[T]) queryMany(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer func() { _ = rows.Close() }()

	var records []T
	for rows.Next() {
		rec, scanErr := r.scan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, scanErr)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.table, err)
	}
	return records, nil
}
