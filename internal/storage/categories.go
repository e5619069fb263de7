package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
)

const categoryColumns = "id, name, type, budget, description, is_active, created_at, updated_at"

func scanCategory(row rowScanner) (model.Category, error) {
	var cat model.Category
	var budget sql.NullFloat64
	var description sql.NullString
	err := row.Scan(&cat.ID, &cat.Name, &cat.Type, &budget, &description,
		&cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return cat, err
	}
	if budget.Valid {
		cat.Budget = &budget.Float64
	}
	cat.Description = description.String
	return cat, nil
}

// CategoryRepository provides CRUD plus name and type lookups over the
// categories table.
//
// Category names carry a global UNIQUE constraint: re-creating the name of
// a soft-deleted category still conflicts.
type CategoryRepository struct {
	repository[model.Category]
}

// NewCategoryRepository creates a category repository backed by store.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{
		repository: newRepository(store, "categories", categoryColumns, scanCategory),
	}
}

// GetByName returns the active category with the given unique name, or
// common.ErrNotFound.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = ? AND is_active = 1", r.columns, r.table)
	cat, err := r.scan(r.store.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// GetByType returns the active categories of the given type, sorted by
// name ascending.
func (r *CategoryRepository) GetByType(ctx context.Context, recordType model.RecordType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE type = ? AND is_active = 1 ORDER BY name", r.columns, r.table)
	return r.queryMany(ctx, query, string(recordType))
}

// Stream scans all active categories in pages of batchSize.
func (r *CategoryRepository) Stream(ctx context.Context, batchSize int) *Stream[model.Category] {
	return r.stream(ctx, "", nil, batchSize)
}
