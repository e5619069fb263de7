package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
)

// PreferenceRepository is a flat key-value store for application settings.
// Preferences have no soft-delete: Set replaces the row for a key in place,
// so at most one row exists per key at any time.
type PreferenceRepository struct {
	store *Store
}

// NewPreferenceRepository creates a preference repository backed by store.
func NewPreferenceRepository(store *Store) *PreferenceRepository {
	return &PreferenceRepository{store: store}
}

// Get returns the preference for the given item key, or common.ErrNotFound.
func (r *PreferenceRepository) Get(ctx context.Context, item string) (*model.Preference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(item, "item"); err != nil {
		return nil, err
	}

	var pref model.Preference
	var data sql.NullString
	err := r.store.db.QueryRowContext(ctx,
		`SELECT item, data FROM preferences WHERE item = ?`, item,
	).Scan(&pref.Item, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: preference %q", common.ErrNotFound, item)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference: %w", err)
	}
	pref.Data = data.String
	return &pref, nil
}

// Set upserts the preference for the given item key and returns the stored
// row. There is no separate create/update distinction.
func (r *PreferenceRepository) Set(ctx context.Context, item, data string) (*model.Preference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(item, "item"); err != nil {
		return nil, err
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO preferences (item, data) VALUES (?, ?)
		ON CONFLICT(item) DO UPDATE SET data = excluded.data`,
		item, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}

	slog.Debug("stored preference", "item", item)
	return r.Get(ctx, item)
}
