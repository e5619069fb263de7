package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
)

// The generic kernel is exercised through CategoryRepository, the smallest
// entity built on it.

func TestRepositoryCreate(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	budget := 250.0
	cat, err := repo.Create(ctx, Fields{
		"name":        "Groceries",
		"type":        string(model.TypeExpense),
		"budget":      budget,
		"description": "Food and household supplies",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if cat.ID == "" {
		t.Error("Create() returned empty id")
	}
	if !cat.IsActive {
		t.Error("Create() returned inactive record")
	}
	if cat.CreatedAt == "" || cat.CreatedAt != cat.UpdatedAt {
		t.Errorf("Create() timestamps: created_at %q, updated_at %q, want equal and non-empty",
			cat.CreatedAt, cat.UpdatedAt)
	}
	if cat.Name != "Groceries" || cat.Type != model.TypeExpense {
		t.Errorf("Create() fields not round-tripped: %+v", cat)
	}
	if cat.Budget == nil || *cat.Budget != budget {
		t.Errorf("Create() budget = %v, want %v", cat.Budget, budget)
	}

	// Re-reading by the returned id yields the same record.
	got, err := repo.GetByID(ctx, cat.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.ID != cat.ID || got.Name != cat.Name || got.Type != cat.Type ||
		got.Description != cat.Description ||
		got.CreatedAt != cat.CreatedAt || got.UpdatedAt != cat.UpdatedAt {
		t.Errorf("GetByID() = %+v, want %+v", got, cat)
	}
	if got.Budget == nil || *got.Budget != budget {
		t.Errorf("GetByID() budget = %v, want %v", got.Budget, budget)
	}
}

func TestRepositoryCreateValidation(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)

	if _, err := repo.Create(context.Background(), Fields{}); !errors.Is(err, ErrEmptyFields) {
		t.Errorf("Create(empty fields) error = %v, want %v", err, ErrEmptyFields)
	}
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	fields := Fields{"name": "Rent", "type": string(model.TypeExpense)}
	if _, err := repo.Create(ctx, fields); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	_, err := repo.Create(ctx, fields)
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("duplicate Create() error = %v, want %v", err, common.ErrDuplicateEntry)
	}
}

func TestRepositoryCreateDuplicateAfterDelete(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	cat, err := repo.Create(ctx, Fields{"name": "Travel", "type": string(model.TypeExpense)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := repo.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	// Name uniqueness is a global constraint: the soft-deleted row still
	// occupies the name.
	_, err = repo.Create(ctx, Fields{"name": "Travel", "type": string(model.TypeExpense)})
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("Create() after delete error = %v, want %v", err, common.ErrDuplicateEntry)
	}
}

func TestRepositoryGetByID(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "no-such-id"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want %v", err, common.ErrNotFound)
	}
	if _, err := repo.GetByID(ctx, ""); !errors.Is(err, ErrEmptyString) {
		t.Errorf("GetByID(empty) error = %v, want %v", err, ErrEmptyString)
	}
}

func TestRepositoryGetAllExcludesDeleted(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	var deletedID string
	for _, name := range []string{"A", "B", "C"} {
		cat, err := repo.Create(ctx, Fields{"name": name, "type": string(model.TypeExpense)})
		if err != nil {
			t.Fatalf("Create(%s) error: %v", name, err)
		}
		if name == "B" {
			deletedID = cat.ID
		}
	}

	if _, err := repo.Delete(ctx, deletedID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	cats, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("GetAll() returned %d records, want 2", len(cats))
	}
	for _, cat := range cats {
		if cat.ID == deletedID {
			t.Error("GetAll() returned a soft-deleted record")
		}
	}
}

func TestRepositoryUpdate(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	cat, err := repo.Create(ctx, Fields{"name": "Utilities", "type": string(model.TypeExpense)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := repo.Update(ctx, cat.ID, Fields{"description": "Power, water, internet"})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Description != "Power, water, internet" {
		t.Errorf("Update() description = %q", updated.Description)
	}
	if updated.CreatedAt != cat.CreatedAt {
		t.Errorf("Update() changed created_at: %q -> %q", cat.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt < cat.UpdatedAt {
		t.Errorf("Update() moved updated_at backwards: %q -> %q", cat.UpdatedAt, updated.UpdatedAt)
	}
}

func TestRepositoryUpdateNotFound(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	// A row that never existed and a soft-deleted row collapse to the same
	// outcome: update never resurrects.
	if _, err := repo.Update(ctx, "no-such-id", Fields{"description": "x"}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want %v", err, common.ErrNotFound)
	}

	cat, err := repo.Create(ctx, Fields{"name": "Gone", "type": string(model.TypeExpense)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := repo.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, err := repo.Update(ctx, cat.ID, Fields{"description": "x"}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Update(deleted) error = %v, want %v", err, common.ErrNotFound)
	}

	var active int
	if err := store.db.QueryRow(`SELECT is_active FROM categories WHERE id = ?`, cat.ID).Scan(&active); err != nil {
		t.Fatalf("Failed to read raw row: %v", err)
	}
	if active != 0 {
		t.Error("Update() resurrected a soft-deleted row")
	}
}

func TestRepositoryDeleteIdempotent(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	cat, err := repo.Create(ctx, Fields{"name": "Once", "type": string(model.TypeExpense)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	deleted, err := repo.Delete(ctx, cat.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if !deleted {
		t.Error("first Delete() reported no row affected")
	}

	for i := 0; i < 3; i++ {
		deleted, err = repo.Delete(ctx, cat.ID)
		if err != nil {
			t.Fatalf("repeat Delete() error: %v", err)
		}
		if deleted {
			t.Error("repeat Delete() reported a row affected")
		}

		if _, err := repo.GetByID(ctx, cat.ID); !errors.Is(err, common.ErrNotFound) {
			t.Errorf("GetByID(deleted) error = %v, want %v", err, common.ErrNotFound)
		}
	}

	// The row is still physically present.
	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE id = ?`, cat.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count raw rows: %v", err)
	}
	if count != 1 {
		t.Errorf("soft-deleted row count = %d, want 1", count)
	}
}

func TestRepositoryNilContext(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)

	//nolint:staticcheck // Deliberately passing nil context.
	if _, err := repo.GetAll(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("GetAll(nil ctx) error = %v, want %v", err, ErrNilContext)
	}
}
