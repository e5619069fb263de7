package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
)

func TestCategoryGetByName(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	created, err := repo.Create(ctx, Fields{"name": "Groceries", "type": string(model.TypeExpense)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := repo.GetByName(ctx, "Groceries")
	if err != nil {
		t.Fatalf("GetByName() error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByName() id = %s, want %s", got.ID, created.ID)
	}

	if _, err := repo.GetByName(ctx, "Nope"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetByName(missing) error = %v, want %v", err, common.ErrNotFound)
	}
}

func TestCategoryGetByNameExcludesDeleted(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	cat, err := repo.Create(ctx, Fields{"name": "Hidden", "type": string(model.TypeExpense)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := repo.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, err := repo.GetByName(ctx, "Hidden"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetByName(deleted) error = %v, want %v", err, common.ErrNotFound)
	}
}

func TestCategoryGetByType(t *testing.T) {
	store := createTestStore(t)
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	seed := []struct {
		name string
		typ  model.RecordType
	}{
		{"Zoo Trips", model.TypeExpense},
		{"Aquarium", model.TypeExpense},
		{"Salary", model.TypeIncome},
		{"Moving Money", model.TypeTransfer},
	}
	for _, s := range seed {
		if _, err := repo.Create(ctx, Fields{"name": s.name, "type": string(s.typ)}); err != nil {
			t.Fatalf("Create(%s) error: %v", s.name, err)
		}
	}

	expenses, err := repo.GetByType(ctx, model.TypeExpense)
	if err != nil {
		t.Fatalf("GetByType() error: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("GetByType(Expense) returned %d categories, want 2", len(expenses))
	}
	// Sorted by name ascending.
	if expenses[0].Name != "Aquarium" || expenses[1].Name != "Zoo Trips" {
		t.Errorf("GetByType() order = %s, %s; want Aquarium, Zoo Trips",
			expenses[0].Name, expenses[1].Name)
	}

	income, err := repo.GetByType(ctx, model.TypeIncome)
	if err != nil {
		t.Fatalf("GetByType() error: %v", err)
	}
	if len(income) != 1 || income[0].Name != "Salary" {
		t.Errorf("GetByType(Income) = %+v, want only Salary", income)
	}
}
