// Package testutil provides shared helpers for tests that need a real,
// migrated SQLite store.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pennyledger/penny/internal/model"
	"github.com/pennyledger/penny/internal/storage"
)

// SetupTestDB creates a migrated temp-file store and registers its cleanup.
func SetupTestDB(t *testing.T) *storage.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "penny_test.db")
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedCategories creates one active category per name, all typed Expense.
func SeedCategories(t *testing.T, store *storage.Store, names ...string) []model.Category {
	t.Helper()

	repo := storage.NewCategoryRepository(store)
	ctx := context.Background()

	cats := make([]model.Category, 0, len(names))
	for _, name := range names {
		cat, err := repo.Create(ctx, storage.Fields{
			"name": name,
			"type": string(model.TypeExpense),
		})
		if err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
		cats = append(cats, *cat)
	}
	return cats
}

// SeedTransactions creates count active expense transactions dated within
// the given month, amounts 10, 20, 30, ...
func SeedTransactions(t *testing.T, store *storage.Store, month, year, count int) []model.Transaction {
	t.Helper()

	repo := storage.NewTransactionRepository(store)
	ctx := context.Background()

	txns := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txn, err := repo.Create(ctx, storage.Fields{
			"type":    string(model.TypeExpense),
			"amount":  float64((i + 1) * 10),
			"date":    fmt.Sprintf("%04d-%02d-%02d", year, month, i%28+1),
			"account": "Checking",
		})
		if err != nil {
			t.Fatalf("failed to seed transaction %d: %v", i, err)
		}
		txns = append(txns, *txn)
	}
	return txns
}
