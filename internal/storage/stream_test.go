package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/pennyledger/penny/internal/model"
)

func seedStreamTransactions(t *testing.T, repo *TransactionRepository, count int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		_, err := repo.Create(ctx, Fields{
			"type":     string(model.TypeExpense),
			"amount":   float64(i + 1),
			"date":     fmt.Sprintf("2024-03-%02d", i+1),
			"account":  "Checking",
			"category": "stream-cat",
		})
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}
}

func TestStreamPagesThroughAllRows(t *testing.T) {
	store := createTestStore(t)
	repo := NewTransactionRepository(store)
	ctx := context.Background()

	seedStreamTransactions(t, repo, 5)

	stream := repo.Stream(ctx, 2)
	defer stream.Close()

	var got []model.Transaction
	for {
		txn, ok := stream.Next()
		if !ok {
			break
		}
		got = append(got, txn)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("Stream error: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("streamed %d records, want 5", len(got))
	}
	// 5 rows at batch size 2 means pages of 2, 2, 1.
	if stream.pages != 3 {
		t.Errorf("stream made %d page fetches, want 3", stream.pages)
	}

	// Order matches GetAll.
	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error: %v", err)
	}
	for i := range all {
		if got[i].ID != all[i].ID {
			t.Fatalf("stream order diverges from GetAll at index %d: %s vs %s", i, got[i].ID, all[i].ID)
		}
	}
}

func TestStreamExactMultipleOfBatch(t *testing.T) {
	store := createTestStore(t)
	repo := NewTransactionRepository(store)

	seedStreamTransactions(t, repo, 4)

	stream := repo.Stream(context.Background(), 2)
	defer stream.Close()

	count := 0
	for {
		if _, ok := stream.Next(); !ok {
			break
		}
		count++
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	if count != 4 {
		t.Errorf("streamed %d records, want 4", count)
	}
}

func TestStreamEmptyTable(t *testing.T) {
	store := createTestStore(t)
	repo := NewTransactionRepository(store)

	stream := repo.Stream(context.Background(), 2)
	defer stream.Close()

	if _, ok := stream.Next(); ok {
		t.Error("Next() on empty table returned a record")
	}
	if err := stream.Err(); err != nil {
		t.Errorf("Stream error on empty table: %v", err)
	}
}

func TestStreamCloseStopsIteration(t *testing.T) {
	store := createTestStore(t)
	repo := NewTransactionRepository(store)

	seedStreamTransactions(t, repo, 5)

	stream := repo.Stream(context.Background(), 2)
	if _, ok := stream.Next(); !ok {
		t.Fatal("first Next() returned no record")
	}

	stream.Close()
	if _, ok := stream.Next(); ok {
		t.Error("Next() after Close returned a record")
	}
	if err := stream.Err(); err != nil {
		t.Errorf("Err() after Close = %v", err)
	}
}

func TestStreamExcludesDeleted(t *testing.T) {
	store := createTestStore(t)
	repo := NewTransactionRepository(store)
	ctx := context.Background()

	seedStreamTransactions(t, repo, 3)
	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error: %v", err)
	}
	if _, err := repo.Delete(ctx, all[1].ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	stream := repo.Stream(ctx, 10)
	defer stream.Close()

	count := 0
	for {
		txn, ok := stream.Next()
		if !ok {
			break
		}
		if txn.ID == all[1].ID {
			t.Error("stream returned a soft-deleted record")
		}
		count++
	}
	if count != 2 {
		t.Errorf("streamed %d records, want 2", count)
	}
}

func TestStreamByCategory(t *testing.T) {
	store := createTestStore(t)
	repo := NewTransactionRepository(store)
	ctx := context.Background()

	seedStreamTransactions(t, repo, 3)
	if _, err := repo.Create(ctx, Fields{
		"type":     string(model.TypeExpense),
		"amount":   99.0,
		"date":     "2024-04-01",
		"account":  "Checking",
		"category": "other-cat",
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	stream := repo.StreamByCategory(ctx, "stream-cat", 2)
	defer stream.Close()

	count := 0
	for {
		txn, ok := stream.Next()
		if !ok {
			break
		}
		if txn.Category != "stream-cat" {
			t.Errorf("stream returned category %q", txn.Category)
		}
		count++
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	if count != 3 {
		t.Errorf("streamed %d records, want 3", count)
	}
}
