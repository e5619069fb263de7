package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pennyledger/penny/internal/model"
	"github.com/pennyledger/penny/internal/storage"
)

func exportCmd() *cobra.Command {
	var (
		batchSize int
		category  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Long: `Stream all active transactions to stdout as CSV. Rows are fetched from
the store in pages rather than one bulk read, so exports of large tables
stay flat on memory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := storage.NewTransactionRepository(store)

			n, err := exportTransactions(ctx, repo, os.Stdout, category, batchSize)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "exported %d transactions\n", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", storage.DefaultBatchSize, "rows fetched per page")
	cmd.Flags().StringVar(&category, "category", "", "export only this category")

	return cmd
}

// exportTransactions drains a transaction stream into CSV and reports the
// number of rows written.
func exportTransactions(ctx context.Context, repo *storage.TransactionRepository, w io.Writer, category string, batchSize int) (int, error) {
	var stream *storage.Stream[model.Transaction]
	if category != "" {
		stream = repo.StreamByCategory(ctx, category, batchSize)
	} else {
		stream = repo.Stream(ctx, batchSize)
	}
	defer stream.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "type", "amount", "date", "category", "account", "description"}); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	count := 0
	for {
		txn, ok := stream.Next()
		if !ok {
			break
		}
		record := []string{
			txn.ID,
			string(txn.Type),
			strconv.FormatFloat(txn.Amount, 'f', 2, 64),
			txn.Date,
			txn.Category,
			txn.Account,
			txn.Description,
		}
		if err := cw.Write(record); err != nil {
			return count, fmt.Errorf("failed to write CSV row: %w", err)
		}
		count++
	}
	if err := stream.Err(); err != nil {
		return count, fmt.Errorf("failed to stream transactions: %w", err)
	}

	cw.Flush()
	return count, cw.Error()
}
