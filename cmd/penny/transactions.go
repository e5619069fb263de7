package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennyledger/penny/internal/cli"
	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
	"github.com/pennyledger/penny/internal/storage"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Add, list, and delete transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType        string
		txAmount      float64
		txDate        string
		txCategory    string
		txAccount     string
		txDescription string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !model.RecordType(txType).Valid() {
				return fmt.Errorf("invalid transaction type %q (want Expense, Income, or Transfer)", txType)
			}
			if txDate == "" {
				txDate = time.Now().Format("2006-01-02")
			}
			if _, err := time.Parse("2006-01-02", txDate); err != nil {
				return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", txDate, err)
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			// Resolve a category name to its id when one matches, so the
			// dashboard join finds it either way.
			category := txCategory
			if category != "" {
				if cat, lookupErr := storage.NewCategoryRepository(store).GetByName(ctx, category); lookupErr == nil {
					category = cat.ID
				} else if !errors.Is(lookupErr, common.ErrNotFound) {
					return fmt.Errorf("failed to look up category: %w", lookupErr)
				}
			}

			fields := storage.Fields{
				"type":    txType,
				"amount":  txAmount,
				"date":    txDate,
				"account": txAccount,
			}
			if category != "" {
				fields["category"] = category
			}
			if txDescription != "" {
				fields["description"] = txDescription
			}

			txn, err := storage.NewTransactionRepository(store).Create(ctx, fields)
			if err != nil {
				return fmt.Errorf("failed to record transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s on %s", txn.Type, formatAmount(txn.Amount), txn.Date)))
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", string(model.TypeExpense), "transaction type (Expense, Income, Transfer)")
	cmd.Flags().Float64Var(&txAmount, "amount", 0, "transaction amount")
	cmd.Flags().StringVar(&txDate, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&txCategory, "category", "", "category name or id")
	cmd.Flags().StringVar(&txAccount, "account", "Checking", "account label")
	cmd.Flags().StringVar(&txDescription, "description", "", "free-form description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		fromDate  string
		toDate    string
		txType    string
		txCat     string
		txAccount string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List active transactions, newest first. With --from/--to the list is
restricted to that inclusive date range; --type, --category, and
--account filter by exact value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := storage.NewTransactionRepository(store)
			txns, err := fetchTransactions(ctx, repo, fromDate, toDate, txType, txCat, txAccount)
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			printTransactions(os.Stdout, txns)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toDate, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&txType, "type", "", "filter by type")
	cmd.Flags().StringVar(&txCat, "category", "", "filter by category")
	cmd.Flags().StringVar(&txAccount, "account", "", "filter by account")

	return cmd
}

// fetchTransactions picks the narrowest repository query for the given
// filters and applies the rest in memory.
func fetchTransactions(ctx context.Context, repo *storage.TransactionRepository, from, to, txType, category, account string) ([]model.Transaction, error) {
	var (
		txns []model.Transaction
		err  error
	)

	switch {
	case from != "" || to != "":
		if from == "" {
			from = "0000-01-01"
		}
		if to == "" {
			to = "9999-12-31"
		}
		txns, err = repo.GetByDateRange(ctx, from, to)
	case txType != "":
		txns, err = repo.GetByType(ctx, model.RecordType(txType))
		txType = ""
	case category != "":
		txns, err = repo.GetByCategory(ctx, category)
		category = ""
	case account != "":
		txns, err = repo.GetByAccount(ctx, account)
		account = ""
	default:
		txns, err = repo.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	filtered := txns[:0]
	for _, txn := range txns {
		if txType != "" && txn.Type != model.RecordType(txType) {
			continue
		}
		if category != "" && txn.Category != category {
			continue
		}
		if account != "" && txn.Account != account {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered, nil
}

func printTransactions(w *os.File, txns []model.Transaction) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Account"),
		cli.HeaderStyle.Render("ID"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 10),
		strings.Repeat("-", 8),
		strings.Repeat("-", 10),
		strings.Repeat("-", 16),
		strings.Repeat("-", 10),
		strings.Repeat("-", 36))

	for _, txn := range txns {
		category := txn.Category
		if category == "" {
			category = cli.SubtleStyle.Render("(none)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.Date, txn.Type, formatAmount(txn.Amount), category, txn.Account, cli.SubtleStyle.Render(txn.ID))
	}
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := storage.NewTransactionRepository(store).Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			if !deleted {
				return common.NewUserError(fmt.Sprintf("no active transaction with id %q", args[0]), common.ErrNotFound)
			}

			fmt.Println(cli.FormatSuccess("Deleted transaction"))
			return nil
		},
	}
}
