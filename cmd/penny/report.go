package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennyledger/penny/internal/cli"
	"github.com/pennyledger/penny/internal/model"
	"github.com/pennyledger/penny/internal/storage"
)

func reportCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a yearly report",
		Long:  `Show per-month income, expenses, and net for one year, with all-time totals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if year == 0 {
				year = time.Now().Year()
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := storage.NewTransactionRepository(store)

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Report %d", year)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Month"),
				cli.HeaderStyle.Render("Income"),
				cli.HeaderStyle.Render("Expenses"),
				cli.HeaderStyle.Render("Net"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 6),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10))

			var yearIncome, yearExpenses float64
			for month := 1; month <= 12; month++ {
				summary, sumErr := repo.GetDashboardSummary(ctx, month, year)
				if sumErr != nil {
					return fmt.Errorf("failed to summarize %d-%02d: %w", year, month, sumErr)
				}
				if summary.MonthlyIncome == 0 && summary.MonthlyExpenses == 0 {
					continue
				}
				yearIncome += summary.MonthlyIncome
				yearExpenses += summary.MonthlyExpenses
				fmt.Fprintf(w, "%04d-%02d\t%s\t%s\t%s\n",
					year, month,
					formatAmount(summary.MonthlyIncome),
					formatAmount(summary.MonthlyExpenses),
					formatAmount(summary.MonthlyIncome-summary.MonthlyExpenses))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			count, err := repo.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count transactions: %w", err)
			}
			totalIncome, err := repo.SumByType(ctx, model.TypeIncome)
			if err != nil {
				return fmt.Errorf("failed to sum income: %w", err)
			}
			totalExpenses, err := repo.SumByType(ctx, model.TypeExpense)
			if err != nil {
				return fmt.Errorf("failed to sum expenses: %w", err)
			}

			fmt.Println()
			fmt.Printf("Year: income %s, expenses %s, net %s\n",
				formatAmount(yearIncome), formatAmount(yearExpenses), formatAmount(yearIncome-yearExpenses))
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
				"All time: %d transactions, balance %s", count, formatAmount(totalIncome-totalExpenses))))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year to report on (default current)")

	return cmd
}
