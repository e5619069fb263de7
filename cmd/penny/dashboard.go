package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennyledger/penny/internal/cli"
	"github.com/pennyledger/penny/internal/storage"
)

func dashboardCmd() *cobra.Command {
	var (
		month int
		year  int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary",
		Long: `Show the all-time net balance, the month's income and expense totals,
and the month's spending broken down by category.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now()
			if month == 0 {
				month = int(now.Month())
			}
			if year == 0 {
				year = now.Year()
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := storage.NewTransactionRepository(store)

			summary, err := repo.GetDashboardSummary(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to get dashboard summary: %w", err)
			}

			breakdown, err := repo.GetSpendingByCategory(ctx, month, year)
			if err != nil {
				return fmt.Errorf("failed to get spending breakdown: %w", err)
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Balance:  %s\n", formatAmount(summary.TotalBalance))
			fmt.Fprintf(&sb, "Income:   %s\n", formatAmount(summary.MonthlyIncome))
			fmt.Fprintf(&sb, "Expenses: %s", formatAmount(summary.MonthlyExpenses))
			fmt.Println(cli.RenderBox(fmt.Sprintf("%04d-%02d", year, month), sb.String()))

			if len(breakdown) == 0 {
				fmt.Println(cli.InfoStyle.Render("No spending recorded this month."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Spending by category"))
			for _, spend := range breakdown {
				fmt.Printf("  %-24s %s\n", spend.Category, formatAmount(spend.Amount))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month to summarize (1-12, default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year to summarize (default current)")

	return cmd
}
