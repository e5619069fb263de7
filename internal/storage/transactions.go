package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pennyledger/penny/internal/model"
)

const transactionColumns = "id, type, amount, date, category, account, description, is_active, created_at, updated_at"

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var txn model.Transaction
	var category, description sql.NullString
	err := row.Scan(&txn.ID, &txn.Type, &txn.Amount, &txn.Date, &category,
		&txn.Account, &description, &txn.IsActive, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return txn, err
	}
	txn.Category = category.String
	txn.Description = description.String
	return txn, nil
}

// TransactionRepository provides CRUD, filtered lookups, streaming, and
// the aggregate queries behind the dashboard and reports.
type TransactionRepository struct {
	repository[model.Transaction]
}

// NewTransactionRepository creates a transaction repository backed by store.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{
		repository: newRepository(store, "transactions", transactionColumns, scanTransaction),
	}
}

// GetByDateRange returns active transactions with from <= date <= to,
// sorted by date descending. Bounds are inclusive ISO 8601 date strings,
// compared lexicographically.
func (r *TransactionRepository) GetByDateRange(ctx context.Context, from, to string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(from, "from"); err != nil {
		return nil, err
	}
	if err := validateString(to, "to"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE date >= ? AND date <= ? AND is_active = 1 ORDER BY date DESC",
		r.columns, r.table)
	return r.queryMany(ctx, query, from, to)
}

// GetByType returns active transactions of the given type.
func (r *TransactionRepository) GetByType(ctx context.Context, recordType model.RecordType) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE type = ? AND is_active = 1 ORDER BY date DESC", r.columns, r.table)
	return r.queryMany(ctx, query, string(recordType))
}

// GetByCategory returns active transactions recorded under the given
// category id or name.
func (r *TransactionRepository) GetByCategory(ctx context.Context, category string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE category = ? AND is_active = 1 ORDER BY date DESC", r.columns, r.table)
	return r.queryMany(ctx, query, category)
}

// GetByAccount returns active transactions for the given account label.
func (r *TransactionRepository) GetByAccount(ctx context.Context, account string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(account, "account"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE account = ? AND is_active = 1 ORDER BY date DESC", r.columns, r.table)
	return r.queryMany(ctx, query, account)
}

// Count returns the number of active transactions.
func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE is_active = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// SumByType returns the total amount of active transactions of the given
// type, 0 when none match.
func (r *TransactionRepository) SumByType(ctx context.Context, recordType model.RecordType) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var total float64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = ? AND is_active = 1`,
		string(recordType)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// GetDashboardSummary computes the all-time net balance (income minus
// expenses across every active transaction) together with the given
// month's expense and income totals. All figures default to 0 on an empty
// table.
func (r *TransactionRepository) GetDashboardSummary(ctx context.Context, month, year int) (*model.DashboardSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	monthArg, yearArg := monthYearArgs(month, year)

	var income, expenses, monthlyIncome, monthlyExpenses float64
	err := r.store.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'Income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'Expense' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'Income' AND strftime('%m', date) = ? AND strftime('%Y', date) = ? THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'Expense' AND strftime('%m', date) = ? AND strftime('%Y', date) = ? THEN amount END), 0)
		FROM transactions
		WHERE is_active = 1`,
		monthArg, yearArg, monthArg, yearArg,
	).Scan(&income, &expenses, &monthlyIncome, &monthlyExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard summary: %w", err)
	}

	summary := &model.DashboardSummary{
		TotalBalance:    income - expenses,
		MonthlyIncome:   monthlyIncome,
		MonthlyExpenses: monthlyExpenses,
	}
	slog.Debug("computed dashboard summary", "month", month, "year", year, "balance", summary.TotalBalance)
	return summary, nil
}

// GetSpendingByCategory returns the given month's expense totals grouped
// by category, ordered by amount descending. The display name comes from
// the categories table when the transaction references a category id, and
// falls back to the raw category value otherwise.
func (r *TransactionRepository) GetSpendingByCategory(ctx context.Context, month, year int) ([]model.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	monthArg, yearArg := monthYearArgs(month, year)

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT COALESCE(c.name, t.category) AS category, SUM(t.amount) AS total
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category
		WHERE t.type = 'Expense' AND t.is_active = 1
			AND strftime('%m', t.date) = ? AND strftime('%Y', t.date) = ?
		GROUP BY COALESCE(c.name, t.category)
		ORDER BY total DESC`,
		monthArg, yearArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var breakdown []model.CategorySpend
	for rows.Next() {
		var spend model.CategorySpend
		var category sql.NullString
		if err := rows.Scan(&category, &spend.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan spending breakdown: %w", err)
		}
		spend.Category = category.String
		breakdown = append(breakdown, spend)
	}
	return breakdown, rows.Err()
}

// Stream scans all active transactions in pages of batchSize.
func (r *TransactionRepository) Stream(ctx context.Context, batchSize int) *Stream[model.Transaction] {
	return r.stream(ctx, "", nil, batchSize)
}

// StreamByCategory scans the active transactions of one category in pages
// of batchSize.
func (r *TransactionRepository) StreamByCategory(ctx context.Context, category string, batchSize int) *Stream[model.Transaction] {
	return r.stream(ctx, "category = ?", []any{category}, batchSize)
}

// monthYearArgs formats month and year the way strftime renders them for
// ISO 8601 text dates.
func monthYearArgs(month, year int) (string, string) {
	return fmt.Sprintf("%02d", month), strconv.Itoa(year)
}
