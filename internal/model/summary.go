package model

// DashboardSummary holds the headline numbers for the dashboard: the
// all-time net balance plus one month's totals. Fields are zero, never
// null, when no transactions match.
type DashboardSummary struct {
	TotalBalance    float64
	MonthlyIncome   float64
	MonthlyExpenses float64
}

// CategorySpend is one row of a spending breakdown: a category display
// name and the summed expense amount attributed to it.
type CategorySpend struct {
	Category string
	Amount   float64
}
