package model

// RecordType indicates whether a category or transaction moves money in,
// out, or between accounts.
type RecordType string

const (
	// TypeExpense represents money leaving an account.
	TypeExpense RecordType = "Expense"
	// TypeIncome represents money entering an account.
	TypeIncome RecordType = "Income"
	// TypeTransfer represents money moving between accounts.
	TypeTransfer RecordType = "Transfer"
)

// Valid reports whether t is one of the known record types.
func (t RecordType) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return true
	}
	return false
}

// Category represents a spending or income category.
// Timestamps are stored as ISO 8601 text so they sort lexicographically.
type Category struct {
	ID          string
	Name        string
	Type        RecordType
	Budget      *float64
	Description string
	CreatedAt   string
	UpdatedAt   string
	IsActive    bool
}
