package model

// Transaction represents a single financial transaction.
// Date is a calendar date in ISO 8601 form (2006-01-02) so that range
// queries can compare it lexicographically. Category holds the id or name
// of the category the transaction belongs to; it is not a hard foreign key.
type Transaction struct {
	ID          string
	Type        RecordType
	Amount      float64
	Date        string
	Category    string
	Account     string
	Description string
	CreatedAt   string
	UpdatedAt   string
	IsActive    bool
}
