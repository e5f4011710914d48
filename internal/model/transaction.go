package model

import (
	"github.com/shopspring/decimal"
)

// Transaction is a single recorded spend (or reversal) against a
// category/expense in one period. Records are immutable by convention:
// a correction is modeled as delete + re-add.
type Transaction struct {
	ID       string          // uuid, generated on add, never reused
	Year     string          // period at creation time, "YYYY"
	Month    string          // full month name, e.g. "March"
	Category string
	Expense  string
	Amount   decimal.Decimal // negative = reversal/refund
	Comment  string
}

// Period returns the period the transaction was recorded against.
func (t Transaction) Period() Period {
	return Period{Year: t.Year, Month: t.Month}
}
