package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ExpenseRecord is one budget line in a period: the allotted ceiling and the
// running spending total. Spending is maintained incrementally by the budget
// service and must always equal the sum of the live transactions recorded
// against this line.
type ExpenseRecord struct {
	Allotted decimal.Decimal
	Spending decimal.Decimal
	Comment  string

	// Extra holds unknown keys found in the persisted expense object so
	// they survive a load/save round-trip, in file order.
	Extra []ExtraField
}

// ExtraField is one unrecognized key/value pair from a persisted expense
// object, kept verbatim.
type ExtraField struct {
	Key   string
	Value json.RawMessage
}

// Remaining returns allotted minus spending.
func (e ExpenseRecord) Remaining() decimal.Decimal {
	return e.Allotted.Sub(e.Spending)
}

// OverBudget reports whether spending exceeds the allotted ceiling.
func (e ExpenseRecord) OverBudget() bool {
	return e.Spending.GreaterThan(e.Allotted)
}
