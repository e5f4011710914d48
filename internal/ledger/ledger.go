package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetbook-dev/budgetbook/internal/model"
)

// Ledger holds the session's transactions in insertion order with id lookup.
// Entries are appended by Add and removed by Delete; nothing mutates a
// transaction in place.
type Ledger struct {
	entries []model.Transaction
	byID    map[string]int
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{byID: make(map[string]int)}
}

// Add generates a fresh unique id, appends the transaction, and returns it.
// The ledger itself does not touch spending totals; that is the budget
// service's job.
func (l *Ledger) Add(period model.Period, category, expense string, amount decimal.Decimal, comment string) model.Transaction {
	txn := model.Transaction{
		ID:       uuid.NewString(),
		Year:     period.Year,
		Month:    period.Month,
		Category: category,
		Expense:  expense,
		Amount:   amount,
		Comment:  comment,
	}
	l.byID[txn.ID] = len(l.entries)
	l.entries = append(l.entries, txn)
	return txn
}

// Restore appends a previously recorded transaction, keeping its id. Used
// when replaying history; reports false if the id is already live.
func (l *Ledger) Restore(txn model.Transaction) bool {
	if _, ok := l.byID[txn.ID]; ok {
		return false
	}
	l.byID[txn.ID] = len(l.entries)
	l.entries = append(l.entries, txn)
	return true
}

// Delete removes the transaction with the given id and returns it. Deleting
// an unknown (or already deleted) id is a no-op reported via the bool.
func (l *Ledger) Delete(id string) (model.Transaction, bool) {
	i, ok := l.byID[id]
	if !ok {
		return model.Transaction{}, false
	}
	txn := l.entries[i]
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	delete(l.byID, id)
	for j := i; j < len(l.entries); j++ {
		l.byID[l.entries[j].ID] = j
	}
	return txn, true
}

// Find returns the transaction with the given id.
func (l *Ledger) Find(id string) (model.Transaction, bool) {
	i, ok := l.byID[id]
	if !ok {
		return model.Transaction{}, false
	}
	return l.entries[i], true
}

// All returns a snapshot of the transactions in insertion order.
func (l *Ledger) All() []model.Transaction {
	out := make([]model.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of live transactions.
func (l *Ledger) Len() int {
	return len(l.entries)
}
