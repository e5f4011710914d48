// Package auditlog keeps a CSV trail of ledger mutations. The ledger itself
// is in-memory per session; the audit file is the durable record of what was
// added and deleted, without changing the persisted budget format.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Action classifies an audit entry.
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp     time.Time
	Action        Action
	TransactionID string
	Year          string
	Month         string
	Category      string
	Expense       string
	Amount        decimal.Decimal
	Comment       string
}

// Header is the CSV header for the audit log.
const Header = "timestamp,action,transaction_id,year,month,category,expense,amount,comment"

const (
	numFields  = 9
	colTime    = 0
	colAction  = 1
	colTxnID   = 2
	colYear    = 3
	colMonth   = 4
	colCat     = 5
	colExpense = 6
	colAmount  = 7
	colComment = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colTxnID] = e.TransactionID
	row[colYear] = e.Year
	row[colMonth] = e.Month
	row[colCat] = e.Category
	row[colExpense] = e.Expense
	row[colAmount] = e.Amount.String()
	row[colComment] = e.Comment
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return Entry{
		Timestamp:     ts,
		Action:        Action(record[colAction]),
		TransactionID: record[colTxnID],
		Year:          record[colYear],
		Month:         record[colMonth],
		Category:      record[colCat],
		Expense:       record[colExpense],
		Amount:        amount,
		Comment:       record[colComment],
	}, nil
}

// Append appends entries to the audit log at path, writing the header first
// when the file is new.
func Append(path string, entries ...Entry) error {
	info, err := os.Stat(path)
	isNew := err != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if isNew {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing audit entry: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read reads all entries from an audit log reader.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
