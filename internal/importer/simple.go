package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// SimpleParser parses the plain budgetbook export format:
// category,expense,amount,comment with a header row.
type SimpleParser struct{}

const (
	simpleNumFields  = 4
	simpleColCat     = 0
	simpleColExpense = 1
	simpleColAmount  = 2
	simpleColComment = 3
)

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads the CSV and returns import rows.
func (p *SimpleParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = simpleNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := parseSimpleRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseSimpleRow(rec []string) (Row, error) {
	if rec[simpleColCat] == "" || rec[simpleColExpense] == "" {
		return Row{}, fmt.Errorf("category and expense must not be empty")
	}
	amount, err := decimal.NewFromString(rec[simpleColAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[simpleColAmount], err)
	}
	return Row{
		Category: rec[simpleColCat],
		Expense:  rec[simpleColExpense],
		Amount:   amount,
		Comment:  rec[simpleColComment],
	}, nil
}
