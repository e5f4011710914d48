// Package report aggregates one period's expense rows into the per-category
// and per-expense totals behind the show/report commands.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/budgetbook-dev/budgetbook/internal/model"
	"github.com/budgetbook-dev/budgetbook/internal/store"
)

// ExpenseLine is one expense row of a period summary.
type ExpenseLine struct {
	Category   string
	Expense    string
	Allotted   decimal.Decimal
	Spending   decimal.Decimal
	Remaining  decimal.Decimal
	OverBudget bool
	Comment    string
}

// CategorySummary is the rollup of one category within a period.
type CategorySummary struct {
	Category string
	Allotted decimal.Decimal
	Spending decimal.Decimal
	Lines    []ExpenseLine
}

// Remaining returns allotted minus spending for the category.
func (c CategorySummary) Remaining() decimal.Decimal {
	return c.Allotted.Sub(c.Spending)
}

// OverBudget reports whether the category as a whole overran its allotment.
func (c CategorySummary) OverBudget() bool {
	return c.Spending.GreaterThan(c.Allotted)
}

// PeriodSummary is the full rollup of one period.
type PeriodSummary struct {
	Period        model.Period
	Categories    []CategorySummary
	TotalAllotted decimal.Decimal
	TotalSpending decimal.Decimal
}

// Summarize builds the period summary in the store's display order. An
// absent period yields an empty summary.
func Summarize(s *store.Store, year, month string) PeriodSummary {
	sum := PeriodSummary{Period: model.Period{Year: year, Month: month}}

	cats := s.Categories(year, month)
	for _, category := range cats.Keys() {
		expenses, _ := cats.Get(category)
		cs := CategorySummary{Category: category}
		for _, expense := range expenses.Keys() {
			rec, _ := expenses.Get(expense)
			cs.Lines = append(cs.Lines, ExpenseLine{
				Category:   category,
				Expense:    expense,
				Allotted:   rec.Allotted,
				Spending:   rec.Spending,
				Remaining:  rec.Remaining(),
				OverBudget: rec.OverBudget(),
				Comment:    rec.Comment,
			})
			cs.Allotted = cs.Allotted.Add(rec.Allotted)
			cs.Spending = cs.Spending.Add(rec.Spending)
		}
		sum.TotalAllotted = sum.TotalAllotted.Add(cs.Allotted)
		sum.TotalSpending = sum.TotalSpending.Add(cs.Spending)
		sum.Categories = append(sum.Categories, cs)
	}
	return sum
}
