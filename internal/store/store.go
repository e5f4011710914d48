package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/budgetbook-dev/budgetbook/internal/model"
)

// ExpenseMap maps expense name to its record, in insertion order.
type ExpenseMap = OrderedMap[*model.ExpenseRecord]

// CategoryMap maps category name to its expenses, in insertion order.
type CategoryMap = OrderedMap[*ExpenseMap]

// MonthMap maps month name to its categories, in insertion order.
type MonthMap = OrderedMap[*CategoryMap]

// Store holds the nested period mapping behind one budget file:
// year -> month -> category -> expense -> record. Only periods that have
// been explicitly populated exist; an absent period reads as empty.
type Store struct {
	years *OrderedMap[*MonthMap]
}

// NotFoundError reports a spending adjustment against a path that does not
// exist in the store.
type NotFoundError struct {
	Year     string
	Month    string
	Category string
	Expense  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no expense %q/%q in %s %s", e.Category, e.Expense, e.Month, e.Year)
}

// New creates an empty Store.
func New() *Store {
	return &Store{years: NewOrderedMap[*MonthMap]()}
}

// Years returns the year keys in insertion order.
func (s *Store) Years() []string {
	return s.years.Keys()
}

// Months returns the month keys for a year in insertion order, or nil if the
// year is absent.
func (s *Store) Months(year string) []string {
	months, ok := s.years.Get(year)
	if !ok {
		return nil
	}
	return months.Keys()
}

// Categories returns the category map for a period. An absent period yields
// an empty map, never an error. The result is a read-only view; mutation
// goes through the Store methods.
func (s *Store) Categories(year, month string) *CategoryMap {
	if cats, ok := s.period(year, month); ok {
		return cats
	}
	return NewOrderedMap[*ExpenseMap]()
}

// Lookup returns the expense record at the given path.
func (s *Store) Lookup(year, month, category, expense string) (*model.ExpenseRecord, bool) {
	cats, ok := s.period(year, month)
	if !ok {
		return nil, false
	}
	expenses, ok := cats.Get(category)
	if !ok {
		return nil, false
	}
	return expenses.Get(expense)
}

// EnsureYear materializes an empty year so it round-trips through the file
// even with no months yet.
func (s *Store) EnsureYear(year string) {
	if _, ok := s.years.Get(year); !ok {
		s.years.Set(year, NewOrderedMap[*CategoryMap]())
	}
}

// EnsurePeriod materializes an empty period so it round-trips through the
// file even with no categories yet.
func (s *Store) EnsurePeriod(year, month string) {
	s.ensurePeriod(year, month)
}

// UpsertExpense creates the expense record if absent (with zero spending),
// creating intermediate containers as needed. If the record exists, allotted
// and comment are overwritten and spending is left untouched.
func (s *Store) UpsertExpense(year, month, category, expense string, allotted decimal.Decimal, comment string) {
	cats := s.ensurePeriod(year, month)
	expenses, ok := cats.Get(category)
	if !ok {
		expenses = NewOrderedMap[*model.ExpenseRecord]()
		cats.Set(category, expenses)
	}
	if rec, ok := expenses.Get(expense); ok {
		rec.Allotted = allotted
		rec.Comment = comment
		return
	}
	expenses.Set(expense, &model.ExpenseRecord{
		Allotted: allotted,
		Spending: decimal.Zero,
		Comment:  comment,
	})
}

// SetRecord places a complete record at the given path, creating intermediate
// containers as needed. Used by the persistence codec on load.
func (s *Store) SetRecord(year, month, category, expense string, rec *model.ExpenseRecord) {
	cats := s.ensurePeriod(year, month)
	expenses, ok := cats.Get(category)
	if !ok {
		expenses = NewOrderedMap[*model.ExpenseRecord]()
		cats.Set(category, expenses)
	}
	expenses.Set(expense, rec)
}

// AdjustSpending adds delta to the expense's spending total. The path must
// already exist; callers that want add-on-the-fly behavior upsert first.
func (s *Store) AdjustSpending(year, month, category, expense string, delta decimal.Decimal) error {
	rec, ok := s.Lookup(year, month, category, expense)
	if !ok {
		return &NotFoundError{Year: year, Month: month, Category: category, Expense: expense}
	}
	rec.Spending = rec.Spending.Add(delta)
	return nil
}

// DeleteExpense removes one expense. If it was the category's last expense
// the category is pruned too. Reports whether the expense existed.
func (s *Store) DeleteExpense(year, month, category, expense string) bool {
	cats, ok := s.period(year, month)
	if !ok {
		return false
	}
	expenses, ok := cats.Get(category)
	if !ok {
		return false
	}
	if !expenses.Delete(expense) {
		return false
	}
	if expenses.Len() == 0 {
		cats.Delete(category)
	}
	return true
}

// DeleteCategory removes a whole category and its expenses. Reports whether
// the category existed.
func (s *Store) DeleteCategory(year, month, category string) bool {
	cats, ok := s.period(year, month)
	if !ok {
		return false
	}
	return cats.Delete(category)
}

func (s *Store) period(year, month string) (*CategoryMap, bool) {
	months, ok := s.years.Get(year)
	if !ok {
		return nil, false
	}
	return months.Get(month)
}

func (s *Store) ensurePeriod(year, month string) *CategoryMap {
	months, ok := s.years.Get(year)
	if !ok {
		months = NewOrderedMap[*CategoryMap]()
		s.years.Set(year, months)
	}
	cats, ok := months.Get(month)
	if !ok {
		cats = NewOrderedMap[*ExpenseMap]()
		months.Set(month, cats)
	}
	return cats
}
