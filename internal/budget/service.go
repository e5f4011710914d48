// Package budget composes the period store and the transaction ledger behind
// the mutation API the presentation layer consumes. Every transaction
// mutation is mirrored into the matching spending total; no other code path
// touches spending.
package budget

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/budgetbook-dev/budgetbook/internal/codec"
	"github.com/budgetbook-dev/budgetbook/internal/ledger"
	"github.com/budgetbook-dev/budgetbook/internal/model"
	"github.com/budgetbook-dev/budgetbook/internal/store"
)

// ValidationError reports malformed input rejected at the boundary, before
// any state change.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Service owns exactly one store and one ledger for the lifetime of one
// opened file. Transaction history lives in memory for the session; only the
// period store persists.
type Service struct {
	path   string
	store  *store.Store
	ledger *ledger.Ledger
	log    *slog.Logger
}

// Open loads the data file at path. A missing or unreadable file is fatal to
// the call; there is no silent fallback to empty state.
func Open(path string, log *slog.Logger) (*Service, error) {
	s, err := codec.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Service{path: path, store: s, ledger: ledger.New(), log: logger(log)}, nil
}

// New creates a Service over an empty store, for initializing a fresh file.
func New(path string, log *slog.Logger) *Service {
	return &Service{path: path, store: store.New(), ledger: ledger.New(), log: logger(log)}
}

func logger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return log
}

// Path returns the file path this budget was opened against.
func (s *Service) Path() string {
	return s.path
}

// Data exposes the period store to the presentation layer. Read-only by
// convention; all mutation goes through the Service methods.
func (s *Service) Data() *store.Store {
	return s.store
}

// Transactions returns a snapshot of the session's ledger in insertion order.
func (s *Service) Transactions() []model.Transaction {
	return s.ledger.All()
}

// FindTransaction returns the live transaction with the given id.
func (s *Service) FindTransaction(id string) (model.Transaction, bool) {
	return s.ledger.Find(id)
}

// AddTransaction records a transaction and rolls its amount into the matching
// spending total. Targeting a category/expense with no record yet creates a
// zero-allotted row on the fly. This is the single entry point that changes
// spending on the add side.
func (s *Service) AddTransaction(year, month, category, expense, amount, comment string) (model.Transaction, error) {
	period := model.Period{Year: year, Month: month}
	if err := validatePeriod(period); err != nil {
		return model.Transaction{}, err
	}
	if err := validateName("category", category); err != nil {
		return model.Transaction{}, err
	}
	if err := validateName("expense", expense); err != nil {
		return model.Transaction{}, err
	}
	amt, err := parseAmount("amount", amount)
	if err != nil {
		return model.Transaction{}, err
	}

	if _, ok := s.store.Lookup(year, month, category, expense); !ok {
		s.store.UpsertExpense(year, month, category, expense, decimal.Zero, "")
	}

	txn := s.ledger.Add(period, category, expense, amt, comment)
	if err := s.store.AdjustSpending(year, month, category, expense, amt); err != nil {
		// Row was just ensured above; reaching here means a bug.
		s.ledger.Delete(txn.ID)
		return model.Transaction{}, err
	}

	s.log.Info("transaction added",
		"id", txn.ID,
		"period", period.String(),
		"category", category,
		"expense", expense,
		"amount", amt.String())
	return txn, nil
}

// RestoreTransaction puts a previously recorded transaction back into the
// session ledger without touching spending totals, which already reflect it.
// Used by hosts that replay history into a fresh session.
func (s *Service) RestoreTransaction(txn model.Transaction) bool {
	return s.ledger.Restore(txn)
}

// DeleteTransaction reverses the recorded amount against the transaction's
// recorded period/category/expense and removes it from the ledger. An
// unknown id is a no-op. If the expense row was deleted after the
// transaction was recorded there is nothing left to reverse; the ledger
// entry is still removed.
func (s *Service) DeleteTransaction(id string) bool {
	txn, ok := s.ledger.Find(id)
	if !ok {
		return false
	}
	if err := s.store.AdjustSpending(txn.Year, txn.Month, txn.Category, txn.Expense, txn.Amount.Neg()); err != nil {
		var nf *store.NotFoundError
		if !errors.As(err, &nf) {
			return false
		}
	}
	s.ledger.Delete(id)

	s.log.Info("transaction deleted",
		"id", txn.ID,
		"period", txn.Period().String(),
		"category", txn.Category,
		"expense", txn.Expense,
		"amount", txn.Amount.String())
	return true
}

// AddCategory creates or updates an expense row: a new row starts with zero
// spending, an existing row keeps its spending and gets the new allotted and
// comment.
func (s *Service) AddCategory(year, month, category, expense, allotted, comment string) error {
	if err := validatePeriod(model.Period{Year: year, Month: month}); err != nil {
		return err
	}
	if err := validateName("category", category); err != nil {
		return err
	}
	if err := validateName("expense", expense); err != nil {
		return err
	}
	amt, err := parseAmount("allotted", allotted)
	if err != nil {
		return err
	}
	s.store.UpsertExpense(year, month, category, expense, amt, comment)
	return nil
}

// DeleteCategoryOrExpense removes one expense row, or the whole category when
// expense is empty. Reports whether anything was removed.
func (s *Service) DeleteCategoryOrExpense(year, month, category, expense string) bool {
	if expense == "" {
		return s.store.DeleteCategory(year, month, category)
	}
	return s.store.DeleteExpense(year, month, category, expense)
}

// EnsurePeriod materializes an empty period in the store.
func (s *Service) EnsurePeriod(year, month string) error {
	period := model.Period{Year: year, Month: month}
	if err := validatePeriod(period); err != nil {
		return err
	}
	s.store.EnsurePeriod(year, month)
	return nil
}

// Save writes the store back to the opened path via an atomic replace.
func (s *Service) Save() error {
	if err := codec.SaveFile(s.path, s.store); err != nil {
		return err
	}
	s.log.Info("budget saved", "path", s.path)
	return nil
}

// RecomputeSpending rebuilds every spending total from the live transaction
// history and reports paths whose stored total disagrees. It is a consistency
// check, not part of the normal mutation flow: spending is maintained
// incrementally.
func (s *Service) RecomputeSpending() []string {
	type key struct{ year, month, category, expense string }
	sums := make(map[key]decimal.Decimal)
	for _, txn := range s.ledger.All() {
		k := key{txn.Year, txn.Month, txn.Category, txn.Expense}
		sums[k] = sums[k].Add(txn.Amount)
	}

	var mismatches []string
	for _, year := range s.store.Years() {
		for _, month := range s.store.Months(year) {
			cats := s.store.Categories(year, month)
			for _, category := range cats.Keys() {
				expenses, _ := cats.Get(category)
				for _, expense := range expenses.Keys() {
					rec, _ := expenses.Get(expense)
					// Only rows touched this session can be checked; a
					// loaded file carries totals from prior sessions.
					want, touched := sums[key{year, month, category, expense}]
					if !touched {
						continue
					}
					if !rec.Spending.Equal(want) {
						mismatches = append(mismatches,
							fmt.Sprintf("%s %s / %s / %s: stored %s, ledger %s",
								month, year, category, expense, rec.Spending, want))
					}
				}
			}
		}
	}
	return mismatches
}

func validatePeriod(p model.Period) error {
	if err := p.Validate(); err != nil {
		if !model.ValidMonth(p.Month) {
			return &ValidationError{Field: "month", Value: p.Month, Reason: "expected a full month name"}
		}
		return &ValidationError{Field: "year", Value: p.Year, Reason: "expected YYYY"}
	}
	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Value: value, Reason: "must not be empty"}
	}
	return nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: value, Reason: "not a number"}
	}
	return d, nil
}
