package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestUpsertExpense_CreatesWithZeroSpending(t *testing.T) {
	s := New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "weekly shop")

	rec, ok := s.Lookup("2024", "March", "Food", "Groceries")
	require.True(t, ok)
	assert.True(t, rec.Allotted.Equal(dec("200")))
	assert.True(t, rec.Spending.IsZero())
	assert.Equal(t, "weekly shop", rec.Comment)
}

func TestUpsertExpense_PreservesSpending(t *testing.T) {
	s := New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "old")
	require.NoError(t, s.AdjustSpending("2024", "March", "Food", "Groceries", dec("42.50")))

	// Re-upsert overwrites allotted and comment but not spending.
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("300"), "new")

	rec, ok := s.Lookup("2024", "March", "Food", "Groceries")
	require.True(t, ok)
	assert.True(t, rec.Allotted.Equal(dec("300")))
	assert.True(t, rec.Spending.Equal(dec("42.50")))
	assert.Equal(t, "new", rec.Comment)
}

func TestAdjustSpending_NotFound(t *testing.T) {
	s := New()
	err := s.AdjustSpending("2024", "March", "Food", "Groceries", dec("10"))
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Food", nf.Category)
	assert.Equal(t, "Groceries", nf.Expense)
}

func TestAdjustSpending_Accumulates(t *testing.T) {
	s := New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "")

	require.NoError(t, s.AdjustSpending("2024", "March", "Food", "Groceries", dec("42.50")))
	require.NoError(t, s.AdjustSpending("2024", "March", "Food", "Groceries", dec("7.50")))
	require.NoError(t, s.AdjustSpending("2024", "March", "Food", "Groceries", dec("-10")))

	rec, _ := s.Lookup("2024", "March", "Food", "Groceries")
	assert.True(t, rec.Spending.Equal(dec("40")))
}

func TestCategories_AbsentPeriodIsEmpty(t *testing.T) {
	s := New()
	cats := s.Categories("2030", "January")
	require.NotNil(t, cats)
	assert.Zero(t, cats.Len())
}

func TestDeleteExpense_PrunesEmptyCategory(t *testing.T) {
	s := New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "")
	s.UpsertExpense("2024", "March", "Food", "Eating Out", dec("100"), "")

	require.True(t, s.DeleteExpense("2024", "March", "Food", "Groceries"))
	_, ok := s.Categories("2024", "March").Get("Food")
	assert.True(t, ok, "category with remaining expense stays")

	require.True(t, s.DeleteExpense("2024", "March", "Food", "Eating Out"))
	_, ok = s.Categories("2024", "March").Get("Food")
	assert.False(t, ok, "last expense removal prunes the category")
}

func TestDeleteExpense_Missing(t *testing.T) {
	s := New()
	assert.False(t, s.DeleteExpense("2024", "March", "Food", "Groceries"))

	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "")
	assert.False(t, s.DeleteExpense("2024", "March", "Food", "Snacks"))
	assert.False(t, s.DeleteExpense("2024", "March", "Travel", "Fuel"))
}

func TestDeleteCategory(t *testing.T) {
	s := New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "")
	s.UpsertExpense("2024", "March", "Food", "Eating Out", dec("100"), "")

	require.True(t, s.DeleteCategory("2024", "March", "Food"))
	assert.Zero(t, s.Categories("2024", "March").Len())
	assert.False(t, s.DeleteCategory("2024", "March", "Food"), "second delete is a no-op")
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := New()
	s.UpsertExpense("2024", "March", "Housing", "Rent", dec("1000"), "")
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "")
	s.UpsertExpense("2024", "March", "Food", "Eating Out", dec("100"), "")
	s.UpsertExpense("2024", "February", "Food", "Groceries", dec("180"), "")
	s.UpsertExpense("2023", "December", "Gifts", "Family", dec("300"), "")

	assert.Equal(t, []string{"2024", "2023"}, s.Years())
	assert.Equal(t, []string{"March", "February"}, s.Months("2024"))
	assert.Equal(t, []string{"Housing", "Food"}, s.Categories("2024", "March").Keys())

	food, ok := s.Categories("2024", "March").Get("Food")
	require.True(t, ok)
	assert.Equal(t, []string{"Groceries", "Eating Out"}, food.Keys())
}

func TestEnsurePeriod(t *testing.T) {
	s := New()
	s.EnsurePeriod("2024", "March")

	assert.Equal(t, []string{"2024"}, s.Years())
	assert.Equal(t, []string{"March"}, s.Months("2024"))
	assert.Zero(t, s.Categories("2024", "March").Len())
}
