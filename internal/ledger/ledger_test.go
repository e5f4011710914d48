package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetbook-dev/budgetbook/internal/model"
)

var march = model.Period{Year: "2024", Month: "March"}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAdd_GeneratesUniqueIDs(t *testing.T) {
	l := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		txn := l.Add(march, "Food", "Groceries", dec("1"), "")
		require.NotEmpty(t, txn.ID)
		require.False(t, seen[txn.ID], "id %s reused", txn.ID)
		seen[txn.ID] = true
	}
	assert.Equal(t, 100, l.Len())
}

func TestAdd_RecordsPeriod(t *testing.T) {
	l := New()
	txn := l.Add(march, "Food", "Groceries", dec("42.50"), "weekly shop")

	assert.Equal(t, "2024", txn.Year)
	assert.Equal(t, "March", txn.Month)
	assert.Equal(t, "Food", txn.Category)
	assert.Equal(t, "Groceries", txn.Expense)
	assert.True(t, txn.Amount.Equal(dec("42.50")))
	assert.Equal(t, "weekly shop", txn.Comment)
}

func TestDelete(t *testing.T) {
	l := New()
	a := l.Add(march, "Food", "Groceries", dec("10"), "")
	b := l.Add(march, "Food", "Eating Out", dec("20"), "")
	c := l.Add(march, "Travel", "Fuel", dec("30"), "")

	got, ok := l.Delete(b.ID)
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, 2, l.Len())

	// Remaining entries keep insertion order and stay findable.
	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, c.ID, all[1].ID)

	found, ok := l.Find(c.ID)
	require.True(t, ok)
	assert.Equal(t, "Fuel", found.Expense)
}

func TestDelete_UnknownIsNoOp(t *testing.T) {
	l := New()
	txn := l.Add(march, "Food", "Groceries", dec("10"), "")

	_, ok := l.Delete("no-such-id")
	assert.False(t, ok)

	_, ok = l.Delete(txn.ID)
	require.True(t, ok)
	_, ok = l.Delete(txn.ID)
	assert.False(t, ok, "second delete of the same id is a no-op")
	assert.Zero(t, l.Len())
}

func TestFind_Unknown(t *testing.T) {
	l := New()
	_, ok := l.Find("missing")
	assert.False(t, ok)
}

func TestAll_IsASnapshot(t *testing.T) {
	l := New()
	l.Add(march, "Food", "Groceries", dec("10"), "")

	all := l.All()
	all[0].Category = "mutated"

	fresh := l.All()
	assert.Equal(t, "Food", fresh[0].Category)
}

func TestRestore(t *testing.T) {
	l := New()
	txn := model.Transaction{
		ID: "fixed-id", Year: "2024", Month: "March",
		Category: "Food", Expense: "Groceries", Amount: dec("10"),
	}

	require.True(t, l.Restore(txn))
	assert.False(t, l.Restore(txn), "duplicate id must be rejected")

	got, ok := l.Find("fixed-id")
	require.True(t, ok)
	assert.Equal(t, "Groceries", got.Expense)
}
