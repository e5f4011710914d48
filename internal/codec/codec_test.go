package codec

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetbook-dev/budgetbook/internal/store"
)

const sampleFile = `{
    "2024": {
        "March": {
            "Food": {
                "Groceries": {
                    "Allotted": 200,
                    "Spending": 42.5,
                    "Comment": "weekly shop"
                },
                "Eating Out": {
                    "Allotted": "100",
                    "Spending": "0",
                    "Comment": ""
                }
            },
            "Housing": {
                "Rent": {
                    "Allotted": 1000,
                    "Spending": 1000,
                    "Comment": "due on the 1st"
                }
            }
        },
        "April": {}
    }
}`

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader(sampleFile))
	require.NoError(t, err)

	rec, ok := s.Lookup("2024", "March", "Food", "Groceries")
	require.True(t, ok)
	assert.True(t, rec.Allotted.Equal(dec("200")))
	assert.True(t, rec.Spending.Equal(dec("42.5")))
	assert.Equal(t, "weekly shop", rec.Comment)

	// Numeric strings coerce to numbers.
	rec, ok = s.Lookup("2024", "March", "Food", "Eating Out")
	require.True(t, ok)
	assert.True(t, rec.Allotted.Equal(dec("100")))
	assert.True(t, rec.Spending.IsZero())

	// An empty month exists rather than erroring or vanishing.
	assert.Equal(t, []string{"March", "April"}, s.Months("2024"))
	assert.Zero(t, s.Categories("2024", "April").Len())
}

func TestRead_KeyOrder(t *testing.T) {
	s, err := Read(strings.NewReader(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, []string{"Food", "Housing"}, s.Categories("2024", "March").Keys())
	food, _ := s.Categories("2024", "March").Get("Food")
	assert.Equal(t, []string{"Groceries", "Eating Out"}, food.Keys())
}

func TestRead_BadAmount(t *testing.T) {
	input := `{"2024": {"March": {"Food": {"Groceries": {"Allotted": "lots", "Spending": 0, "Comment": ""}}}}}`
	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Allotted")
}

func TestRead_TrailingData(t *testing.T) {
	for _, input := range []string{
		"{} garbage",
		"{}{}",
		sampleFile + "[]",
	} {
		_, err := Read(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestRoundTrip(t *testing.T) {
	s, err := Read(strings.NewReader(sampleFile))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))

	again, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, s.Years(), again.Years())
	assert.Equal(t, s.Months("2024"), again.Months("2024"))
	assert.Equal(t, s.Categories("2024", "March").Keys(), again.Categories("2024", "March").Keys())

	want, _ := s.Lookup("2024", "March", "Housing", "Rent")
	got, ok := again.Lookup("2024", "March", "Housing", "Rent")
	require.True(t, ok)
	assert.True(t, got.Allotted.Equal(want.Allotted))
	assert.True(t, got.Spending.Equal(want.Spending))
	assert.Equal(t, want.Comment, got.Comment)
}

func TestRoundTrip_UnknownKeysPreserved(t *testing.T) {
	input := `{"2024": {"March": {"Food": {"Groceries": {
        "Allotted": 200,
        "Spending": 0,
        "Comment": "",
        "Color": "#ff0000",
        "Meta": {"pinned": true}
    }}}}}`

	s, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	rec, ok := s.Lookup("2024", "March", "Food", "Groceries")
	require.True(t, ok)
	require.Len(t, rec.Extra, 2)
	assert.Equal(t, "Color", rec.Extra[0].Key)
	assert.Equal(t, "Meta", rec.Extra[1].Key)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))
	out := buf.String()
	assert.Contains(t, out, `"Color": "#ff0000"`)
	assert.Contains(t, out, `"pinned": true`)

	// And they survive a second pass.
	again, err := Read(strings.NewReader(out))
	require.NoError(t, err)
	rec, ok = again.Lookup("2024", "March", "Food", "Groceries")
	require.True(t, ok)
	assert.Len(t, rec.Extra, 2)
}

func TestWrite_AmountsAreNumbers(t *testing.T) {
	s := store.New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("99.50"), "")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))
	assert.Contains(t, buf.String(), `"Allotted": 99.5`)
	assert.NotContains(t, buf.String(), `"Allotted": "99.5"`)
}

func TestRoundTrip_EmptyYear(t *testing.T) {
	s, err := Read(strings.NewReader(`{"2030": {}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"2030"}, s.Years())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"2030"}, again.Years())
	assert.Empty(t, again.Months("2030"))
}

func TestWrite_EmptyStore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, store.New()))
	assert.Equal(t, "{}\n", buf.String())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
}

func TestSaveFile_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "budget.json")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o644))

	s := store.New()
	s.UpsertExpense("2024", "March", "Food", "Groceries", dec("200"), "")
	require.NoError(t, SaveFile(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Groceries"`)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSaveFile_ThenLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.json")

	s := store.New()
	s.EnsurePeriod("2024", "March")
	require.NoError(t, SaveFile(path, s))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024"}, got.Years())
	assert.Equal(t, []string{"March"}, got.Months("2024"))
}
