// Package codec reads and writes the budget data file: nested JSON keyed
// year -> month -> category -> expense, with Allotted/Spending/Comment fields
// per expense. Key order is preserved across a load/save round-trip, as are
// unrecognized keys inside an expense object.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/budgetbook-dev/budgetbook/internal/model"
	"github.com/budgetbook-dev/budgetbook/internal/store"
)

const indent = "    "

// Field names in the persisted expense object.
const (
	fieldAllotted = "Allotted"
	fieldSpending = "Spending"
	fieldComment  = "Comment"
)

// PersistenceError wraps a failure to load or save the data file. It is
// surfaced verbatim to the caller; the engine never falls back to empty
// state on a missing or unreadable file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// LoadFile reads the data file at path into a Store.
func LoadFile(path string) (*store.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return s, nil
}

// SaveFile writes the store to path atomically: the content goes to a temp
// file in the same directory which then replaces the target, so a crash
// mid-write never truncates the existing file.
func SaveFile(path string, s *store.Store) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if err := Write(tmp, s); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Read decodes the nested JSON mapping from r, preserving key order.
func Read(r io.Reader) (*store.Store, error) {
	dec := json.NewDecoder(r)
	s := store.New()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("top level: %w", err)
	}
	for dec.More() {
		year, err := keyToken(dec)
		if err != nil {
			return nil, err
		}
		if err := readYear(dec, s, year); err != nil {
			return nil, fmt.Errorf("year %q: %w", year, err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("top level: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("top level: %w", err)
		}
		return nil, fmt.Errorf("top level: trailing data after closing brace")
	}
	return s, nil
}

func readYear(dec *json.Decoder, s *store.Store, year string) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	s.EnsureYear(year)
	for dec.More() {
		month, err := keyToken(dec)
		if err != nil {
			return err
		}
		if err := readMonth(dec, s, year, month); err != nil {
			return fmt.Errorf("month %q: %w", month, err)
		}
	}
	return expectDelim(dec, '}')
}

func readMonth(dec *json.Decoder, s *store.Store, year, month string) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	// Materialize the period even when it holds no categories yet, so an
	// empty month round-trips instead of vanishing.
	s.EnsurePeriod(year, month)
	for dec.More() {
		category, err := keyToken(dec)
		if err != nil {
			return err
		}
		if err := readCategory(dec, s, year, month, category); err != nil {
			return fmt.Errorf("category %q: %w", category, err)
		}
	}
	return expectDelim(dec, '}')
}

func readCategory(dec *json.Decoder, s *store.Store, year, month, category string) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		expense, err := keyToken(dec)
		if err != nil {
			return err
		}
		rec, err := readRecord(dec)
		if err != nil {
			return fmt.Errorf("expense %q: %w", expense, err)
		}
		s.SetRecord(year, month, category, expense, rec)
	}
	return expectDelim(dec, '}')
}

func readRecord(dec *json.Decoder) (*model.ExpenseRecord, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	rec := &model.ExpenseRecord{
		Allotted: decimal.Zero,
		Spending: decimal.Zero,
	}
	for dec.More() {
		key, err := keyToken(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case fieldAllotted:
			d, err := decodeAmount(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			rec.Allotted = d
		case fieldSpending:
			d, err := decodeAmount(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			rec.Spending = d
		case fieldComment:
			var s string
			if err := dec.Decode(&s); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			rec.Comment = s
		default:
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			rec.Extra = append(rec.Extra, model.ExtraField{Key: key, Value: raw})
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeAmount accepts a JSON number or a numeric string. The desktop app's
// editor wrote some amounts back as strings, so both shapes exist in old
// files; they are always written back as numbers.
func decodeAmount(dec *json.Decoder) (decimal.Decimal, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return decimal.Decimal{}, err
	}
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, err
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %s: %w", raw, err)
	}
	return d, nil
}

func keyToken(dec *json.Decoder) (string, error) {
	t, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := t.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", t)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := t.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, t)
	}
	return nil
}

// Write encodes the store to w as 4-space-indented JSON, keys in store
// order, amounts as native JSON numbers.
func Write(w io.Writer, s *store.Store) error {
	var buf bytes.Buffer
	if err := writeStore(&buf, s); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func writeStore(buf *bytes.Buffer, s *store.Store) error {
	years := s.Years()
	if len(years) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for yi, year := range years {
		writeKey(buf, year, 1, yi > 0)
		months := s.Months(year)
		if len(months) == 0 {
			buf.WriteString("{}")
			continue
		}
		buf.WriteByte('{')
		for mi, month := range months {
			writeKey(buf, month, 2, mi > 0)
			if err := writeCategories(buf, s.Categories(year, month)); err != nil {
				return err
			}
		}
		closeObject(buf, 1)
	}
	closeObject(buf, 0)
	return nil
}

func writeCategories(buf *bytes.Buffer, cats *store.CategoryMap) error {
	names := cats.Keys()
	if len(names) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for ci, category := range names {
		writeKey(buf, category, 3, ci > 0)
		expenses, _ := cats.Get(category)
		buf.WriteByte('{')
		for ei, expense := range expenses.Keys() {
			writeKey(buf, expense, 4, ei > 0)
			rec, _ := expenses.Get(expense)
			if err := writeRecord(buf, rec); err != nil {
				return err
			}
		}
		closeObject(buf, 3)
	}
	closeObject(buf, 2)
	return nil
}

func writeRecord(buf *bytes.Buffer, rec *model.ExpenseRecord) error {
	buf.WriteByte('{')
	writeKey(buf, fieldAllotted, 5, false)
	buf.WriteString(rec.Allotted.String())
	writeKey(buf, fieldSpending, 5, true)
	buf.WriteString(rec.Spending.String())
	writeKey(buf, fieldComment, 5, true)
	writeString(buf, rec.Comment)
	for _, extra := range rec.Extra {
		writeKey(buf, extra.Key, 5, true)
		var compact bytes.Buffer
		if err := json.Compact(&compact, extra.Value); err != nil {
			return fmt.Errorf("extra field %q: %w", extra.Key, err)
		}
		if err := json.Indent(buf, compact.Bytes(), prefix(5), indent); err != nil {
			return fmt.Errorf("extra field %q: %w", extra.Key, err)
		}
	}
	closeObject(buf, 4)
	return nil
}

func writeKey(buf *bytes.Buffer, key string, depth int, comma bool) {
	if comma {
		buf.WriteByte(',')
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix(depth))
	writeString(buf, key)
	buf.WriteString(": ")
}

func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func closeObject(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	buf.WriteString(prefix(depth))
	buf.WriteByte('}')
}

func prefix(depth int) string {
	p := ""
	for i := 0; i < depth; i++ {
		p += indent
	}
	return p
}
