package boxscore

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a referenced column is absent from the table.
	ErrMissingColumn = errors.New("missing column")
	// ErrLengthMismatch is returned when a column does not line up with the table rows.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrColumnKind is returned when a column is read with the wrong kind.
	ErrColumnKind = errors.New("column kind mismatch")
)

// Table is an in-memory columnar table. Columns are either numeric
// (nullable floats) or text, and keep their insertion order.
//
// A Table is not safe for concurrent mutation.
type Table struct {
	rows    int
	order   []string
	numeric map[string][]Value
	text    map[string][]string
}

// NewTable returns an empty table with the given row count.
func NewTable(rows int) *Table {
	return &Table{
		rows:    rows,
		numeric: make(map[string][]Value),
		text:    make(map[string][]string),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	if _, ok := t.numeric[name]; ok {
		return true
	}
	_, ok := t.text[name]
	return ok
}

// IsNumeric reports whether name is a numeric column.
func (t *Table) IsNumeric(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.numeric[name]
	return ok
}

// Numeric returns the numeric column. The returned slice is shared with the
// table and must not be modified.
func (t *Table) Numeric(name string) ([]Value, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	if col, ok := t.numeric[name]; ok {
		return col, nil
	}
	if _, ok := t.text[name]; ok {
		return nil, fmt.Errorf("%w: %s is text", ErrColumnKind, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// Text returns the text column. The returned slice is shared with the table.
func (t *Table) Text(name string) ([]string, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	if col, ok := t.text[name]; ok {
		return col, nil
	}
	if _, ok := t.numeric[name]; ok {
		return nil, fmt.Errorf("%w: %s is numeric", ErrColumnKind, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// SetNumeric adds or overwrites a numeric column. An existing column keeps
// its position; a text column of the same name is replaced.
func (t *Table) SetNumeric(name string, values []Value) error {
	if len(values) != t.rows {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", ErrLengthMismatch, name, len(values), t.rows)
	}
	if !t.Has(name) {
		t.order = append(t.order, name)
	}
	delete(t.text, name)
	t.numeric[name] = values
	return nil
}

// SetText adds or overwrites a text column.
func (t *Table) SetText(name string, values []string) error {
	if len(values) != t.rows {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", ErrLengthMismatch, name, len(values), t.rows)
	}
	if !t.Has(name) {
		t.order = append(t.order, name)
	}
	delete(t.numeric, name)
	t.text[name] = values
	return nil
}

// Drop removes the named columns; unknown names are ignored.
func (t *Table) Drop(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
		delete(t.numeric, n)
		delete(t.text, n)
	}
	kept := t.order[:0]
	for _, n := range t.order {
		if _, ok := drop[n]; !ok {
			kept = append(kept, n)
		}
	}
	t.order = kept
}

// Head returns a copy of the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > t.rows {
		n = t.rows
	}
	out := NewTable(n)
	for _, name := range t.order {
		if col, ok := t.numeric[name]; ok {
			vals := make([]Value, n)
			copy(vals, col[:n])
			out.numeric[name] = vals
		} else {
			vals := make([]string, n)
			copy(vals, t.text[name][:n])
			out.text[name] = vals
		}
		out.order = append(out.order, name)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable(0)
	}
	return t.Head(t.rows)
}

// Cell renders one cell as text; numeric missing values render empty.
func (t *Table) Cell(row int, name string) string {
	if col, ok := t.numeric[name]; ok {
		return col[row].String()
	}
	if col, ok := t.text[name]; ok {
		return col[row]
	}
	return ""
}

// Records returns a header line followed by one rendered line per row.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.rows+1)
	out = append(out, t.Columns())
	for i := 0; i < t.rows; i++ {
		rec := make([]string, len(t.order))
		for j, name := range t.order {
			rec[j] = t.Cell(i, name)
		}
		out = append(out, rec)
	}
	return out
}

// Row returns one row keyed by column name. Numeric cells are Values so
// missing cells encode as JSON null.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.order))
	for _, name := range t.order {
		if col, ok := t.numeric[name]; ok {
			row[name] = col[i]
		} else {
			row[name] = t.text[name][i]
		}
	}
	return row
}

// Rows returns every row as a map, in table order.
func (t *Table) Rows() []map[string]any {
	out := make([]map[string]any, t.Len())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Require fails with ErrMissingColumn naming the first absent column.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
	}
	return nil
}
