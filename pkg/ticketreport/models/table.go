// Package models defines data structures for ticket report generation.
package models

import "strings"

// Table is a sheet read from a fixed header row downwards.
type Table struct {
	// Columns are the header names in sheet order.
	Columns []string `json:"columns"`
	// Rows holds raw cell strings. A row may be shorter than Columns.
	Rows [][]string `json:"rows"`
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex looks up a column by exact name.
// ok is false when the sheet has no such column.
func (t *Table) ColumnIndex(name string) (idx int, ok bool) {
	if t == nil {
		return -1, false
	}
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Value returns the cell at row/col.
// ok is false for blank cells and cells past the end of a short row.
func (t *Table) Value(row, col int) (v string, ok bool) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return "", false
	}
	r := t.Rows[row]
	if col >= len(r) {
		return "", false
	}
	v = r[col]
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Column returns every present value of the named column.
// ok is false when the column does not exist.
func (t *Table) Column(name string) (values []string, ok bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	values = make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		if v, present := t.Value(i, idx); present {
			values = append(values, v)
		}
	}
	return values, true
}
