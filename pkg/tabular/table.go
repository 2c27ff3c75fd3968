// Package tabular provides the in-memory table model shared by every input
// and output of the reconciliation run: an ordered sequence of records with
// named columns, plus CSV and XLSX codecs. Parsing happens entirely before
// the reconciliation pass and serialization entirely after it; nothing in
// this package is touched from the hot loop.
package tabular

import (
	"strings"

	"github.com/vroomi/stocksync/pkg/errors"
)

// Table is an ordered set of rows with named columns. Row order is
// significant; the output of a run preserves the relative order of the
// catalog input.
type Table struct {
	// Source labels the table in error messages ("catalog", "mcws", "bbr").
	Source string

	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given source label and columns.
func New(source string, columns ...string) *Table {
	return &Table{Source: source, Columns: columns}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row. Short rows are padded when read back via Cell, so
// callers may append rows narrower than the header.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Column returns the index of a named column. Header cells are compared
// after trimming surrounding whitespace, which real-world exports need.
func (t *Table) Column(name string) (int, bool) {
	want := strings.TrimSpace(name)
	for i, col := range t.Columns {
		if strings.TrimSpace(col) == want {
			return i, true
		}
	}
	return 0, false
}

// Require resolves the named columns, returning their indexes in argument
// order. A missing column is a fatal SchemaError naming the column and the
// table's source.
func (t *Table) Require(names ...string) ([]int, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		idx, ok := t.Column(name)
		if !ok {
			return nil, errors.NewSchemaError(t.Source, name)
		}
		indexes[i] = idx
	}
	return indexes, nil
}

// Cell returns the value at the given row and column index, or the empty
// string when the row is shorter than the header.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
