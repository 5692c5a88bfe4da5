package basket

import (
	"fmt"
	"sort"
)

// Matrix is an immutable boolean presence matrix: rows are transactions,
// columns are item names.
type Matrix struct {
	columns []string
	index   map[string]int
	cells   [][]bool
}

// NewMatrix validates and copies columns and rows into a Matrix.
func NewMatrix(columns []string, rows [][]bool) (*Matrix, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	m := &Matrix{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]bool, len(rows)),
	}
	for i, c := range m.columns {
		if _, dup := m.index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		m.index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedMatrix, i, len(row), len(columns))
		}
		m.cells[i] = append([]bool(nil), row...)
	}
	return m, nil
}

// Encode one-hot encodes a transaction table. Columns are the sorted distinct
// non-empty cells. The result is checked against the table before returning.
func Encode(t *Table) (*Matrix, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrNoColumns)
	}
	universe := map[string]struct{}{}
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell != "" {
				universe[cell] = struct{}{}
			}
		}
	}
	columns := make([]string, 0, len(universe))
	for item := range universe {
		columns = append(columns, item)
	}
	sort.Strings(columns)
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	rows := make([][]bool, len(t.Rows))
	for i, row := range t.Rows {
		enc := make([]bool, len(columns))
		for _, cell := range row {
			if cell != "" {
				enc[idx[cell]] = true
			}
		}
		rows[i] = enc
	}
	m := &Matrix{columns: columns, index: idx, cells: rows}
	if err := VerifyRoundTrip(t, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode converts each matrix row back into its sorted list of items.
func Decode(m *Matrix) [][]string {
	out := make([][]string, m.NumRows())
	for i := range m.cells {
		out[i] = m.Items(i)
	}
	return out
}

// Columns returns a copy of the item universe in column order.
func (m *Matrix) Columns() []string { return append([]string(nil), m.columns...) }

// NumRows returns the number of transactions.
func (m *Matrix) NumRows() int { return len(m.cells) }

// NumColumns returns the number of items.
func (m *Matrix) NumColumns() int { return len(m.columns) }

// ColumnIndex returns the position of item, or false when it is not a column.
func (m *Matrix) ColumnIndex(item string) (int, bool) {
	i, ok := m.index[item]
	return i, ok
}

// At reports whether transaction row contains the item at column col.
func (m *Matrix) At(row, col int) bool { return m.cells[row][col] }

// Row returns a copy of one transaction.
func (m *Matrix) Row(i int) []bool { return append([]bool(nil), m.cells[i]...) }

// Items returns the items present in row i, in column order.
func (m *Matrix) Items(i int) []string {
	var out []string
	for j, v := range m.cells[i] {
		if v {
			out = append(out, m.columns[j])
		}
	}
	return out
}

// Truncate keeps the first limit columns. A non-positive limit, or one at or
// above the column count, returns m unchanged.
func (m *Matrix) Truncate(limit int) *Matrix {
	if limit <= 0 || limit >= len(m.columns) {
		return m
	}
	rows := make([][]bool, len(m.cells))
	for i, row := range m.cells {
		rows[i] = row[:limit:limit]
	}
	out, _ := NewMatrix(m.columns[:limit], rows)
	return out
}

// DropEmptyRows discards transactions that contain none of the columns.
func (m *Matrix) DropEmptyRows() *Matrix {
	kept := make([][]bool, 0, len(m.cells))
	for _, row := range m.cells {
		for _, v := range row {
			if v {
				kept = append(kept, row)
				break
			}
		}
	}
	if len(kept) == len(m.cells) {
		return m
	}
	out, _ := NewMatrix(m.columns, kept)
	return out
}
