package memtable

import (
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/mesh-intelligence/csvtable/pkg/types"
)

// Headers returns a copy of the column names in canonical order.
func (t *Table) Headers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.headers)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.numRows
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.headers)
}

// HasColumn reports whether name is a column.
func (t *Table) HasColumn(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.columns[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrColumnNotFound, name)
	}
	return slices.Clone(col), nil
}

// ColumnAt returns a copy of the column at header position index.
func (t *Table) ColumnAt(index int) ([]any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name, err := t.headerAt(index)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.columns[name]), nil
}

// Row returns a snapshot of the row at index.
func (t *Table) Row(index int) (types.Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.checkRow(index); err != nil {
		return types.Row{}, err
	}
	return t.rowAt(index), nil
}

// RowByColumnValue returns the lowest-index row whose cell in column name
// is deeply equal to value.
func (t *Table) RowByColumnValue(name string, value any) (types.Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	col, ok := t.columns[name]
	if !ok {
		return types.Row{}, fmt.Errorf("%w: %q", types.ErrColumnNotFound, name)
	}
	for i, v := range col {
		if reflect.DeepEqual(v, value) {
			return t.rowAt(i), nil
		}
	}
	return types.Row{}, fmt.Errorf("%w: no %q equal to %v", types.ErrRowNotFound, name, value)
}

// Rows yields each row in ascending order. Every step takes the read lock
// on its own, so rows reflect one snapshot only when nothing mutates the
// table during the iteration. Iteration stops early if rows are removed
// underneath it.
func (t *Table) Rows() iter.Seq[types.Row] {
	return func(yield func(types.Row) bool) {
		for i := 0; ; i++ {
			r, err := t.Row(i)
			if err != nil {
				return
			}
			if !yield(r) {
				return
			}
		}
	}
}

// AllRows returns every row, read under a single lock.
func (t *Table) AllRows() []types.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]types.Row, t.numRows)
	for i := range rows {
		rows[i] = t.rowAt(i)
	}
	return rows
}

// Cell returns the text form of the value at rowIndex in the colIndex-th
// column.
func (t *Table) Cell(rowIndex, colIndex int) (string, error) {
	v, err := t.CellValue(rowIndex, colIndex)
	if err != nil {
		return "", err
	}
	return types.FormatValue(v), nil
}

// CellValue returns the raw value at rowIndex in the colIndex-th column.
func (t *Table) CellValue(rowIndex, colIndex int) (any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.checkRow(rowIndex); err != nil {
		return nil, err
	}
	name, err := t.headerAt(colIndex)
	if err != nil {
		return nil, err
	}
	return t.columns[name][rowIndex], nil
}

// rowAt builds the snapshot for row i. The caller holds the lock and has
// checked i.
func (t *Table) rowAt(i int) types.Row {
	r := types.Row{
		Values:  make(map[string]any, len(t.headers)),
		Columns: slices.Clone(t.headers),
	}
	for _, h := range t.headers {
		r.Values[h] = t.columns[h][i]
	}
	return r
}

func (t *Table) checkRow(index int) error {
	if index < 0 || index >= t.numRows {
		return fmt.Errorf("%w: %d (rows: %d)", types.ErrRowIndexOutOfRange, index, t.numRows)
	}
	return nil
}

func (t *Table) headerAt(index int) (string, error) {
	if index < 0 || index >= len(t.headers) {
		return "", fmt.Errorf("%w: index %d (columns: %d)", types.ErrColumnNotFound, index, len(t.headers))
	}
	return t.headers[index], nil
}
