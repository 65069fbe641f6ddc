package memtable

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/csvtable/pkg/types"
)

// AddColumn appends a column of nil cells and returns the new column count.
func (t *Table) AddColumn(name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.columns[name]; ok {
		return 0, fmt.Errorf("%w: %q", types.ErrDuplicateColumn, name)
	}
	t.installColumn(name, make([]any, t.numRows))
	return len(t.headers), nil
}

// AddColumnFromList appends a column holding a copy of values and returns
// the new column count.
func (t *Table) AddColumnFromList(name string, values []any) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.columns[name]; ok {
		return 0, fmt.Errorf("%w: %q", types.ErrDuplicateColumn, name)
	}
	if len(values) != t.numRows {
		return 0, fmt.Errorf("%w: column %q has %d values, table has %d rows",
			types.ErrRowShapeMismatch, name, len(values), t.numRows)
	}
	col := make([]any, t.numRows)
	copy(col, values)
	t.installColumn(name, col)
	return len(t.headers), nil
}

func (t *Table) installColumn(name string, col []any) {
	t.headers = append(t.headers, name)
	t.columns[name] = col
}

// DropColumn removes the named column and returns its values.
func (t *Table) DropColumn(name string) ([]any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrColumnNotFound, name)
	}
	delete(t.columns, name)
	t.headers = slices.DeleteFunc(t.headers, func(h string) bool { return h == name })
	return col, nil
}

// RenameColumn renames a column in place.
func (t *Table) RenameColumn(oldName, newName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	col, ok := t.columns[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrColumnNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, taken := t.columns[newName]; taken {
		return fmt.Errorf("%w: %q", types.ErrDuplicateColumn, newName)
	}
	delete(t.columns, oldName)
	t.columns[newName] = col
	t.headers[slices.Index(t.headers, oldName)] = newName
	return nil
}

// AlterColumn maps fn over the named column, replacing it with the result.
// fn runs under the table's write lock.
func (t *Table) AlterColumn(name string, fn func(any) any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	col, ok := t.columns[name]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrColumnNotFound, name)
	}
	mapped := make([]any, len(col))
	for i, v := range col {
		mapped[i] = fn(v)
	}
	t.columns[name] = mapped
	return nil
}

// ConvertColumn parses every cell of the named column into kind. The column
// is replaced only if every cell converts.
func (t *Table) ConvertColumn(name string, kind types.ColumnKind) error {
	if !types.IsValidColumnKind(kind) {
		return fmt.Errorf("%w: unknown column kind %q", types.ErrTypeMismatch, kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	col, ok := t.columns[name]
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrColumnNotFound, name)
	}
	converted := make([]any, len(col))
	for i, v := range col {
		c, err := types.ParseValue(v, kind)
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		converted[i] = c
	}
	t.columns[name] = converted
	return nil
}

// InsertRow inserts row at atIndex and returns the new row count.
func (t *Table) InsertRow(atIndex int, row types.Row) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertRowLocked(atIndex, row)
}

// AppendRow adds row after the last row and returns the new row count.
func (t *Table) AppendRow(row types.Row) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertRowLocked(t.numRows, row)
}

func (t *Table) insertRowLocked(atIndex int, row types.Row) (int, error) {
	if atIndex < 0 || atIndex > t.numRows {
		return 0, fmt.Errorf("%w: insert at %d (rows: %d)", types.ErrRowIndexOutOfRange, atIndex, t.numRows)
	}
	if err := t.checkShape(row); err != nil {
		return 0, err
	}
	for _, h := range t.headers {
		t.columns[h] = slices.Insert(t.columns[h], atIndex, row.Values[h])
	}
	t.numRows++
	return t.numRows, nil
}

// DeleteRow removes the row at atIndex and returns it.
func (t *Table) DeleteRow(atIndex int) (types.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deleteRowLocked(atIndex)
}

// RemoveLastRow removes the final row and returns it.
func (t *Table) RemoveLastRow() (types.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deleteRowLocked(t.numRows - 1)
}

func (t *Table) deleteRowLocked(atIndex int) (types.Row, error) {
	if err := t.checkRow(atIndex); err != nil {
		return types.Row{}, err
	}
	removed := t.rowAt(atIndex)
	for _, h := range t.headers {
		t.columns[h] = slices.Delete(t.columns[h], atIndex, atIndex+1)
	}
	t.numRows--
	return removed, nil
}

// UpdateRow replaces the row at atIndex with row and returns the previous
// contents. The new row is validated first, so a rejected update changes
// nothing.
func (t *Table) UpdateRow(atIndex int, row types.Row) (types.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkRow(atIndex); err != nil {
		return types.Row{}, err
	}
	if err := t.checkShape(row); err != nil {
		return types.Row{}, err
	}
	prev := t.rowAt(atIndex)
	for _, h := range t.headers {
		t.columns[h][atIndex] = row.Values[h]
	}
	return prev, nil
}

// UpdateCell replaces the value of column name at atIndex and returns the
// previous value.
func (t *Table) UpdateCell(name string, atIndex int, value any) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrColumnNotFound, name)
	}
	if err := t.checkRow(atIndex); err != nil {
		return nil, err
	}
	prev := col[atIndex]
	col[atIndex] = value
	return prev, nil
}

// checkShape verifies that row names exactly the table's columns.
func (t *Table) checkShape(row types.Row) error {
	var unknown []string
	for name := range row.Values {
		if _, ok := t.columns[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	if t.debug {
		for _, name := range unknown {
			t.logger.Debug("row field is not a table column", "field", name)
		}
	}

	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown column %q", types.ErrRowShapeMismatch, unknown[0])
	}
	if len(row.Values) != len(t.headers) {
		return fmt.Errorf("%w: row has %d fields, table has %d columns",
			types.ErrRowShapeMismatch, len(row.Values), len(t.headers))
	}
	return nil
}
