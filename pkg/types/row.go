package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Row is a detached snapshot of one logical row. Values maps column name to
// cell value; Columns carries the order used to rebuild a delimited line.
// Rows returned by a table are copies, so editing one never reaches the
// table. Pass a Row back through InsertRow or UpdateRow to store it.
type Row struct {
	Values  map[string]any
	Columns []string
}

// NewRow builds a row from a name to value map. The map is copied.
func NewRow(values map[string]any) Row {
	return Row{Values: maps.Clone(values)}
}

// RowOf pairs columns with values positionally.
// Returns ErrRowShapeMismatch if the lengths differ or a column repeats.
func RowOf(columns []string, values []any) (Row, error) {
	if len(columns) != len(values) {
		return Row{}, fmt.Errorf("%w: %d columns, %d values", ErrRowShapeMismatch, len(columns), len(values))
	}
	r := Row{
		Values:  make(map[string]any, len(columns)),
		Columns: slices.Clone(columns),
	}
	for i, c := range columns {
		if _, dup := r.Values[c]; dup {
			return Row{}, fmt.Errorf("%w: column %q given twice", ErrRowShapeMismatch, c)
		}
		r.Values[c] = values[i]
	}
	return r, nil
}

// Len returns the number of fields in the row.
func (r Row) Len() int {
	return len(r.Values)
}

// Get returns the value stored under name and whether it was present.
func (r Row) Get(name string) (any, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// At returns the value of the index-th column in Columns order.
func (r Row) At(index int) (any, error) {
	if index < 0 || index >= len(r.Columns) {
		return nil, fmt.Errorf("%w: index %d", ErrColumnNotFound, index)
	}
	return r.Values[r.Columns[index]], nil
}

// Clone returns a deep copy of the row's map and column order. Cell values
// themselves are copied by assignment.
func (r Row) Clone() Row {
	return Row{Values: maps.Clone(r.Values), Columns: slices.Clone(r.Columns)}
}

// order returns Columns, or the sorted value keys when no order was set.
func (r Row) order() []string {
	if len(r.Columns) > 0 {
		return r.Columns
	}
	return slices.Sorted(maps.Keys(r.Values))
}

// Fields returns the text form of each value in column order. nil renders
// as the empty string.
func (r Row) Fields() []string {
	cols := r.order()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = FormatValue(r.Values[c])
	}
	return out
}

// Format joins Fields with sep.
func (r Row) Format(sep string) string {
	return strings.Join(r.Fields(), sep)
}

// String renders the row as {name:value, ...} in column order.
func (r Row) String() string {
	cols := r.order()
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteByte(':')
		b.WriteString(FormatValue(r.Values[c]))
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the row as a JSON object whose keys follow column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.order() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[c])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatValue returns the text form of a cell value: "" for nil, strings and
// byte slices as they are, String() for a fmt.Stringer, fmt.Sprint otherwise.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
