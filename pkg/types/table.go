package types

import (
	"errors"
	"fmt"
	"iter"
)

// ReadOnlyTable provides the query side of a table. None of these methods
// change the table.
type ReadOnlyTable interface {
	// Column returns a copy of the named column's values.
	// Returns ErrColumnNotFound if no column has that name.
	Column(name string) ([]any, error)

	// ColumnAt returns a copy of the column at the given header position.
	// Returns ErrColumnNotFound if index is outside the header range.
	ColumnAt(index int) ([]any, error)

	// Row returns a detached snapshot of the row at index.
	// Returns ErrRowIndexOutOfRange if index < 0 or index >= NumRows().
	Row(index int) (Row, error)

	// RowByColumnValue returns the first row, in ascending index order,
	// whose cell in the named column equals value.
	// Returns ErrColumnNotFound or ErrRowNotFound.
	RowByColumnValue(name string, value any) (Row, error)

	// Rows yields every row in ascending index order. The sequence can be
	// ranged over more than once.
	Rows() iter.Seq[Row]

	// AllRows returns every row, taken as one consistent snapshot.
	AllRows() []Row

	// Cell returns the text form of the value at rowIndex in the column at
	// colIndex (header order).
	Cell(rowIndex, colIndex int) (string, error)

	// CellValue returns the raw value at rowIndex in the column at colIndex.
	CellValue(rowIndex, colIndex int) (any, error)

	// Headers returns the column names in canonical order.
	Headers() []string

	// HasColumn reports whether a column with the given name exists.
	HasColumn(name string) bool

	NumRows() int
	NumColumns() int

	// Lines renders one line per row, preceded by the header line when the
	// source had one.
	Lines() []string
}

// Table extends ReadOnlyTable with structural mutation.
// A failed mutation leaves the table exactly as it was.
type Table interface {
	ReadOnlyTable

	// AddColumn appends a column whose cells are all nil and returns the new
	// column count. Returns ErrDuplicateColumn if the name is taken.
	AddColumn(name string) (int, error)

	// AddColumnFromList appends a column holding a copy of values and returns
	// the new column count. Returns ErrDuplicateColumn, or ErrRowShapeMismatch
	// when len(values) != NumRows().
	AddColumnFromList(name string, values []any) (int, error)

	// DropColumn removes the named column and returns its values.
	DropColumn(name string) ([]any, error)

	// RenameColumn changes a column name, keeping its position.
	RenameColumn(oldName, newName string) error

	// AlterColumn replaces each value v in the named column with fn(v).
	// Other columns are not touched. fn must not call back into the table.
	AlterColumn(name string, fn func(any) any) error

	// ConvertColumn parses every value of the named column into kind.
	// On the first value that does not parse, it returns ErrTypeMismatch and
	// the column keeps its previous values.
	ConvertColumn(name string, kind ColumnKind) error

	// InsertRow inserts row at index atIndex and returns the new row count.
	// atIndex may equal NumRows() to append. Returns ErrRowIndexOutOfRange or
	// ErrRowShapeMismatch.
	InsertRow(atIndex int, row Row) (int, error)

	// AppendRow is InsertRow(NumRows(), row).
	AppendRow(row Row) (int, error)

	// DeleteRow removes the row at atIndex from every column and returns it.
	DeleteRow(atIndex int) (Row, error)

	// RemoveLastRow deletes the row at NumRows()-1.
	RemoveLastRow() (Row, error)

	// UpdateRow replaces the row at atIndex and returns the previous row.
	// The replacement is validated before anything changes.
	UpdateRow(atIndex int, row Row) (Row, error)

	// UpdateCell replaces one value and returns the previous one.
	UpdateCell(name string, atIndex int, value any) (any, error)

	// SetDebug toggles diagnostic logging for this table and returns the
	// previous setting.
	SetDebug(debug bool) bool
}

// Table operation errors.
var (
	ErrMalformedInput     = errors.New("malformed input")
	ErrColumnNotFound     = errors.New("column not found")
	ErrDuplicateColumn    = errors.New("duplicate column")
	ErrRowIndexOutOfRange = errors.New("row index out of range")
	ErrRowShapeMismatch   = errors.New("row does not match table columns")
	ErrRowNotFound        = errors.New("row not found")
	ErrTypeMismatch       = errors.New("type mismatch")
)

// MalformedError reports why a source could not be loaded. Line is the
// 0-based index of the offending input line, or -1 when no single line is
// at fault.
type MalformedError struct {
	Line   int
	Reason string
}

// Error formats the reason with its line, when known.
func (e *MalformedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line < 0 {
		return fmt.Sprintf("malformed input: %s", e.Reason)
	}
	return fmt.Sprintf("malformed input: %s at line %d", e.Reason, e.Line)
}

// Unwrap returns ErrMalformedInput so callers can match with errors.Is.
func (e *MalformedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrMalformedInput
}
