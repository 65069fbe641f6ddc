// Package csvtable is the public entry point for loading delimited text
// into an in-memory table and writing it back out.
//
// A short session:
//
//	t, err := csvtable.Open("people.csv", csvtable.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if _, err := t.AddColumn("city"); err != nil {
//		return err
//	}
//	return csvtable.WriteFile(t, "people.csv", false)
package csvtable

import (
	"io"

	"github.com/mesh-intelligence/csvtable/internal/csvio"
	"github.com/mesh-intelligence/csvtable/internal/memtable"
	"github.com/mesh-intelligence/csvtable/pkg/types"
)

// Version is the library and CLI version.
const Version = "v0.3.0"

// Option configures a table at load time.
type Option = memtable.Option

// WithLogger and WithDebug configure debug diagnostics of a loaded table.
var (
	WithLogger = memtable.WithLogger
	WithDebug  = memtable.WithDebug
)

// DefaultConfig returns comma-delimited settings with a header line and
// minimal quoting on output.
func DefaultConfig() types.Config {
	return types.Config{
		Delimiter: types.DefaultDelimiter,
		HasHeader: true,
		Quoting:   types.DefaultQuoting,
	}
}

// Load builds a table from lines that carry no terminators.
func Load(lines []string, cfg types.Config, opts ...Option) (types.Table, error) {
	t, err := memtable.Load(lines, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Parse reads r to the end and builds a table from its lines.
func Parse(r io.Reader, cfg types.Config, opts ...Option) (types.Table, error) {
	lines, err := csvio.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Load(lines, cfg, opts...)
}

// Open reads the file at path and builds a table from it.
func Open(path string, cfg types.Config, opts ...Option) (types.Table, error) {
	lines, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(lines, cfg, opts...)
}

// Save renders t as lines, header first when the source had one.
func Save(t types.ReadOnlyTable) []string {
	return t.Lines()
}

// Write renders t to w, ending each line with \n, or \r\n when crlf is set.
func Write(t types.ReadOnlyTable, w io.Writer, crlf bool) error {
	return csvio.WriteLines(w, t.Lines(), crlf)
}

// WriteFile atomically replaces the file at path with the rendered table.
func WriteFile(t types.ReadOnlyTable, path string, crlf bool) error {
	return csvio.WriteFile(path, t.Lines(), crlf)
}
