// Package memtable implements types.Table as a column-oriented, in-memory
// store loaded from delimited text lines.
//
// Cells are grouped by column: one []any per header, all of the same
// length. Every public method takes the table's lock for its whole run, so
// each call is atomic with respect to other callers. Sequences of calls are
// not.
package memtable

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/mesh-intelligence/csvtable/internal/codec"
	"github.com/mesh-intelligence/csvtable/pkg/types"
)

// Table is the column-oriented store. The zero value is not usable; build
// one with Load or LoadSeq.
type Table struct {
	mu sync.RWMutex

	headers []string         // canonical column order
	columns map[string][]any // header -> cells, each len == numRows
	numRows int

	delimiter byte
	quoting   types.Quoting
	hasHeader bool

	debug  bool
	logger *slog.Logger
}

var _ types.Table = (*Table)(nil)

// Option configures a Table at load time.
type Option func(*Table)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithDebug starts the table with debug diagnostics on or off.
func WithDebug(debug bool) Option {
	return func(t *Table) {
		t.debug = debug
	}
}

// Load builds a table from lines. See LoadSeq.
func Load(lines []string, cfg types.Config, opts ...Option) (*Table, error) {
	return LoadSeq(slices.Values(lines), cfg, opts...)
}

// LoadSeq builds a table from a sequence of lines, already split on line
// terminators. With cfg.HasHeader the first line names the columns;
// otherwise columns are named "0", "1", ... after the first line's width.
//
// Loading is all or nothing. It fails with a *types.MalformedError when the
// source is empty, the header repeats a name, or any line has a different
// number of fields than the header.
func LoadSeq(lines iter.Seq[string], cfg types.Config, opts ...Option) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		columns:   make(map[string][]any),
		delimiter: cfg.DelimiterByte(),
		quoting:   cfg.QuotingMode(),
		hasHeader: cfg.HasHeader,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}

	lineNo := -1
	for line := range lines {
		lineNo++
		fields := codec.SplitLine(line, t.delimiter)

		if t.headers == nil {
			if t.hasHeader {
				if err := t.setHeaders(fields, lineNo); err != nil {
					return nil, err
				}
				continue
			}
			synth := make([]string, len(fields))
			for i := range synth {
				synth[i] = strconv.Itoa(i)
			}
			if err := t.setHeaders(synth, lineNo); err != nil {
				return nil, err
			}
		}

		if len(fields) != len(t.headers) {
			return nil, &types.MalformedError{
				Line:   lineNo,
				Reason: fmt.Sprintf("wrong column count (got %d fields, want %d)", len(fields), len(t.headers)),
			}
		}
		for i, h := range t.headers {
			t.columns[h] = append(t.columns[h], fields[i])
		}
		t.numRows++
	}

	if lineNo < 0 {
		return nil, &types.MalformedError{Line: -1, Reason: "no lines found"}
	}

	t.logger.Debug("table loaded",
		"rows", t.numRows,
		"columns", len(t.headers),
		"header", t.hasHeader,
	)
	return t, nil
}

func (t *Table) setHeaders(names []string, lineNo int) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return &types.MalformedError{Line: lineNo, Reason: fmt.Sprintf("duplicate column %q in header", n)}
		}
		seen[n] = true
	}
	t.headers = slices.Clone(names)
	for _, n := range t.headers {
		t.columns[n] = []any{}
	}
	return nil
}

// Lines renders each row in header order, using the table's delimiter and
// quoting mode, preceded by the header line when the source had one. Cells
// render with types.FormatValue.
func (t *Table) Lines() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	lines := make([]string, 0, t.numRows+1)
	if t.hasHeader {
		lines = append(lines, codec.FormatLine(t.headers, t.delimiter, t.quoting))
	}

	fields := make([]string, len(t.headers))
	for i := 0; i < t.numRows; i++ {
		for j, h := range t.headers {
			fields[j] = types.FormatValue(t.columns[h][i])
		}
		lines = append(lines, codec.FormatLine(fields, t.delimiter, t.quoting))
	}
	return lines
}

// Config reports the delimited-text settings the table was loaded with.
func (t *Table) Config() types.Config {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return types.Config{
		Delimiter: string(t.delimiter),
		HasHeader: t.hasHeader,
		Quoting:   t.quoting,
	}
}

// SetDebug turns debug diagnostics on or off and returns the previous value.
func (t *Table) SetDebug(debug bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.debug
	t.debug = debug
	return old
}

// Debug reports whether debug diagnostics are on.
func (t *Table) Debug() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.debug
}
