// Unit tests for loading and rendering tables.
package memtable

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headerCfg = types.Config{Delimiter: ",", HasHeader: true}

// loadTable builds a table from lines with a header row, failing the test
// on error.
func loadTable(t *testing.T, lines ...string) *Table {
	t.Helper()
	tbl, err := Load(lines, headerCfg)
	require.NoError(t, err)
	return tbl
}

// checkInvariants asserts that every column has NumRows cells and that the
// header list and column map agree.
func checkInvariants(t *testing.T, tbl *Table) {
	t.Helper()
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()

	require.Len(t, tbl.columns, len(tbl.headers))
	seen := make(map[string]bool)
	for _, h := range tbl.headers {
		assert.False(t, seen[h], "duplicate header %q", h)
		seen[h] = true
		col, ok := tbl.columns[h]
		require.True(t, ok, "header %q has no column", h)
		assert.Len(t, col, tbl.numRows, "column %q", h)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		cfg     types.Config
		headers []string
		rows    int
	}{
		{
			name:    "header and rows",
			lines:   []string{"name,age", "alice,30", "bob,25"},
			cfg:     headerCfg,
			headers: []string{"name", "age"},
			rows:    2,
		},
		{
			name:    "header only",
			lines:   []string{"a,b,c"},
			cfg:     headerCfg,
			headers: []string{"a", "b", "c"},
			rows:    0,
		},
		{
			name:    "synthesized headers",
			lines:   []string{"x,y", "1,2"},
			cfg:     types.Config{Delimiter: ","},
			headers: []string{"0", "1"},
			rows:    2,
		},
		{
			name:    "quoted header field",
			lines:   []string{`"last, first",id`, `"doe, jane",7`},
			cfg:     headerCfg,
			headers: []string{"last, first", "id"},
			rows:    1,
		},
		{
			name:    "tab delimiter",
			lines:   []string{"k\tv", "a\tb"},
			cfg:     types.Config{Delimiter: "\t", HasHeader: true},
			headers: []string{"k", "v"},
			rows:    1,
		},
		{
			name:    "empty header line is one unnamed column",
			lines:   []string{"", ""},
			cfg:     headerCfg,
			headers: []string{""},
			rows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(tt.lines, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.headers, tbl.Headers())
			assert.Equal(t, tt.rows, tbl.NumRows())
			assert.Equal(t, len(tt.headers), tbl.NumColumns())
			checkInvariants(t, tbl)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		line   int
		reason string
	}{
		{name: "extra field", lines: []string{"a,b", "1,2,3"}, line: 1, reason: "wrong column count"},
		{name: "missing field", lines: []string{"a,b", "1,2", "3"}, line: 2, reason: "wrong column count"},
		{name: "empty input", lines: nil, line: -1, reason: "no lines found"},
		{name: "duplicate header", lines: []string{"a,a", "1,2"}, line: 0, reason: "duplicate column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(tt.lines, headerCfg)
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.ErrorIs(t, err, types.ErrMalformedInput)

			var me *types.MalformedError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.line, me.Line)
			assert.Contains(t, me.Reason, tt.reason)
		})
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	_, err := Load([]string{"a"}, types.Config{Delimiter: ";;"})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestLoadKeepsFieldsAsText(t *testing.T) {
	tbl := loadTable(t, "name,age", "alice,30")
	v, err := tbl.CellValue(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "30", v)
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		cfg   types.Config
		want  []string
	}{
		{
			name:  "plain",
			lines: []string{"name,age", "alice,30"},
			cfg:   headerCfg,
			want:  []string{"name,age", "alice,30"},
		},
		{
			name:  "minimal quoting re-quotes delimiters",
			lines: []string{"a,b", `"x,y",z`},
			cfg:   headerCfg,
			want:  []string{"a,b", `"x,y",z`},
		},
		{
			name:  "no quoting joins naively",
			lines: []string{"a,b", `"x,y",z`},
			cfg:   types.Config{Delimiter: ",", HasHeader: true, Quoting: types.QuoteNone},
			want:  []string{"a,b", "x,y,z"},
		},
		{
			name:  "quote all",
			lines: []string{"a", "1"},
			cfg:   types.Config{Delimiter: ",", HasHeader: true, Quoting: types.QuoteAll},
			want:  []string{`"a"`, `"1"`},
		},
		{
			name:  "synthesized header is not written",
			lines: []string{"p,q"},
			cfg:   types.Config{Delimiter: ","},
			want:  []string{"p,q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(tt.lines, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tbl.Lines())
		})
	}
}

func TestLinesRoundTrip(t *testing.T) {
	src := []string{
		"id,note,tags",
		`1,"said ""hi""","a,b"`,
		"2,,plain",
		`3,"  spaced  ",x`,
	}
	tbl := loadTable(t, src...)

	again, err := Load(tbl.Lines(), headerCfg)
	require.NoError(t, err)
	assert.Equal(t, tbl.Headers(), again.Headers())
	assert.Equal(t, tbl.AllRows(), again.AllRows())
}

func TestLinesRoundTripWithoutHeader(t *testing.T) {
	cfg := types.Config{Delimiter: ","}
	tbl, err := Load([]string{"1,2", "3,4"}, cfg)
	require.NoError(t, err)

	again, err := Load(tbl.Lines(), cfg)
	require.NoError(t, err)
	assert.Equal(t, tbl.NumRows(), again.NumRows())
	assert.Equal(t, tbl.AllRows(), again.AllRows())

	_, err = again.AppendRow(types.NewRow(map[string]any{"0": "5", "1": "6"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"1,2", "3,4", "5,6"}, again.Lines())
}

func TestLinesRendersNilAsEmpty(t *testing.T) {
	tbl := loadTable(t, "a", "1")
	_, err := tbl.AddColumn("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "1,"}, tbl.Lines())
}

func TestConfig(t *testing.T) {
	tbl, err := Load([]string{"a;b"}, types.Config{Delimiter: ";", HasHeader: true, Quoting: types.QuoteAll})
	require.NoError(t, err)
	cfg := tbl.Config()
	assert.Equal(t, ";", cfg.Delimiter)
	assert.True(t, cfg.HasHeader)
	assert.Equal(t, types.QuoteAll, cfg.Quoting)
}

func TestSetDebug(t *testing.T) {
	tbl := loadTable(t, "a")
	assert.False(t, tbl.Debug())
	assert.False(t, tbl.SetDebug(true))
	assert.True(t, tbl.Debug())
	assert.True(t, tbl.SetDebug(false))
	assert.False(t, tbl.Debug())
}

func TestDebugIsPerTable(t *testing.T) {
	one := loadTable(t, "a")
	two := loadTable(t, "a")
	one.SetDebug(true)
	assert.False(t, two.Debug())
}

func TestDebugLogsUnknownRowFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl, err := Load([]string{"name,age"}, headerCfg, WithLogger(logger), WithDebug(true))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "table loaded")

	_, err = tbl.AppendRow(types.NewRow(map[string]any{"name": "x", "zip": "1"}))
	assert.ErrorIs(t, err, types.ErrRowShapeMismatch)
	assert.Contains(t, buf.String(), "field=zip")

	buf.Reset()
	tbl.SetDebug(false)
	_, err = tbl.AppendRow(types.NewRow(map[string]any{"name": "x", "zip": "1"}))
	assert.ErrorIs(t, err, types.ErrRowShapeMismatch)
	assert.NotContains(t, buf.String(), "zip")
}

func BenchmarkLoad(b *testing.B) {
	lines := make([]string, 0, 10001)
	lines = append(lines, "id,name,email,score")
	for i := range 10000 {
		lines = append(lines, fmt.Sprintf(`%d,"user %d",u%d@example.com,%d`, i, i, i, i%100))
	}
	b.ResetTimer()
	for b.Loop() {
		if _, err := Load(lines, headerCfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLines(b *testing.B) {
	lines := []string{"a,b,c"}
	for i := range 5000 {
		lines = append(lines, fmt.Sprintf("%d,x%d,\"y,%d\"", i, i, i))
	}
	tbl, err := Load(lines, headerCfg)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for b.Loop() {
		_ = tbl.Lines()
	}
}
