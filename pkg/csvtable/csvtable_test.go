package csvtable

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/csvtable/internal/csvio"
	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ",", cfg.Delimiter)
	assert.True(t, cfg.HasHeader)
	assert.Equal(t, types.QuoteMinimal, cfg.Quoting)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader("\xef\xbb\xbfname,age\r\nalice,30\r\n"), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, tbl.Headers())
	assert.Equal(t, 1, tbl.NumRows())
}

func TestParseKeepsNonUTF8Bytes(t *testing.T) {
	tbl, err := Parse(strings.NewReader("h,x\n\xffz,a\n"), DefaultConfig())
	require.NoError(t, err)
	cell, err := tbl.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 'z'}, []byte(cell))
	assert.Equal(t, []string{"h,x", "\xffz,a"}, Save(tbl))
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("a,b\n1,2,3\n"), DefaultConfig())
	require.Error(t, err)

	var me *types.MalformedError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 1, me.Line)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), DefaultConfig())
	assert.ErrorIs(t, err, types.ErrMalformedInput)
}

func TestOpenAndWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\nbob,25\n"), 0o644))

	tbl, err := Open(path, DefaultConfig())
	require.NoError(t, err)

	_, err = tbl.AddColumn("city")
	require.NoError(t, err)
	_, err = tbl.UpdateCell("city", 1, "Oslo, NO")
	require.NoError(t, err)
	require.NoError(t, WriteFile(tbl, path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,age,city\nalice,30,\nbob,25,\"Oslo, NO\"\n", string(data))

	again, err := Open(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, tbl.AllRows(), again.AllRows())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "none.csv"), DefaultConfig())
	require.Error(t, err)
	assert.True(t, csvio.IsIOError(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWrite(t *testing.T) {
	tbl, err := Load([]string{"a;b", "1;2"}, types.Config{Delimiter: ";", HasHeader: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(tbl, &buf, true))
	assert.Equal(t, "a;b\r\n1;2\r\n", buf.String())
	assert.Equal(t, []string{"a;b", "1;2"}, Save(tbl))
}

func TestLoadWithDebugLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Load([]string{"a", "1"}, DefaultConfig(), WithLogger(logger), WithDebug(true))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "table loaded")
}
