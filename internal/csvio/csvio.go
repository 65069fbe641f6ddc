// Package csvio moves delimited text between files or streams and the
// line slices the table store consumes and produces.
package csvio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineSize is the longest line ReadLines accepts.
const MaxLineSize = 1 << 20

// IOError records a failed file or stream operation.
type IOError struct {
	Op   string // read, write, create, chmod, sync, close, rename
	Path string // "" for streams
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is or wraps an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// ReadLines reads r to the end and returns its lines without terminators.
// A leading UTF-8 byte order mark is dropped and a trailing \r on each line
// is trimmed. Other bytes pass through as they are, valid UTF-8 or not. A
// final terminator does not produce an empty last line.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	return lines, nil
}

// ReadFile reads the lines of the file at path. See ReadLines.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, err
	}
	return lines, nil
}

// WriteLines writes each line followed by \n, or \r\n when crlf is set.
func WriteLines(w io.Writer, lines []string, crlf bool) error {
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return &IOError{Op: "write", Err: err}
		}
		if _, err := bw.WriteString(eol); err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// DefaultFileMode is the mode WriteFile gives a file it creates.
const DefaultFileMode os.FileMode = 0o644

// WriteFile replaces the file at path with lines. The content goes to a
// temporary file in the same directory, which is synced and then renamed
// over path, so readers see either the old file or the complete new one.
// An existing file keeps its permission bits; a new one gets
// DefaultFileMode.
func WriteFile(path string, lines []string, crlf bool) error {
	mode := DefaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".csvtable-*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: op, Path: path, Err: err}
	}

	if err := tmp.Chmod(mode); err != nil {
		return fail("chmod", err)
	}
	if err := WriteLines(tmp, lines, crlf); err != nil {
		return fail("write", errors.Unwrap(err))
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
