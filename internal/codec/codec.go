// Package codec converts between one line of delimited text and its fields.
//
// The grammar is RFC 4180 restricted to a single line: a field that starts
// with a double quote is quoted, a doubled quote inside it is a literal
// quote, and anything between the closing quote and the next delimiter is
// dropped. Line breaks are the caller's business; SplitLine never sees one
// outside a field.
package codec

import (
	"strings"

	"github.com/mesh-intelligence/csvtable/pkg/types"
)

// Quote is the quote character of the grammar.
const Quote = '"'

// SplitLine tokenizes line into fields separated by delimiter. Quoted fields
// come back with their surrounding quotes removed and doubled quotes undone.
// The last field is always present, so the result has one more element than
// the number of field separators and is never empty.
func SplitLine(line string, delimiter byte) []string {
	fields := make([]string, 0, strings.Count(line, string(delimiter))+1)
	pos := 0
	for {
		if pos < len(line) && line[pos] == Quote {
			field, end := scanQuoted(line, pos+1)
			fields = append(fields, field)
			// Skip whatever trails the closing quote up to the next delimiter.
			next := strings.IndexByte(line[end:], delimiter)
			if next < 0 {
				return fields
			}
			pos = end + next + 1
			continue
		}

		next := strings.IndexByte(line[pos:], delimiter)
		if next < 0 {
			return append(fields, line[pos:])
		}
		fields = append(fields, line[pos:pos+next])
		pos += next + 1
	}
}

// scanQuoted reads a quoted field whose content starts at start, just past
// the opening quote. It returns the unescaped content and the index just
// past the closing quote, or len(line) when the quote is never closed.
func scanQuoted(line string, start int) (string, int) {
	end := strings.IndexByte(line[start:], Quote)
	if end < 0 {
		return line[start:], len(line)
	}
	// Fast path: no doubled quote, the content is a substring.
	if start+end+1 >= len(line) || line[start+end+1] != Quote {
		return line[start : start+end], start + end + 1
	}

	var b strings.Builder
	b.Grow(len(line) - start)
	i := start
	for i < len(line) {
		c := line[i]
		if c != Quote {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(line) && line[i+1] == Quote {
			b.WriteByte(Quote)
			i += 2
			continue
		}
		return b.String(), i + 1
	}
	return b.String(), len(line)
}

// JoinLine joins fields with delimiter without any quoting. Fields holding
// the delimiter or a quote will not split back the same way.
func JoinLine(fields []string, delimiter byte) string {
	return strings.Join(fields, string(delimiter))
}

// FormatLine joins fields with delimiter, quoting them according to mode.
// Under QuoteMinimal and QuoteAll the result splits back into the same
// fields with SplitLine, provided no field holds a line break that a line
// reader would cut at.
func FormatLine(fields []string, delimiter byte, mode types.Quoting) string {
	if mode == types.QuoteNone {
		return JoinLine(fields, delimiter)
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		if mode == types.QuoteAll || NeedsQuote(f, delimiter) {
			writeQuoted(&b, f)
			continue
		}
		b.WriteString(f)
	}
	return b.String()
}

// NeedsQuote reports whether field must be quoted to survive a round trip.
func NeedsQuote(field string, delimiter byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case Quote, delimiter, '\n', '\r':
			return true
		}
	}
	return false
}

func writeQuoted(b *strings.Builder, field string) {
	b.WriteByte(Quote)
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == Quote {
			b.WriteString(field[start : i+1])
			b.WriteByte(Quote)
			start = i + 1
		}
	}
	b.WriteString(field[start:])
	b.WriteByte(Quote)
}
