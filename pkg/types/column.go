package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnKind names the value type a column can be converted to.
type ColumnKind string

// Column kinds accepted by ConvertColumn.
const (
	KindText    ColumnKind = "text"
	KindInteger ColumnKind = "integer"
	KindFloat   ColumnKind = "float"
	KindBoolean ColumnKind = "boolean"
)

// validColumnKinds is the set of recognized column kinds.
var validColumnKinds = map[ColumnKind]bool{
	KindText:    true,
	KindInteger: true,
	KindFloat:   true,
	KindBoolean: true,
}

// IsValidColumnKind reports whether k is a recognized column kind.
func IsValidColumnKind(k ColumnKind) bool {
	return validColumnKinds[k]
}

// ParseValue converts v to kind. nil stays nil. Values that already have
// the target Go type pass through; anything else is converted from its
// FormatValue text, with surrounding spaces ignored for the numeric and
// boolean kinds. Integers become int64, floats float64, booleans bool.
// A value that does not parse returns an error wrapping ErrTypeMismatch.
func ParseValue(v any, kind ColumnKind) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case KindText:
		return FormatValue(v), nil
	case KindInteger:
		if x, ok := v.(int64); ok {
			return x, nil
		}
		s := strings.TrimSpace(FormatValue(v))
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, s)
		}
		return n, nil
	case KindFloat:
		if x, ok := v.(float64); ok {
			return x, nil
		}
		s := strings.TrimSpace(FormatValue(v))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float", ErrTypeMismatch, s)
		}
		return f, nil
	case KindBoolean:
		if x, ok := v.(bool); ok {
			return x, nil
		}
		s := strings.TrimSpace(FormatValue(v))
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrTypeMismatch, s)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown column kind %q", ErrTypeMismatch, kind)
	}
}
