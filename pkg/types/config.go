package types

import (
	"errors"
	"fmt"
)

// Quoting selects how fields are quoted when a table is written out.
type Quoting string

// Supported quoting modes.
const (
	// QuoteMinimal quotes a field only when it holds the delimiter, a quote,
	// or a line break. Output reloads to the same cells.
	QuoteMinimal Quoting = "minimal"
	// QuoteAll quotes every field.
	QuoteAll Quoting = "all"
	// QuoteNone joins fields with the delimiter and never quotes.
	QuoteNone Quoting = "none"
)

// validQuoting is the set of recognized quoting modes.
var validQuoting = map[Quoting]bool{
	QuoteMinimal: true,
	QuoteAll:     true,
	QuoteNone:    true,
}

// Config describes the delimited text a table is read from and written to.
type Config struct {
	Delimiter string  `json:"delimiter" yaml:"delimiter"`
	HasHeader bool    `json:"has_header" yaml:"has_header"`
	Quoting   Quoting `json:"quoting" yaml:"quoting"`
	CRLF      bool    `json:"crlf" yaml:"crlf"`
}

// Default configuration values.
const (
	DefaultDelimiter = ","
	DefaultQuoting   = QuoteMinimal
)

// Config validation errors.
var (
	ErrInvalidConfig    = errors.New("invalid config")
	ErrInvalidDelimiter = fmt.Errorf("%w: delimiter must be one byte other than '\"', CR or LF", ErrInvalidConfig)
	ErrUnknownQuoting   = fmt.Errorf("%w: unknown quoting mode", ErrInvalidConfig)
)

// Validate checks that the Config is usable. An empty Quoting is accepted
// and means DefaultQuoting.
func (c Config) Validate() error {
	if len(c.Delimiter) != 1 {
		return ErrInvalidDelimiter
	}
	switch c.Delimiter[0] {
	case '"', '\r', '\n':
		return ErrInvalidDelimiter
	}
	if c.Quoting != "" && !validQuoting[c.Quoting] {
		return fmt.Errorf("%w: %q", ErrUnknownQuoting, c.Quoting)
	}
	return nil
}

// DelimiterByte returns the delimiter as a byte. Call Validate first; an
// invalid delimiter yields the default ','.
func (c Config) DelimiterByte() byte {
	if len(c.Delimiter) != 1 {
		return DefaultDelimiter[0]
	}
	return c.Delimiter[0]
}

// QuotingMode returns Quoting, or DefaultQuoting when unset.
func (c Config) QuotingMode() Quoting {
	if c.Quoting == "" {
		return DefaultQuoting
	}
	return c.Quoting
}

// IsValidQuoting reports whether q names a supported quoting mode.
func IsValidQuoting(q Quoting) bool {
	return validQuoting[q]
}
