// SPDX-License-Identifier: MPL-2.0

package parse

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrSyntax is the cause of a ParseError for malformed input.
	ErrSyntax = errors.New("syntax error")

	// ErrNotAUnit is the cause of a ParseError when a unit was expected but
	// the expression evaluated to a number or a quantity.
	ErrNotAUnit = errors.New("not a unit")

	// ErrNotAQuantity is the cause of a ParseError when a quantity was
	// expected but the expression evaluated to a bare unit.
	ErrNotAQuantity = errors.New("not a quantity")
)

// ParseError reports a failure to parse Input. Offset is the byte offset of
// the offending token. Err is the cause: ErrSyntax, a ledger lookup error or
// a unit arithmetic error.
type ParseError struct {
	Input  string
	Offset int
	Err    error
}

// Error implements the error interface. The message ends with the input and
// a caret under the offending position.
func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "parse %q at offset %d: %v\n", e.Input, e.Offset, e.Err)
	sb.WriteString("  " + e.Input + "\n")
	sb.WriteString("  " + strings.Repeat(" ", e.Column()) + "^")
	return sb.String()
}

// Unwrap returns the cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Column returns the offset in runes, for pointing at the offending
// character in a terminal.
func (e *ParseError) Column() int {
	off := min(max(e.Offset, 0), len(e.Input))
	return utf8.RuneCountInString(e.Input[:off])
}

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
