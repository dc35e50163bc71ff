// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUndefinedSymbol is the sentinel error wrapped by UndefinedSymbolError.
	ErrUndefinedSymbol = errors.New("undefined unit symbol")

	// ErrAmbiguousSymbol is the sentinel error wrapped by AmbiguousSymbolError.
	ErrAmbiguousSymbol = errors.New("ambiguous unit symbol")

	// ErrDuplicateRegistration is the sentinel error wrapped by DuplicateRegistrationError.
	ErrDuplicateRegistration = errors.New("duplicate unit registration")

	// ErrInvalidEntry is the sentinel error wrapped by InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid unit entry")
)

type (
	// UndefinedSymbolError is returned when no entry claims a symbol.
	UndefinedSymbolError struct {
		Symbol string
		// Suggestions lists similar known symbols, best match first.
		Suggestions []string
	}

	// AmbiguousSymbolError is returned when several entries claim a symbol and
	// none of them is the natural default.
	AmbiguousSymbolError struct {
		Symbol string
		// Candidates holds the labels of every entry claiming the symbol.
		Candidates []string
	}

	// DuplicateRegistrationError is returned when two different entries share
	// a label.
	DuplicateRegistrationError struct {
		Label string
	}

	// InvalidEntryError is returned when an entry definition is malformed.
	InvalidEntryError struct {
		Label  string
		Reason string
	}
)

// Error implements the error interface.
func (e *UndefinedSymbolError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("undefined unit symbol %q", e.Symbol)
	}
	return fmt.Sprintf("undefined unit symbol %q (did you mean %s?)", e.Symbol, strings.Join(e.Suggestions, ", "))
}

// Unwrap returns ErrUndefinedSymbol for errors.Is() compatibility.
func (e *UndefinedSymbolError) Unwrap() error { return ErrUndefinedSymbol }

// Error implements the error interface.
func (e *AmbiguousSymbolError) Error() string {
	return fmt.Sprintf("ambiguous unit symbol %q matches %s", e.Symbol, strings.Join(e.Candidates, ", "))
}

// Unwrap returns ErrAmbiguousSymbol for errors.Is() compatibility.
func (e *AmbiguousSymbolError) Unwrap() error { return ErrAmbiguousSymbol }

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("unit %q is already registered", e.Label)
}

// Unwrap returns ErrDuplicateRegistration for errors.Is() compatibility.
func (e *DuplicateRegistrationError) Unwrap() error { return ErrDuplicateRegistration }

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid unit %q: %s", e.Label, e.Reason)
}

// Unwrap returns ErrInvalidEntry for errors.Is() compatibility.
func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }
