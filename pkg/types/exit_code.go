// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit codes reported by the unitkit command. Anything outside this set is
// passed through unchanged.
const (
	ExitOK ExitCode = iota
	// ExitFailure is an unclassified error.
	ExitFailure
	// ExitUsage is a command line misuse: unknown flag, wrong argument count.
	ExitUsage
	// ExitInput is an expression that does not parse or names unknown units.
	ExitInput
	// ExitIncompatible is a well formed request that cannot be carried out:
	// mismatched dimensions, offset units in products, division by zero.
	ExitIncompatible
	// ExitConfig is a configuration or unit definitions file that fails to load.
	ExitConfig
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status, 0-255 on POSIX systems.
	// The zero value means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code means success.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
