// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is the sentinel error wrapped by DimensionMismatchError.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnsupportedOperation is the sentinel error wrapped by UnsupportedOperationError.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrOffsetComposition is returned when an offset unit is combined with
	// another factor or raised to a power other than 1.
	ErrOffsetComposition = fmt.Errorf("%w: offset units cannot be combined with other units or raised to a power", ErrUnsupportedOperation)

	// ErrDivisionByZero is returned when a quantity is divided by zero.
	ErrDivisionByZero = errors.New("division by zero")
)

type (
	// DimensionMismatchError is returned when an operation needs two units of
	// the same dimension.
	DimensionMismatchError struct {
		Op    string
		Left  Unit
		Right Unit
	}

	// UnsupportedOperationError is returned for operations that are not
	// defined on the given operands.
	UnsupportedOperationError struct {
		Op     string
		Reason string
		// Err is the specific cause; Unwrap falls back to ErrUnsupportedOperation.
		Err error
	}
)

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: %s (%s) is not compatible with %s (%s)",
		e.Op, displayName(e.Left), e.Left.Dimension(), displayName(e.Right), e.Right.Dimension())
}

// Unwrap returns ErrDimensionMismatch for errors.Is() compatibility.
func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Unwrap returns the specific cause, or ErrUnsupportedOperation.
func (e *UnsupportedOperationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupportedOperation
}

func offsetError(op, symbol string) error {
	return &UnsupportedOperationError{
		Op:     op,
		Reason: fmt.Sprintf("offset unit %s cannot be combined with other units or raised to a power", symbol),
		Err:    ErrOffsetComposition,
	}
}

func mismatch(op string, left, right Unit) error {
	return &DimensionMismatchError{Op: op, Left: left, Right: right}
}

func displayName(u Unit) string {
	if s := u.String(); s != "" {
		return s
	}
	return "dimensionless"
}
