// SPDX-License-Identifier: MPL-2.0

package unit

import "math"

// DefaultRelTol is the relative tolerance IsClose uses unless WithRelTol is given.
const DefaultRelTol = 1e-9

type (
	closeOptions struct {
		relTol    float64
		absTol    float64
		absTolQty *Quantity
	}

	// CloseOption configures IsClose.
	CloseOption func(*closeOptions)
)

// WithRelTol sets the relative tolerance.
func WithRelTol(tol float64) CloseOption {
	return func(o *closeOptions) {
		o.relTol = tol
	}
}

// WithAbsTol sets the absolute tolerance in SI base units. Default is 0.
func WithAbsTol(tol float64) CloseOption {
	return func(o *closeOptions) {
		o.absTol = tol
		o.absTolQty = nil
	}
}

// WithAbsTolQuantity sets the absolute tolerance as a quantity, e.g. 1 mm.
// It must have the dimension of the compared quantities. For offset units
// the tolerance is read as a difference, so 0.5 degC allows 0.5 K.
func WithAbsTolQuantity(tol Quantity) CloseOption {
	return func(o *closeOptions) {
		o.absTolQty = &tol
	}
}

// IsClose reports whether q and other are equal within tolerance:
// |a-b| <= max(relTol*max(|a|, |b|), absTol), with a and b in base units.
func (q Quantity) IsClose(other Quantity, opts ...CloseOption) (bool, error) {
	options := closeOptions{relTol: DefaultRelTol}
	for _, opt := range opts {
		opt(&options)
	}

	if !q.unit.Equal(other.unit) {
		return false, mismatch("compare", q.unit, other.unit)
	}

	absTol := options.absTol
	if options.absTolQty != nil {
		if !options.absTolQty.unit.Equal(q.unit) {
			return false, mismatch("tolerance", q.unit, options.absTolQty.unit)
		}
		// a tolerance is an interval, so offsets do not apply
		tol := options.absTolQty
		absTol = math.Abs(tol.value() * tol.unit.Multiplier())
	}

	a, b := q.base, other.base
	if a == b {
		return true, nil
	}
	diff := math.Abs(a - b)
	return diff <= math.Max(options.relTol*math.Max(math.Abs(a), math.Abs(b)), absTol), nil
}
