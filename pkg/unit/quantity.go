// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// displayDigits is the number of significant digits kept by Value and BaseValue.
const displayDigits = 10

// Quantity is a magnitude together with the unit it is expressed in. The
// magnitude is stored in SI base units. The zero Quantity is a bare 0 and acts
// as the identity for Add and Sub.
type Quantity struct {
	base float64
	unit Unit
}

// New returns the quantity value*u.
func New(value float64, u Unit) Quantity {
	return Quantity{base: u.ToBase(value), unit: u}
}

// FromBase returns the quantity whose value in SI base units is bv, displayed
// in u.
func FromBase(bv float64, u Unit) Quantity {
	return Quantity{base: bv, unit: u}
}

// Sum adds the quantities in order, starting from the zero Quantity.
func Sum(qs ...Quantity) (Quantity, error) {
	var total Quantity
	for _, q := range qs {
		var err error
		if total, err = total.Add(q); err != nil {
			return Quantity{}, err
		}
	}
	return total, nil
}

// Unit returns the display unit.
func (q Quantity) Unit() Unit { return q.unit }

// Value returns the magnitude in the display unit, rounded to 10 significant
// digits.
func (q Quantity) Value() float64 { return round(q.value()) }

// BaseValue returns the magnitude in SI base units, rounded to 10 significant
// digits.
func (q Quantity) BaseValue() float64 { return round(q.base) }

func (q Quantity) value() float64 { return q.unit.FromBase(q.base) }

// IsZero reports whether q is the bare 0: zero magnitude and no unit.
func (q Quantity) IsZero() bool {
	return q.base == 0 && q.unit.IsEmpty()
}

// To converts q into target. The units must have the same dimension.
func (q Quantity) To(target Unit) (Quantity, error) {
	if !q.unit.Equal(target) {
		return Quantity{}, mismatch("convert", q.unit, target)
	}
	return Quantity{base: q.base, unit: target}, nil
}

// Add returns q+other. Both must be in the same unit; adding the zero
// Quantity is a no-op. Offset units add their displayed values, so
// 10 degC + 5 degC = 15 degC.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	return q.addSub(other, 1, "add")
}

// Sub returns q-other under the same rules as Add.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	return q.addSub(other, -1, "subtract")
}

func (q Quantity) addSub(other Quantity, sign float64, op string) (Quantity, error) {
	switch {
	case other.IsZero():
		return q, nil
	case q.IsZero():
		return other.Scale(sign), nil
	}
	if err := q.sameUnit(other, op); err != nil {
		return Quantity{}, err
	}
	if q.unit.HasOffset() {
		return New(q.value()+sign*other.value(), q.unit), nil
	}
	return Quantity{base: q.base + sign*other.base, unit: q.unit}, nil
}

func (q Quantity) sameUnit(other Quantity, op string) error {
	if !q.unit.Equal(other.unit) {
		return mismatch(op, q.unit, other.unit)
	}
	if !q.unit.Identical(other.unit) {
		return &UnsupportedOperationError{
			Op:     op,
			Reason: fmt.Sprintf("units %s and %s differ; convert one of them first", displayName(q.unit), displayName(other.unit)),
		}
	}
	return nil
}

// AddRel converts other into the unit of q and adds the displayed values.
// It is meant for offset units, where it yields relative arithmetic.
func (q Quantity) AddRel(other Quantity) (Quantity, error) {
	return q.addSubRel(other, 1, "add")
}

// SubRel is the subtracting counterpart of AddRel.
func (q Quantity) SubRel(other Quantity) (Quantity, error) {
	return q.addSubRel(other, -1, "subtract")
}

func (q Quantity) addSubRel(other Quantity, sign float64, op string) (Quantity, error) {
	converted, err := other.To(q.unit)
	if err != nil {
		return Quantity{}, mismatch(op, q.unit, other.unit)
	}
	return New(q.value()+sign*converted.value(), q.unit), nil
}

// Scale multiplies the displayed value by n and keeps the unit.
func (q Quantity) Scale(n float64) Quantity {
	return New(q.value()*n, q.unit)
}

// DivScalar divides the displayed value by n and keeps the unit.
func (q Quantity) DivScalar(n float64) (Quantity, error) {
	if n == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	return New(q.value()/n, q.unit), nil
}

// FloorDiv divides the displayed value by n, rounds down and keeps the unit.
func (q Quantity) FloorDiv(n float64) (Quantity, error) {
	if n == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	return New(math.Floor(q.value()/n), q.unit), nil
}

// Mul multiplies the displayed values and combines the units.
func (q Quantity) Mul(other Quantity) (Quantity, error) {
	u, err := q.unit.Mul(other.unit)
	if err != nil {
		return Quantity{}, err
	}
	return New(q.value()*other.value(), u), nil
}

// Div divides the displayed values and combines the units.
func (q Quantity) Div(other Quantity) (Quantity, error) {
	ov := other.value()
	if ov == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	u, err := q.unit.Div(other.unit)
	if err != nil {
		return Quantity{}, err
	}
	return New(q.value()/ov, u), nil
}

// Pow raises both the displayed value and the unit to the power n.
func (q Quantity) Pow(n float64) (Quantity, error) {
	u, err := q.unit.Pow(n)
	if err != nil {
		return Quantity{}, err
	}
	v := math.Pow(q.value(), n)
	if math.IsInf(v, 0) && q.value() == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	return New(v, u), nil
}

// Inverse returns 1/q.
func (q Quantity) Inverse() (Quantity, error) {
	return q.Pow(-1)
}

// Compare returns -1, 0 or +1 depending on whether q is less than, equal to
// or greater than other. Values are compared in base units after rounding
// to 10 significant digits.
func (q Quantity) Compare(other Quantity) (int, error) {
	if !q.unit.Equal(other.unit) {
		return 0, mismatch("compare", q.unit, other.unit)
	}
	a, b := q.BaseValue(), other.BaseValue()
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal reports whether q and other denote the same amount.
func (q Quantity) Equal(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c == 0, err
}

// Less reports whether q < other.
func (q Quantity) Less(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c < 0, err
}

// LessEqual reports whether q <= other.
func (q Quantity) LessEqual(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c <= 0, err
}

// Greater reports whether q > other.
func (q Quantity) Greater(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c > 0, err
}

// GreaterEqual reports whether q >= other.
func (q Quantity) GreaterEqual(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c >= 0, err
}

// Abs returns |q| in the same unit.
func (q Quantity) Abs() Quantity { return q.apply(math.Abs) }

// Floor rounds the displayed value down.
func (q Quantity) Floor() Quantity { return q.apply(math.Floor) }

// Ceil rounds the displayed value up.
func (q Quantity) Ceil() Quantity { return q.apply(math.Ceil) }

// Trunc drops the fractional part of the displayed value.
func (q Quantity) Trunc() Quantity { return q.apply(math.Trunc) }

// Round rounds the displayed value to the given number of decimal places,
// halves to even. Negative places round to tens, hundreds and so on.
func (q Quantity) Round(places int) Quantity {
	scale := math.Pow(10, float64(places))
	return q.apply(func(v float64) float64 {
		return math.RoundToEven(v*scale) / scale
	})
}

// Mod returns the remainder of the displayed value divided by n. The result
// has the sign of n.
func (q Quantity) Mod(n float64) (Quantity, error) {
	if n == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	return q.apply(func(v float64) float64 {
		r := math.Mod(v, n)
		if r != 0 && (r < 0) != (n < 0) {
			r += n
		}
		return r
	}), nil
}

func (q Quantity) apply(f func(float64) float64) Quantity {
	return New(f(q.value()), q.unit)
}

// String returns the canonical form "<value> <unit>", e.g. "1.5 km/h".
func (q Quantity) String() string {
	v := FormatValue(q.Value())
	if q.unit.IsEmpty() {
		return v
	}
	return v + " " + q.unit.String()
}

// Format implements fmt.Formatter. Verbs and flags apply to the displayed
// value, so "%.2f" prints "1.50 km/h". %v and %s without flags print String().
func (q Quantity) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		_, hasWidth := f.Width()
		_, hasPrec := f.Precision()
		if !hasWidth && !hasPrec && !f.Flag('+') && !f.Flag('0') {
			_, _ = io.WriteString(f, q.String())
			return
		}
		verb = 'g'
	}
	_, _ = fmt.Fprintf(f, fmt.FormatString(f, verb), q.Value())
	if !q.unit.IsEmpty() {
		_, _ = io.WriteString(f, " "+q.unit.String())
	}
}

// FormatValue writes v in the shortest form that parses back to v: plain
// decimal notation for magnitudes in [1e-4, 1e16), exponent notation
// outside.
func FormatValue(v float64) string {
	if a := math.Abs(v); a == 0 || (a >= 1e-4 && a < 1e16) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// round keeps displayDigits significant digits.
func round(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', displayDigits, 64), 64)
	if err != nil {
		return v
	}
	return r
}
