// SPDX-License-Identifier: MPL-2.0

package parse

import (
	"fmt"
	"math"
	"strconv"

	"github.com/unitkit/unitkit/pkg/unit"
)

// Kinds of Value.
const (
	KindNumber Kind = iota
	KindUnit
	KindQuantity
)

type (
	// Kind tells which of its three forms a Value holds.
	Kind int

	// Value is the result of evaluating an expression: a plain number, a
	// Unit or a Quantity. "2" is a number, "km/h" a unit and "2 km/h" a
	// quantity.
	Value struct {
		kind     Kind
		number   float64
		unit     unit.Unit
		quantity unit.Quantity
	}
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindUnit:
		return "unit"
	case KindQuantity:
		return "quantity"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// NumberValue wraps a plain number.
func NumberValue(n float64) Value { return Value{kind: KindNumber, number: n} }

// UnitValue wraps a unit.
func UnitValue(u unit.Unit) Value { return Value{kind: KindUnit, unit: u} }

// QuantityValue wraps a quantity.
func QuantityValue(q unit.Quantity) Value { return Value{kind: KindQuantity, quantity: q} }

// Kind returns the form the value holds.
func (v Value) Kind() Kind { return v.kind }

// Number returns the number, if v holds one.
func (v Value) Number() (float64, bool) { return v.number, v.kind == KindNumber }

// Unit returns the unit, if v holds one.
func (v Value) Unit() (unit.Unit, bool) { return v.unit, v.kind == KindUnit }

// Quantity returns the quantity, if v holds one.
func (v Value) Quantity() (unit.Quantity, bool) { return v.quantity, v.kind == KindQuantity }

// String renders the value in canonical form.
func (v Value) String() string {
	switch v.kind {
	case KindUnit:
		return v.unit.String()
	case KindQuantity:
		return v.quantity.String()
	default:
		return unit.FormatValue(v.number)
	}
}

// asQuantity lifts numbers to dimensionless quantities and units to one of
// themselves.
func (v Value) asQuantity() unit.Quantity {
	switch v.kind {
	case KindUnit:
		return v.unit.Times(1)
	case KindQuantity:
		return v.quantity
	default:
		return unit.New(v.number, unit.Dimensionless)
	}
}

func add(a, b Value, sign float64) (Value, error) {
	op := "add"
	if sign < 0 {
		op = "subtract"
	}
	if a.kind == KindUnit || b.kind == KindUnit {
		return Value{}, &unit.UnsupportedOperationError{
			Op:     op,
			Reason: "units cannot be added or subtracted; give them a value first",
		}
	}
	if a.kind == KindNumber && b.kind == KindNumber {
		return NumberValue(a.number + sign*b.number), nil
	}

	qa, qb := a.asQuantity(), b.asQuantity()
	var (
		q   unit.Quantity
		err error
	)
	if sign < 0 {
		q, err = qa.Sub(qb)
	} else {
		q, err = qa.Add(qb)
	}
	if err != nil {
		return Value{}, err
	}
	return QuantityValue(q), nil
}

func mul(a, b Value) (Value, error) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		return NumberValue(a.number * b.number), nil
	case a.kind == KindUnit && b.kind == KindUnit:
		u, err := a.unit.Mul(b.unit)
		if err != nil {
			return Value{}, err
		}
		return UnitValue(u), nil
	case a.kind == KindNumber && b.kind == KindUnit:
		return QuantityValue(unit.New(a.number, b.unit)), nil
	case a.kind == KindUnit && b.kind == KindNumber:
		return QuantityValue(unit.New(b.number, a.unit)), nil
	}
	q, err := a.asQuantity().Mul(b.asQuantity())
	if err != nil {
		return Value{}, err
	}
	return QuantityValue(q), nil
}

func div(a, b Value) (Value, error) {
	if b.kind == KindNumber && b.number == 0 {
		return Value{}, unit.ErrDivisionByZero
	}
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		return NumberValue(a.number / b.number), nil
	case a.kind == KindUnit && b.kind == KindUnit:
		u, err := a.unit.Div(b.unit)
		if err != nil {
			return Value{}, err
		}
		return UnitValue(u), nil
	case a.kind == KindNumber && b.kind == KindUnit:
		inv, err := b.unit.Inverse()
		if err != nil {
			return Value{}, err
		}
		return QuantityValue(unit.New(a.number, inv)), nil
	case a.kind == KindUnit && b.kind == KindNumber:
		return QuantityValue(unit.New(1/b.number, a.unit)), nil
	}
	q, err := a.asQuantity().Div(b.asQuantity())
	if err != nil {
		return Value{}, err
	}
	return QuantityValue(q), nil
}

func pow(base, exp Value) (Value, error) {
	if exp.kind != KindNumber {
		return Value{}, &unit.UnsupportedOperationError{
			Op:     "power",
			Reason: fmt.Sprintf("exponent must be a number, got %s %s", exp.kind, exp),
		}
	}
	n := exp.number

	switch base.kind {
	case KindUnit:
		u, err := base.unit.Pow(n)
		if err != nil {
			return Value{}, err
		}
		return UnitValue(u), nil
	case KindQuantity:
		q, err := base.quantity.Pow(n)
		if err != nil {
			return Value{}, err
		}
		return QuantityValue(q), nil
	default:
		r := math.Pow(base.number, n)
		if math.IsInf(r, 0) && base.number == 0 {
			return Value{}, unit.ErrDivisionByZero
		}
		return NumberValue(r), nil
	}
}
