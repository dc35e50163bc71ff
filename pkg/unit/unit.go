// SPDX-License-Identifier: MPL-2.0

package unit

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/unitkit/unitkit/pkg/dimension"
	"github.com/unitkit/unitkit/pkg/ledger"
)

type (
	// Unit is a product of ledger entries raised to exponents. The zero value
	// is dimensionless.
	Unit struct {
		factors    map[*ledger.Entry]float64
		dim        dimension.Dimension
		multiplier float64
		offset     float64
	}

	// Factor is one entry of a Unit together with its exponent.
	Factor struct {
		Entry    *ledger.Entry
		Exponent float64
	}
)

// Dimensionless is the unit of pure numbers.
var Dimensionless = Unit{}

// FromFactors builds a Unit from entries and their exponents. Zero exponents
// are dropped.
func FromFactors(factors map[*ledger.Entry]float64) (Unit, error) {
	clean := make(map[*ledger.Entry]float64, len(factors))
	for e, exp := range factors {
		if e == nil {
			return Unit{}, &UnsupportedOperationError{Op: "unit", Reason: "nil entry"}
		}
		if math.IsNaN(exp) || math.IsInf(exp, 0) {
			return Unit{}, &UnsupportedOperationError{Op: "unit", Reason: fmt.Sprintf("exponent of %s must be finite", e.Symbol())}
		}
		if exp != 0 {
			clean[e] = exp
		}
	}
	return build(clean, "unit")
}

// Of returns the Unit consisting of e alone. A nil entry yields Dimensionless.
func Of(e *ledger.Entry) Unit {
	if e == nil {
		return Dimensionless
	}
	u, _ := build(map[*ledger.Entry]float64{e: 1}, "unit")
	return u
}

// Named returns the Unit of the entry registered under symbol.
func Named(l *ledger.Ledger, symbol string) (Unit, error) {
	e, err := l.Lookup(symbol)
	if err != nil {
		return Unit{}, err
	}
	return Of(e), nil
}

// FromDimension returns the coherent SI unit of d, built from the base
// entries of l, e.g. kg*m/s**2 for force.
func FromDimension(l *ledger.Ledger, d dimension.Dimension) (Unit, error) {
	factors := make(map[*ledger.Entry]float64)
	for _, b := range dimension.Bases() {
		exp := d.Get(b)
		if exp == 0 {
			continue
		}
		e, ok := l.BaseEntry(b)
		if !ok {
			return Unit{}, &ledger.UndefinedSymbolError{Symbol: b.String()}
		}
		factors[e] = exp
	}
	return build(factors, "unit")
}

// build computes the derived properties of a cleaned factor map.
func build(factors map[*ledger.Entry]float64, op string) (Unit, error) {
	if len(factors) == 0 {
		return Unit{}, nil
	}

	u := Unit{factors: factors, multiplier: 1}
	for e, exp := range factors {
		if e.HasOffset() && (len(factors) > 1 || exp != 1) {
			return Unit{}, offsetError(op, e.Symbol())
		}
		u.dim = u.dim.Add(e.Dimension().Scale(exp))
		u.multiplier *= math.Pow(e.Multiplier(), exp)
		u.offset += e.Offset()
	}
	return u, nil
}

// Dimension returns the aggregate dimension of the unit.
func (u Unit) Dimension() dimension.Dimension { return u.dim }

// IsDimensionless reports whether the unit has no dimension. Units such as
// radian or percent-like ratios are dimensionless but still have factors.
func (u Unit) IsDimensionless() bool { return u.dim.IsDimensionless() }

// IsEmpty reports whether the unit has no factors at all.
func (u Unit) IsEmpty() bool { return len(u.factors) == 0 }

// Multiplier returns the product of every factor's multiplier raised to its
// exponent.
func (u Unit) Multiplier() float64 {
	if u.IsEmpty() {
		return 1
	}
	return u.multiplier
}

// Offset returns the affine shift of the unit. It is non-zero only for a
// single offset entry such as degC.
func (u Unit) Offset() float64 { return u.offset }

// HasOffset reports whether the unit is an affine scale.
func (u Unit) HasOffset() bool { return u.offset != 0 }

// ToBase converts v in this unit to SI base units: multiplier*(v+offset).
func (u Unit) ToBase(v float64) float64 {
	return u.Multiplier() * (v + u.offset)
}

// FromBase converts bv in SI base units to this unit: bv/multiplier-offset.
func (u Unit) FromBase(bv float64) float64 {
	return bv/u.Multiplier() - u.offset
}

// Exponent returns the exponent of e in the unit, zero if absent.
func (u Unit) Exponent(e *ledger.Entry) float64 { return u.factors[e] }

// Factors returns the factors ordered for display: positive exponents first,
// then by symbol.
func (u Unit) Factors() []Factor {
	out := make([]Factor, 0, len(u.factors))
	for e, exp := range u.factors {
		out = append(out, Factor{Entry: e, Exponent: exp})
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Exponent > 0, out[j].Exponent > 0
		if pi != pj {
			return pi
		}
		si, sj := out[i].Entry.Symbol(), out[j].Entry.Symbol()
		if si != sj {
			return si < sj
		}
		return out[i].Entry.Label() < out[j].Entry.Label()
	})
	return out
}

// Mul returns the product of u and other.
func (u Unit) Mul(other Unit) (Unit, error) {
	return u.combine(other, 1, "multiply")
}

// Div returns the quotient of u and other.
func (u Unit) Div(other Unit) (Unit, error) {
	return u.combine(other, -1, "divide")
}

func (u Unit) combine(other Unit, sign float64, op string) (Unit, error) {
	factors := make(map[*ledger.Entry]float64, len(u.factors)+len(other.factors))
	for e, exp := range u.factors {
		factors[e] = exp
	}
	for e, exp := range other.factors {
		factors[e] += sign * exp
		if factors[e] == 0 {
			delete(factors, e)
		}
	}
	return build(factors, op)
}

// Pow raises every exponent of u to the power n. Fractional powers are
// allowed, so Pow(0.5) takes a square root.
func (u Unit) Pow(n float64) (Unit, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Unit{}, &UnsupportedOperationError{Op: "power", Reason: fmt.Sprintf("exponent %g must be finite", n)}
	}
	if n == 0 {
		return Unit{}, nil
	}
	factors := make(map[*ledger.Entry]float64, len(u.factors))
	for e, exp := range u.factors {
		factors[e] = exp * n
	}
	return build(factors, "power")
}

// Inverse returns 1/u.
func (u Unit) Inverse() (Unit, error) {
	return u.Pow(-1)
}

// Times returns the quantity value*u.
func (u Unit) Times(value float64) Quantity {
	return New(value, u)
}

// Equal reports whether u and other have the same dimension, that is whether
// quantities can be converted between them.
func (u Unit) Equal(other Unit) bool {
	return u.dim == other.dim
}

// Identical reports whether u and other are made of the same factors with
// the same exponents.
func (u Unit) Identical(other Unit) bool {
	if len(u.factors) != len(other.factors) {
		return false
	}
	for e, exp := range u.factors {
		if other.factors[e] != exp {
			return false
		}
	}
	return true
}

// String returns the canonical symbol form, e.g. "kg*m/s**2", "J/(K*kg)" or
// "s**-1". The dimensionless unit renders as the empty string.
func (u Unit) String() string {
	return u.render((*ledger.Entry).Symbol)
}

// Label returns the unit spelled with labels, e.g. "kilometer/hour".
func (u Unit) Label() string {
	return u.render((*ledger.Entry).Label)
}

func (u Unit) render(name func(*ledger.Entry) string) string {
	var num, den []string
	for _, f := range u.Factors() {
		if f.Exponent > 0 {
			num = append(num, power(name(f.Entry), f.Exponent))
		} else {
			den = append(den, power(name(f.Entry), -f.Exponent))
		}
	}

	switch {
	case len(den) == 0:
		return strings.Join(num, "*")
	case len(num) == 0:
		neg := make([]string, 0, len(den))
		for _, f := range u.Factors() {
			neg = append(neg, name(f.Entry)+"**"+formatExponent(f.Exponent))
		}
		return strings.Join(neg, "*")
	case len(den) == 1:
		return strings.Join(num, "*") + "/" + den[0]
	default:
		return strings.Join(num, "*") + "/(" + strings.Join(den, "*") + ")"
	}
}

func power(symbol string, exp float64) string {
	if exp == 1 {
		return symbol
	}
	return symbol + "**" + formatExponent(exp)
}

func formatExponent(exp float64) string {
	return strconv.FormatFloat(exp, 'g', -1, 64)
}
