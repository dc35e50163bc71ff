// SPDX-License-Identifier: MPL-2.0

package dimension

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Count is the number of base dimensions.
const Count = 7

const (
	// Length is measured in meters.
	Length BaseDimension = iota
	// Mass is measured in kilograms.
	Mass
	// Time is measured in seconds.
	Time
	// ElectricCurrent is measured in amperes.
	ElectricCurrent
	// Temperature is measured in kelvin.
	Temperature
	// AmountOfSubstance is measured in moles.
	AmountOfSubstance
	// LuminousIntensity is measured in candela.
	LuminousIntensity
)

// ErrInvalidBaseDimension is the sentinel error wrapped by InvalidBaseDimensionError.
var ErrInvalidBaseDimension = errors.New("invalid base dimension")

var baseNames = [Count]string{
	Length:            "length",
	Mass:              "mass",
	Time:              "time",
	ElectricCurrent:   "electric_current",
	Temperature:       "temperature",
	AmountOfSubstance: "amount_of_substance",
	LuminousIntensity: "luminous_intensity",
}

type (
	// BaseDimension is one of the seven independent physical dimensions.
	BaseDimension int

	// InvalidBaseDimensionError is returned when a name does not match any base dimension.
	InvalidBaseDimensionError struct {
		Name string
	}

	// Dimension is a vector of exponents, one per base dimension.
	// The zero value is dimensionless. Dimension is comparable with ==.
	Dimension [Count]float64
)

// Bases returns the base dimensions in declaration order.
func Bases() []BaseDimension {
	return []BaseDimension{Length, Mass, Time, ElectricCurrent, Temperature, AmountOfSubstance, LuminousIntensity}
}

// String returns the snake_case name of the base dimension.
func (b BaseDimension) String() string {
	if !b.IsValid() {
		return "unknown"
	}
	return baseNames[b]
}

// IsValid reports whether b is one of the seven base dimensions.
func (b BaseDimension) IsValid() bool {
	return b >= Length && b <= LuminousIntensity
}

// ParseBaseDimension returns the base dimension with the given snake_case name.
func ParseBaseDimension(name string) (BaseDimension, error) {
	for i, n := range baseNames {
		if n == name {
			return BaseDimension(i), nil
		}
	}
	return 0, &InvalidBaseDimensionError{Name: name}
}

// Error implements the error interface.
func (e *InvalidBaseDimensionError) Error() string {
	return fmt.Sprintf("invalid base dimension %q (expected one of %s)", e.Name, strings.Join(baseNames[:], ", "))
}

// Unwrap returns ErrInvalidBaseDimension for errors.Is() compatibility.
func (e *InvalidBaseDimensionError) Unwrap() error { return ErrInvalidBaseDimension }

// Of returns the dimension consisting of a single base dimension with exponent 1.
func Of(b BaseDimension) Dimension {
	var d Dimension
	d[b] = 1
	return d
}

// New builds a dimension from a sparse map of exponents.
func New(exps map[BaseDimension]float64) Dimension {
	var d Dimension
	for b, e := range exps {
		if b.IsValid() {
			d[b] = e
		}
	}
	return d
}

// FromNames builds a dimension from a map keyed by base dimension names, as found
// in unit tables.
func FromNames(exps map[string]float64) (Dimension, error) {
	var d Dimension
	for name, e := range exps {
		b, err := ParseBaseDimension(name)
		if err != nil {
			return Dimension{}, err
		}
		d[b] = e
	}
	return d, nil
}

// Get returns the exponent of base dimension b.
func (d Dimension) Get(b BaseDimension) float64 {
	if !b.IsValid() {
		return 0
	}
	return d[b]
}

// Add returns the component-wise sum, which corresponds to multiplying units.
func (d Dimension) Add(other Dimension) Dimension {
	for i := range d {
		d[i] += other[i]
	}
	return d
}

// Sub returns the component-wise difference, which corresponds to dividing units.
func (d Dimension) Sub(other Dimension) Dimension {
	return d.Add(other.Negate())
}

// Negate returns the dimension with every exponent sign-flipped.
func (d Dimension) Negate() Dimension {
	return d.Scale(-1)
}

// Scale multiplies every exponent by n, which corresponds to raising a unit to a power.
func (d Dimension) Scale(n float64) Dimension {
	for i := range d {
		// skip zeros so String never renders -0
		if d[i] != 0 {
			d[i] *= n
		}
	}
	return d
}

// Equal reports whether both dimensions have identical exponents.
func (d Dimension) Equal(other Dimension) bool {
	return d == other
}

// IsDimensionless reports whether every exponent is zero.
func (d Dimension) IsDimensionless() bool {
	return d == Dimension{}
}

// String renders the dimension as a product of base dimension names, for
// example "length*time**-1".
func (d Dimension) String() string {
	if d.IsDimensionless() {
		return "dimensionless"
	}
	parts := make([]string, 0, Count)
	for i, e := range d {
		if e == 0 {
			continue
		}
		part := baseNames[i]
		if e != 1 {
			part += "**" + strconv.FormatFloat(e, 'g', -1, 64)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "*")
}
