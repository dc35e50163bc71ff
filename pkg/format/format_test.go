// SPDX-License-Identifier: MPL-2.0

package format

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/unitkit/unitkit/pkg/parse"
	"github.com/unitkit/unitkit/pkg/unit"
)

func TestFormatter_DefaultMatchesCanonical(t *testing.T) {
	t.Parallel()

	f := New()
	for _, text := range []string{"kg*m/s**2", "J/(K*kg)", "s**-1", "m**-1*s**-2", "km/h", "m**0.5", ""} {
		u := parse.MustUnit(text)
		if got, want := f.Unit(u), u.String(); got != want {
			t.Errorf("Unit(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestFormatter_Unit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		unit string
		want string
	}{
		{"labels", []Option{WithLabels(true)}, "km/h", "kilometer/hour"},
		{"labels compound", []Option{WithLabels(true)}, "J/(kg*K)", "joule/(kelvin*kilogram)"},
		{"middle dot", []Option{WithSeparator("·"), WithPowerOperator("^")}, "kg*m/s**2", "kg·m/s^2"},
		{"inline exponents", []Option{WithDivision(false)}, "kg*m/s**2", "kg*m*s**-2"},
		{"parenthesised numerator", []Option{WithParens(true)}, "kg*m/s**2", "(kg*m)/s**2"},
		{"parens without denominator", []Option{WithParens(true)}, "kg*m", "kg*m"},
		{"only negative exponents", []Option{WithPowerOperator("^")}, "1/s**2", "s^-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := parse.Expression(tt.unit)
			if err != nil {
				t.Fatal(err)
			}
			u, ok := v.Unit()
			if !ok {
				q, _ := v.Quantity()
				u = q.Unit()
			}
			if got := New(tt.opts...).Unit(u); got != tt.want {
				t.Errorf("Unit(%q) = %q, want %q", tt.unit, got, tt.want)
			}
		})
	}
}

func TestFormatter_Quantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		quantity string
		want     string
	}{
		{"default", nil, "1.5 km/h", "1.5 km/h"},
		{"precision", []Option{WithPrecision(3)}, "1.1 km/h", "1.1 km/h"},
		{"precision rounds", []Option{WithPrecision(3)}, "0.3055555556 m/s", "0.306 m/s"},
		{"dimensionless", nil, "42", "42"},
		{"grouping en", []Option{WithGrouping(language.English)}, "1234567.5 m", "1,234,567.5 m"},
		{"grouping de", []Option{WithGrouping(language.German)}, "1234567.5 m", "1.234.567,5 m"},
		{"grouping integer", []Option{WithGrouping(language.English)}, "1234567 m", "1,234,567 m"},
		{"grouping skips exponents", []Option{WithGrouping(language.English)}, "1e22 m", "1e+22 m"},
		{"labels and precision", []Option{WithLabels(true), WithPrecision(2)}, "3.14159 m", "3.1 meter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := parse.MustQuantity(tt.quantity)
			if got := New(tt.opts...).Quantity(q); got != tt.want {
				t.Errorf("Quantity(%q) = %q, want %q", tt.quantity, got, tt.want)
			}
		})
	}
}

func TestFormatter_Value(t *testing.T) {
	t.Parallel()

	f := New(WithPrecision(4))
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{123456, "123500"},
		{0.000123456, "0.0001235"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		if got := f.Value(tt.in); got != tt.want {
			t.Errorf("Value(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := New().Quantity(unit.Quantity{}); got != "0" {
		t.Errorf("zero quantity = %q", got)
	}
}
