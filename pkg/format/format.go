// SPDX-License-Identifier: MPL-2.0

// Package format renders units and quantities for display. The zero
// configuration reproduces the canonical String forms of pkg/unit; options
// switch to unit labels, other separators, limited precision and
// locale-aware digit grouping.
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/unitkit/unitkit/pkg/unit"
)

const (
	// DefaultSeparator joins the factors of a unit.
	DefaultSeparator = "*"

	// DefaultPowerOperator introduces an exponent.
	DefaultPowerOperator = "**"

	// maxFractionDigits bounds the fraction digits of grouped output.
	maxFractionDigits = 15
)

type (
	// Formatter renders units and quantities. It is immutable and safe for
	// concurrent use.
	Formatter struct {
		labels    bool
		separator string
		power     string
		division  bool
		parens    bool
		precision int
		grouping  bool
		locale    language.Tag
	}

	// Option configures a Formatter.
	Option func(*Formatter)
)

// WithLabels spells units with labels ("kilometer/hour") instead of
// symbols ("km/h").
func WithLabels(labels bool) Option {
	return func(f *Formatter) {
		f.labels = labels
	}
}

// WithSeparator sets the string placed between factors, e.g. "·" or " ".
func WithSeparator(sep string) Option {
	return func(f *Formatter) {
		f.separator = sep
	}
}

// WithPowerOperator sets the string placed before exponents, e.g. "^".
func WithPowerOperator(op string) Option {
	return func(f *Formatter) {
		f.power = op
	}
}

// WithDivision controls whether negative exponents are written as a
// denominator ("m/s**2", the default) or inline ("m*s**-2").
func WithDivision(division bool) Option {
	return func(f *Formatter) {
		f.division = division
	}
}

// WithParens wraps a numerator or denominator of more than one factor in
// parentheses: "(kg*m)/s**2".
func WithParens(parens bool) Option {
	return func(f *Formatter) {
		f.parens = parens
	}
}

// WithPrecision limits values to n significant digits. Zero or a negative n
// prints the shortest exact form.
func WithPrecision(n int) Option {
	return func(f *Formatter) {
		f.precision = n
	}
}

// WithGrouping groups integer digits and localizes the decimal mark using
// the conventions of tag, e.g. "1,234.5" for English and "1.234,5" for
// German.
func WithGrouping(tag language.Tag) Option {
	return func(f *Formatter) {
		f.grouping = true
		f.locale = tag
	}
}

// New returns a Formatter configured by opts.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		separator: DefaultSeparator,
		power:     DefaultPowerOperator,
		division:  true,
		locale:    language.English,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Unit renders u. The dimensionless unit renders as the empty string.
func (f *Formatter) Unit(u unit.Unit) string {
	factors := u.Factors()
	if !f.division {
		parts := make([]string, 0, len(factors))
		for _, fac := range factors {
			parts = append(parts, f.factor(fac, fac.Exponent))
		}
		return strings.Join(parts, f.separator)
	}

	var num, den []string
	for _, fac := range factors {
		if fac.Exponent > 0 {
			num = append(num, f.factor(fac, fac.Exponent))
		} else {
			den = append(den, f.factor(fac, -fac.Exponent))
		}
	}

	switch {
	case len(den) == 0:
		return strings.Join(num, f.separator)
	case len(num) == 0:
		// nothing to divide into: keep the exponents negative
		f2 := *f
		f2.division = false
		return f2.Unit(u)
	default:
		return f.group(num, false) + "/" + f.group(den, true)
	}
}

// Quantity renders q as "<value> <unit>", or just the value when q has no
// unit.
func (f *Formatter) Quantity(q unit.Quantity) string {
	v := f.Value(q.Value())
	if q.Unit().IsEmpty() {
		return v
	}
	return v + " " + f.Unit(q.Unit())
}

// Value renders a bare number with the configured precision and grouping.
func (f *Formatter) Value(v float64) string {
	if f.precision > 0 {
		v = roundSignificant(v, f.precision)
	}
	if !f.grouping || !groupable(v) {
		return unit.FormatValue(v)
	}

	p := message.NewPrinter(f.locale)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(fractionDigits(v))))
}

func (f *Formatter) factor(fac unit.Factor, exp float64) string {
	name := fac.Entry.Symbol()
	if f.labels {
		name = fac.Entry.Label()
	}
	if exp == 1 {
		return name
	}
	return name + f.power + strconv.FormatFloat(exp, 'g', -1, 64)
}

// group joins factors; a denominator of several factors always gets
// parentheses, a numerator only when WithParens is set.
func (f *Formatter) group(parts []string, denominator bool) string {
	s := strings.Join(parts, f.separator)
	if len(parts) > 1 && (denominator || f.parens) {
		return "(" + s + ")"
	}
	return s
}

func roundSignificant(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// groupable reports whether v prints without an exponent, which is when
// grouping digits makes sense.
func groupable(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	a := math.Abs(v)
	return a == 0 || (a >= 1e-6 && a < 1e21)
}

func fractionDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0
	}
	return min(len(frac), maxFractionDigits)
}
