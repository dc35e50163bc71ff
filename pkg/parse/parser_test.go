// SPDX-License-Identifier: MPL-2.0

package parse

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/unitkit/unitkit/pkg/ledger"
	"github.com/unitkit/unitkit/pkg/prefix"
	"github.com/unitkit/unitkit/pkg/unit"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return New(ledger.MustDefault())
}

func TestParseUnit(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	tests := []struct {
		input string
		want  string
	}{
		{"km/h", "km/h"},
		{"kilometer per hour", "km/h"},
		{"m/s**2", "m/s**2"},
		{"m/s^2", "m/s**2"},
		{"kg m / s^2", "kg*m/s**2"},
		{"J/(kg*K)", "J/(K*kg)"},
		{"joule per kelvin per kilogram", "J/(K*kg)"},
		{"s^-1", "s**-1"},
		{"m^0.5", "m**0.5"},
		{"(m/s)^2", "m**2/s**2"},
		{"m^2^3", "m**8"},
		{"m*m", "m**2"},
		{"m/m", ""},
		{"µm", "um"},
		{"", ""},
		{"   ", ""},
		{"degC", "degC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			u, err := p.ParseUnit(tt.input)
			if err != nil {
				t.Fatalf("ParseUnit(%q) error: %v", tt.input, err)
			}
			if got := u.String(); got != tt.want {
				t.Errorf("ParseUnit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseUnit_Errors(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	tests := []struct {
		input  string
		want   error
		offset int
	}{
		{"2*km", ErrNotAUnit, 0},
		{"1/s", ErrNotAUnit, 0},
		{"3", ErrNotAUnit, 0},
		{"kmx/h", ledger.ErrUndefinedSymbol, 0},
		{"km/hx", ledger.ErrUndefinedSymbol, 3},
		{"km//h", ErrSyntax, 3},
		{"(km", ErrSyntax, 3},
		{"km)", ErrSyntax, 2},
		{"km*", ErrSyntax, 3},
		{"-km", ErrSyntax, 1},
		{"km+h", unit.ErrUnsupportedOperation, 2},
		{"m^s", unit.ErrUnsupportedOperation, 1},
		{"degC*m", unit.ErrOffsetComposition, 4},
		{"degC^2", unit.ErrOffsetComposition, 4},
		{"m$", ErrSyntax, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			_, err := p.ParseUnit(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseUnit(%q) error = %v, want %v", tt.input, err, tt.want)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if perr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", perr.Offset, tt.offset)
			}
			if perr.Input != tt.input {
				t.Errorf("Input = %q, want %q", perr.Input, tt.input)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	tests := []struct {
		input string
		want  string
	}{
		{"1.1 km/h", "1.1 km/h"},
		{"1.1km/h", "1.1 km/h"},
		{"-40 degC", "-40 degC"},
		{"1.5e3 m", "1500 m"},
		{"5", "5"},
		{"2 * 3 m", "6 m"},
		{"1 km + 2 km", "3 km"},
		{"(1 km + 2 km)/2", "1.5 km"},
		{"10 m/s * 2 s", "20 m"},
		{"3 kilometer per hour", "3 km/h"},
		{"9.81 m/s**2", "9.81 m/s**2"},
		{"1 km - 1 km", "0 km"},
		{"0 + 5 m", "5 m"},
		{"4 J/(kg K)", "4 J/(K*kg)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			q, err := p.ParseQuantity(tt.input)
			if err != nil {
				t.Fatalf("ParseQuantity(%q) error: %v", tt.input, err)
			}
			if got := q.String(); got != tt.want {
				t.Errorf("ParseQuantity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseQuantity_Errors(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	tests := []struct {
		input  string
		want   error
		offset int
	}{
		{"km", ErrNotAQuantity, 0},
		{"", ErrNotAQuantity, 0},
		{"1 km + 1 s", unit.ErrDimensionMismatch, 5},
		{"1 km + 1 m", unit.ErrUnsupportedOperation, 5},
		{"1 m / 0", unit.ErrDivisionByZero, 4},
		{"10 degC/s", unit.ErrOffsetComposition, 7},
		{"1 m ^ km", unit.ErrUnsupportedOperation, 4},
		{"1 furlongs", ledger.ErrUndefinedSymbol, 2},
		{"1e999 m", ErrSyntax, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			_, err := p.ParseQuantity(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseQuantity(%q) error = %v, want %v", tt.input, err, tt.want)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if perr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", perr.Offset, tt.offset)
			}
		})
	}
}

func TestParseExpression_Kinds(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	tests := []struct {
		input string
		kind  Kind
		want  string
	}{
		{"2*3", KindNumber, "6"},
		{"2^-1", KindNumber, "0.5"},
		{"2^3^2", KindNumber, "512"},
		{"(1 + 2) * 3", KindNumber, "9"},
		{"km", KindUnit, "km"},
		{"2 km", KindQuantity, "2 km"},
		{"1/s", KindQuantity, "1 s**-1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			v, err := p.ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("ParseExpression(%q) error: %v", tt.input, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", v.Kind(), tt.kind)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := p.ParseExpression("1/0"); !errors.Is(err, unit.ErrDivisionByZero) {
		t.Errorf("1/0 error = %v, want ErrDivisionByZero", err)
	}
	if _, err := p.ParseExpression("0^-1"); !errors.Is(err, unit.ErrDivisionByZero) {
		t.Errorf("0^-1 error = %v, want ErrDivisionByZero", err)
	}
}

func TestScenarios(t *testing.T) {
	t.Parallel()

	l := ledger.MustDefault()
	p := New(l)

	mustUnit := func(t *testing.T, text string) unit.Unit {
		t.Helper()
		u, err := p.ParseUnit(text)
		if err != nil {
			t.Fatalf("ParseUnit(%q) error: %v", text, err)
		}
		return u
	}
	mustQuantity := func(t *testing.T, text string) unit.Quantity {
		t.Helper()
		q, err := p.ParseQuantity(text)
		if err != nil {
			t.Fatalf("ParseQuantity(%q) error: %v", text, err)
		}
		return q
	}
	equal := func(t *testing.T, a, b unit.Quantity) bool {
		t.Helper()
		ok, err := a.Equal(b)
		if err != nil {
			t.Fatalf("Equal(%v, %v) error: %v", a, b, err)
		}
		return ok
	}

	t.Run("km/h factors and dimension", func(t *testing.T) {
		kmh := mustUnit(t, "km/h")
		km, _ := l.Lookup("km")
		h, _ := l.Lookup("h")
		if kmh.Exponent(km) != 1 || kmh.Exponent(h) != -1 || len(kmh.Factors()) != 2 {
			t.Errorf("factors = %v", kmh.Factors())
		}
		if got := kmh.Dimension().String(); got != "length*time**-1" {
			t.Errorf("dimension = %s", got)
		}
	})

	t.Run("10 degC in kelvin", func(t *testing.T) {
		q, err := mustUnit(t, "degC").Times(10).To(mustUnit(t, "K"))
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(q.Value()-283.15) > 1e-9 {
			t.Errorf("10 degC = %v, want 283.15 K", q)
		}
	})

	t.Run("offset addition", func(t *testing.T) {
		sum, err := mustQuantity(t, "10 degC").Add(mustQuantity(t, "5 degC"))
		if err != nil {
			t.Fatal(err)
		}
		if !equal(t, sum, mustQuantity(t, "15 degC")) {
			t.Errorf("10 degC + 5 degC = %v", sum)
		}
		inK, err := sum.To(mustUnit(t, "K"))
		if err != nil {
			t.Fatal(err)
		}
		if !equal(t, inK, mustQuantity(t, "288.15 K")) {
			t.Errorf("(10 degC + 5 degC) in K = %v", inK)
		}
	})

	t.Run("feet and inches", func(t *testing.T) {
		if !equal(t, mustQuantity(t, "1 ft"), mustQuantity(t, "12 in")) {
			t.Error("1 ft should equal 12 in")
		}
		if equal(t, mustQuantity(t, "1 ft"), mustQuantity(t, "1 m")) {
			t.Error("1 ft should not equal 1 m")
		}
	})

	t.Run("square feet", func(t *testing.T) {
		sq, err := mustQuantity(t, "2 ft").Pow(2)
		if err != nil {
			t.Fatal(err)
		}
		want := mustQuantity(t, "4 ft**2")
		if !equal(t, sq, want) || !sq.Unit().Identical(want.Unit()) {
			t.Errorf("(2 ft)**2 = %v, want %v", sq, want)
		}
	})

	t.Run("inverse square grams", func(t *testing.T) {
		q := mustUnit(t, "g**-2").Times(2)
		if got, want := q.BaseValue(), 2*math.Pow(0.001, -2); math.Abs(got-want) > 1e-9*want {
			t.Errorf("BaseValue() = %v, want %v", got, want)
		}
	})
}

func TestParser_AmbiguousSymbol(t *testing.T) {
	t.Parallel()

	kilo, _ := prefix.ByName("kilo")
	l := ledger.New()
	for _, spec := range []ledger.EntrySpec{
		{Label: "kiloalpha", Abbr: "ka", Prefix: kilo, Multiplier: 1e3},
		{Label: "kilobeta", Abbr: "ka", Prefix: kilo, Multiplier: 1e3},
		{Label: "meter", Abbr: "m", Multiplier: 1},
	} {
		e, err := ledger.NewEntry(spec)
		if err != nil {
			t.Fatal(err)
		}
		if err := l.AddEntry(e); err != nil {
			t.Fatal(err)
		}
	}
	l.ResolveAmbiguities()

	p := New(l)
	_, err := p.ParseUnit("m/ka")
	if !errors.Is(err, ledger.ErrAmbiguousSymbol) {
		t.Fatalf("ParseUnit(m/ka) error = %v, want ErrAmbiguousSymbol", err)
	}
	var perr *ParseError
	if errors.As(err, &perr) && perr.Offset != 2 {
		t.Errorf("Offset = %d, want 2", perr.Offset)
	}
	if _, err := p.ParseUnit("km"); !errors.Is(err, ledger.ErrUndefinedSymbol) {
		t.Errorf("km in a synthetic ledger error = %v, want ErrUndefinedSymbol", err)
	}
}

func TestParseError_Message(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	_, err := p.ParseUnit("km/hx")
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, `parse "km/hx" at offset 3: undefined unit symbol "hx"`) {
		t.Errorf("message = %q", msg)
	}
	if !strings.HasSuffix(msg, "\n  km/hx\n     ^") {
		t.Errorf("caret diagram = %q", msg)
	}

	_, err = p.ParseUnit("µm/zz")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T", err)
	}
	if perr.Offset != 4 || perr.Column() != 3 {
		t.Errorf("Offset, Column = %d, %d, want 4, 3", perr.Offset, perr.Column())
	}
}

func TestParser_Cache(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	first, err := p.ParseUnit("kg*m/s**2")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ParseUnit("kg*m/s**2")
	if err != nil {
		t.Fatal(err)
	}
	if !first.Identical(second) {
		t.Errorf("cached unit %s differs from %s", second, first)
	}
	if n := p.units.ItemCount(); n != 1 {
		t.Errorf("cache holds %d units, want 1", n)
	}

	if _, err := p.ParseUnit("2*km"); err == nil {
		t.Fatal("expected an error")
	}
	if n := p.units.ItemCount(); n != 1 {
		t.Errorf("failed parses must not be cached, cache holds %d", n)
	}
}

func TestParser_CacheExpiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		expires bool
	}{
		{"default ttl", nil, true},
		{"custom ttl", []Option{WithCacheTTL(time.Minute)}, true},
		{"no expiration", []Option{WithCacheTTL(cache.NoExpiration)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := New(ledger.MustDefault(), tt.opts...)
			if _, err := p.ParseUnit("km/h"); err != nil {
				t.Fatal(err)
			}
			item, ok := p.units.Items()["km/h"]
			if !ok {
				t.Fatal("km/h was not cached")
			}
			if got := item.Expiration > 0; got != tt.expires {
				t.Errorf("expires = %v, want %v", got, tt.expires)
			}
		})
	}

	p := New(ledger.MustDefault())
	before := time.Now()
	if _, err := p.ParseUnit("m/s"); err != nil {
		t.Fatal(err)
	}
	deadline := time.Unix(0, p.units.Items()["m/s"].Expiration)
	if deadline.Before(before.Add(DefaultCacheTTL)) || deadline.After(time.Now().Add(DefaultCacheTTL)) {
		t.Errorf("expiration %v not within DefaultCacheTTL of now", deadline)
	}
}

func TestDefaultParser(t *testing.T) {
	t.Parallel()

	if got := MustUnit("N").Dimension().String(); got != "length*mass*time**-2" {
		t.Errorf("newton dimension = %s", got)
	}
	if got := MustQuantity("3 mph").String(); got != "3 mph" {
		t.Errorf("MustQuantity(3 mph) = %s", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustUnit(nope) should panic")
		}
	}()
	MustUnit("nope")
}
