// SPDX-License-Identifier: MPL-2.0

package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/unitkit/unitkit/pkg/ledger"
	"github.com/unitkit/unitkit/pkg/unit"
)

// DefaultCacheTTL is how long a Parser keeps a memoised unit unless
// WithCacheTTL says otherwise.
const DefaultCacheTTL = 10 * time.Minute

type (
	// Parser resolves symbols against one Ledger. Successful unit parses are
	// memoised, so repeated lookups of the same string are cheap. A Parser is
	// safe for concurrent use.
	Parser struct {
		ledger *ledger.Ledger
		units  *cache.Cache
	}

	// Option configures a Parser.
	Option func(*parserOptions)

	parserOptions struct {
		cacheTTL time.Duration
	}

	// state walks the token stream of a single input.
	state struct {
		ledger *ledger.Ledger
		input  string
		tokens []token
		pos    int
	}
)

// WithCacheTTL expires memoised units after ttl instead of DefaultCacheTTL.
// A ttl of cache.NoExpiration (-1) keeps them for the life of the Parser.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *parserOptions) {
		o.cacheTTL = ttl
	}
}

// New returns a Parser resolving symbols in l. Expired units are swept
// every two TTLs.
func New(l *ledger.Ledger, opts ...Option) *Parser {
	options := parserOptions{cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&options)
	}

	cleanup := time.Duration(0)
	if options.cacheTTL > 0 {
		cleanup = 2 * options.cacheTTL
	}
	return &Parser{
		ledger: l,
		units:  cache.New(options.cacheTTL, cleanup),
	}
}

// Ledger returns the ledger symbols are resolved in.
func (p *Parser) Ledger() *ledger.Ledger { return p.ledger }

// ParseExpression evaluates text and returns whatever it denotes: a number,
// a unit or a quantity. Empty input is the dimensionless unit.
func (p *Parser) ParseExpression(text string) (Value, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Value{}, err
	}
	s := &state{ledger: p.ledger, input: text, tokens: tokens}
	return s.parse()
}

// ParseUnit parses text as a unit, e.g. "km/h" or "J/(kg*K)". Empty input is
// the dimensionless unit. Expressions with a numeric factor such as "2*km"
// fail with ErrNotAUnit.
func (p *Parser) ParseUnit(text string) (unit.Unit, error) {
	if cached, ok := p.units.Get(text); ok {
		return cached.(unit.Unit), nil
	}

	v, err := p.ParseExpression(text)
	if err != nil {
		return unit.Unit{}, err
	}
	u, ok := v.Unit()
	if !ok {
		return unit.Unit{}, &ParseError{
			Input: text,
			Err:   fmt.Errorf("%w: %q is a %s", ErrNotAUnit, strings.TrimSpace(text), v.Kind()),
		}
	}

	p.units.Set(text, u, cache.DefaultExpiration)
	return u, nil
}

// ParseQuantity parses text as a quantity, e.g. "1.1 km/h" or "-40 degC".
// A bare number is a dimensionless quantity; a bare unit fails with
// ErrNotAQuantity.
func (p *Parser) ParseQuantity(text string) (unit.Quantity, error) {
	v, err := p.ParseExpression(text)
	if err != nil {
		return unit.Quantity{}, err
	}
	switch v.Kind() {
	case KindNumber:
		n, _ := v.Number()
		return unit.New(n, unit.Dimensionless), nil
	case KindQuantity:
		q, _ := v.Quantity()
		return q, nil
	default:
		return unit.Quantity{}, &ParseError{
			Input: text,
			Err:   fmt.Errorf("%w: %q has no numeric value", ErrNotAQuantity, strings.TrimSpace(text)),
		}
	}
}

func (s *state) parse() (Value, error) {
	if s.peek().kind == tokEOF {
		return UnitValue(unit.Dimensionless), nil
	}
	v, err := s.expression()
	if err != nil {
		return Value{}, err
	}
	if t := s.peek(); t.kind != tokEOF {
		return Value{}, s.fail(t.offset, syntaxError("unexpected %s", t.describe()))
	}
	return v, nil
}

func (s *state) peek() token { return s.tokens[s.pos] }

func (s *state) next() token {
	t := s.tokens[s.pos]
	if t.kind != tokEOF {
		s.pos++
	}
	return t
}

func (s *state) fail(offset int, err error) *ParseError {
	return &ParseError{Input: s.input, Offset: offset, Err: err}
}

// expression := term (('+' | '-') term)*
func (s *state) expression() (Value, error) {
	v, err := s.term()
	if err != nil {
		return Value{}, err
	}
	for {
		op := s.peek()
		if !op.is(tokOperator, "+") && !op.is(tokOperator, "-") {
			return v, nil
		}
		s.next()
		rhs, err := s.term()
		if err != nil {
			return Value{}, err
		}
		sign := 1.0
		if op.text == "-" {
			sign = -1
		}
		if v, err = add(v, rhs, sign); err != nil {
			return Value{}, s.fail(op.offset, err)
		}
	}
}

// term := factor (('*' | '/') factor)*
func (s *state) term() (Value, error) {
	v, err := s.factor()
	if err != nil {
		return Value{}, err
	}
	for {
		op := s.peek()
		if !op.is(tokOperator, "*") && !op.is(tokOperator, "/") {
			return v, nil
		}
		s.next()
		rhs, err := s.factor()
		if err != nil {
			return Value{}, err
		}
		if op.text == "*" {
			v, err = mul(v, rhs)
		} else {
			v, err = div(v, rhs)
		}
		if err != nil {
			return Value{}, s.fail(op.offset, err)
		}
	}
}

// factor := base ('^' factor)?
func (s *state) factor() (Value, error) {
	v, err := s.base()
	if err != nil {
		return Value{}, err
	}
	op := s.peek()
	if !op.is(tokOperator, "^") {
		return v, nil
	}
	s.next()
	exp, err := s.factor()
	if err != nil {
		return Value{}, err
	}
	if v, err = pow(v, exp); err != nil {
		return Value{}, s.fail(op.offset, err)
	}
	return v, nil
}

// base := '(' expression ')' | ['-'] number | symbol
func (s *state) base() (Value, error) {
	t := s.next()
	switch {
	case t.kind == tokLParen:
		v, err := s.expression()
		if err != nil {
			return Value{}, err
		}
		if closing := s.next(); closing.kind != tokRParen {
			return Value{}, s.fail(closing.offset, syntaxError("expected \")\" to close \"(\" at offset %d, found %s", t.offset, closing.describe()))
		}
		return v, nil

	case t.kind == tokNumber:
		return s.number(t, 1)

	case t.is(tokOperator, "-"):
		n := s.next()
		if n.kind != tokNumber {
			return Value{}, s.fail(n.offset, syntaxError("expected a number after \"-\", found %s", n.describe()))
		}
		return s.number(n, -1)

	case t.kind == tokSymbol:
		e, err := s.ledger.Lookup(t.text)
		if err != nil {
			return Value{}, s.fail(t.offset, err)
		}
		return UnitValue(unit.Of(e)), nil

	default:
		return Value{}, s.fail(t.offset, syntaxError("expected a number, symbol or \"(\", found %s", t.describe()))
	}
}

func (s *state) number(t token, sign float64) (Value, error) {
	n, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Value{}, s.fail(t.offset, syntaxError("number %s is out of range", t.text))
		}
		return Value{}, s.fail(t.offset, syntaxError("invalid number %s", t.text))
	}
	return NumberValue(sign * n), nil
}

var defaultParser = sync.OnceValues(func() (*Parser, error) {
	l, err := ledger.Default()
	if err != nil {
		return nil, err
	}
	return New(l), nil
})

// Default returns the Parser bound to ledger.Default().
func Default() (*Parser, error) {
	return defaultParser()
}

// Unit parses text as a unit against the default ledger.
func Unit(text string) (unit.Unit, error) {
	p, err := Default()
	if err != nil {
		return unit.Unit{}, err
	}
	return p.ParseUnit(text)
}

// Quantity parses text as a quantity against the default ledger.
func Quantity(text string) (unit.Quantity, error) {
	p, err := Default()
	if err != nil {
		return unit.Quantity{}, err
	}
	return p.ParseQuantity(text)
}

// Expression evaluates text against the default ledger.
func Expression(text string) (Value, error) {
	p, err := Default()
	if err != nil {
		return Value{}, err
	}
	return p.ParseExpression(text)
}

// MustUnit is like Unit but panics on error. It is meant for unit literals
// in code, such as package-level variables.
func MustUnit(text string) unit.Unit {
	u, err := Unit(text)
	if err != nil {
		panic(err)
	}
	return u
}

// MustQuantity is like Quantity but panics on error.
func MustQuantity(text string) unit.Quantity {
	q, err := Quantity(text)
	if err != nil {
		panic(err)
	}
	return q
}
