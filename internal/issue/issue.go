// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/unitkit/unitkit/pkg/cueutil"
	"github.com/unitkit/unitkit/pkg/ledger"
	"github.com/unitkit/unitkit/pkg/parse"
	"github.com/unitkit/unitkit/pkg/unit"
)

const (
	UndefinedSymbolId Id = iota + 1
	AmbiguousSymbolId
	SyntaxErrorId
	NotAUnitId
	NotAQuantityId
	DimensionMismatchId
	OffsetCompositionId
	UnsupportedOperationId
	DivisionByZeroId
	InvalidDefinitionsId
	ConfigLoadFailedId
)

const docsBase = "https://github.com/unitkit/unitkit/blob/main/docs/"

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Renderer turns Markdown into terminal output.
	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // every issue links to the docs
		extLinks []HttpLink  // external links that might be useful for the user
	}

	// classifier maps an error sentinel to the issue explaining it. Order
	// matters: the first match wins, so specific causes come first.
	classifier struct {
		target error
		id     Id
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message followed by a "See also" list of links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue with the glamour style at stylePath ("dark",
// "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

// RenderWith renders the issue with r.
func (i *Issue) RenderWith(r Renderer, stylePath string) (string, error) {
	return r.Render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	undefinedSymbolIssue = &Issue{
		id: UndefinedSymbolId,
		mdMsg: `
# Unknown unit symbol

A symbol in your expression does not name any unit in the ledger.

## Things you can try:
- Check the spelling; symbols are case sensitive ('mm' is not 'Mm')
- List the known symbols:
~~~
$ unitkit units
$ unitkit units --filter meter
~~~
- Define the unit yourself in a definitions file and list it under
  'units.definitions' in your config`,
		docLinks: []HttpLink{docsBase + "units.md"},
	}

	ambiguousSymbolIssue = &Issue{
		id: AmbiguousSymbolId,
		mdMsg: `
# Ambiguous unit symbol

The symbol is claimed by more than one unit and none of them is the obvious
default.

## Things you can try:
- Spell the unit with its label, e.g. 'foot' instead of 'ft'
- Run 'unitkit units --ambiguous' to see which symbols collide`,
		docLinks: []HttpLink{docsBase + "units.md"},
	}

	syntaxErrorIssue = &Issue{
		id: SyntaxErrorId,
		mdMsg: `
# Cannot parse the expression

The caret under your input points at the first character that did not fit the
grammar.

## The grammar in short:
~~~
9.81 m/s**2        numbers, symbols, * / ** or ^
1 km + 500 m       sums need identical units
kilometer per hour "per" divides
J/(kg*K)           parentheses group
~~~

## Things you can try:
- Close every parenthesis
- Put a number after a leading minus sign: '-40 degC'`,
		docLinks: []HttpLink{docsBase + "syntax.md"},
	}

	notAUnitIssue = &Issue{
		id: NotAUnitId,
		mdMsg: `
# A unit was expected

The expression has a numeric value, so it is a quantity, not a unit.

## Things you can try:
- Drop the number: 'km/h' instead of '1 km/h'
- Use 'unitkit parse' to see what an expression evaluates to`,
		docLinks: []HttpLink{docsBase + "syntax.md"},
	}

	notAQuantityIssue = &Issue{
		id: NotAQuantityId,
		mdMsg: `
# A quantity was expected

The expression names a unit but carries no value.

## Things you can try:
- Put the value first: '1.5 km/h'`,
		docLinks: []HttpLink{docsBase + "syntax.md"},
	}

	dimensionMismatchIssue = &Issue{
		id: DimensionMismatchId,
		mdMsg: `
# Incompatible dimensions

Converting, comparing and adding only work between units of the same
dimension: metres and feet are both lengths, metres and seconds are not.

## Things you can try:
- Check which dimension each unit has:
~~~
$ unitkit parse "km/h"
~~~
- Multiply or divide by the missing unit first`,
		docLinks: []HttpLink{docsBase + "dimensions.md"},
	}

	offsetCompositionIssue = &Issue{
		id: OffsetCompositionId,
		mdMsg: `
# Offset units cannot be combined

Celsius and Fahrenheit have a zero point that is not absolute zero, so
expressions such as 'degC/s' or 'degF**2' have no single meaning.

## Things you can try:
- Use the absolute scale instead: 'K/s', 'degR**2'
- Convert the temperature to kelvin before doing arithmetic`,
		docLinks: []HttpLink{docsBase + "temperature.md"},
	}

	unsupportedOperationIssue = &Issue{
		id: UnsupportedOperationId,
		mdMsg: `
# Unsupported operation

Some operations are not defined: units cannot be added, exponents must be
plain numbers and sums need quantities in the very same unit.

## Things you can try:
- Convert one side first: 'unitkit convert "500 m" km'
- Give units a value before adding them: '1 km + 2 km'`,
		docLinks: []HttpLink{docsBase + "syntax.md"},
	}

	divisionByZeroIssue = &Issue{
		id: DivisionByZeroId,
		mdMsg: `
# Division by zero

A divisor in the expression evaluates to zero.`,
		docLinks: []HttpLink{docsBase + "syntax.md"},
	}

	invalidDefinitionsIssue = &Issue{
		id: InvalidDefinitionsId,
		mdMsg: `
# Invalid unit definitions

A unit definitions file did not validate or clashes with a built-in unit.

## Example definition (CUE):
~~~cue
units: [
	{label: "furlong", abbr: "fur", base: {length: 1}, multiplier: 201.168},
]
~~~

## Things you can try:
- Labels must be unique; pick a new label or drop the definition
- Multipliers must be positive
- Units with an offset cannot be prefixed`,
		docLinks: []HttpLink{docsBase + "definitions.md"},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

Your configuration file could not be read or did not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ unitkit config show
~~~
- Write a fresh default file and edit from there:
~~~
$ unitkit config init
~~~`,
		docLinks: []HttpLink{docsBase + "config.md"},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		undefinedSymbolIssue.Id():      undefinedSymbolIssue,
		ambiguousSymbolIssue.Id():      ambiguousSymbolIssue,
		syntaxErrorIssue.Id():          syntaxErrorIssue,
		notAUnitIssue.Id():             notAUnitIssue,
		notAQuantityIssue.Id():         notAQuantityIssue,
		dimensionMismatchIssue.Id():    dimensionMismatchIssue,
		offsetCompositionIssue.Id():    offsetCompositionIssue,
		unsupportedOperationIssue.Id(): unsupportedOperationIssue,
		divisionByZeroIssue.Id():       divisionByZeroIssue,
		invalidDefinitionsIssue.Id():   invalidDefinitionsIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}

	classifiers = []classifier{
		{ledger.ErrUndefinedSymbol, UndefinedSymbolId},
		{ledger.ErrAmbiguousSymbol, AmbiguousSymbolId},
		{unit.ErrOffsetComposition, OffsetCompositionId},
		{unit.ErrDimensionMismatch, DimensionMismatchId},
		{unit.ErrUnsupportedOperation, UnsupportedOperationId},
		{unit.ErrDivisionByZero, DivisionByZeroId},
		{parse.ErrNotAUnit, NotAUnitId},
		{parse.ErrNotAQuantity, NotAQuantityId},
		{parse.ErrSyntax, SyntaxErrorId},
		{ledger.ErrInvalidEntry, InvalidDefinitionsId},
		{ledger.ErrDuplicateRegistration, InvalidDefinitionsId},
		{cueutil.ErrValidation, InvalidDefinitionsId},
		{cueutil.ErrUnsupportedFormat, InvalidDefinitionsId},
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError returns the issue explaining err, or nil when none applies. An
// ActionableError linked to an issue takes precedence over its cause.
func ForError(err error) *Issue {
	var ae *ActionableError
	if errors.As(err, &ae) && ae.IssueId != 0 {
		return Get(ae.IssueId)
	}
	for _, c := range classifiers {
		if errors.Is(err, c.target) {
			return issues[c.id]
		}
	}
	return nil
}
