// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unitkit/unitkit/pkg/ledger"
	"github.com/unitkit/unitkit/pkg/unit"
)

type (
	// ActionableError is an error with context for user-facing messages: what
	// was attempted, on which input, and what the user can do about it.
	//
	// Use the ErrorContext builder for convenient construction:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("convert quantity").
	//		WithResource("1.1 km/h").
	//		WithSuggestion("Run 'unitkit units' to list known symbols").
	//		Wrap(originalErr).
	//		Build()
	ActionableError struct {
		// Operation describes what was being attempted (e.g., "parse unit").
		Operation string

		// Resource is the expression or file involved (optional).
		Resource string

		// Suggestions are hints on how to fix the problem (optional).
		Suggestions []string

		// Cause is the underlying error (optional).
		Cause error

		// IssueId names the catalog entry explaining the error. Zero means
		// it is derived from Cause.
		IssueId Id
	}

	// ErrorContext is a builder for ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issueId     Id
	}
)

// NewActionableError creates an ActionableError with the given operation.
func NewActionableError(operation string) *ActionableError {
	return &ActionableError{Operation: operation}
}

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps an error with operation context.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapWithContext wraps an error with operation and resource context.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Explain wraps err like WrapWithContext and derives suggestions from the
// typed errors in its chain: close symbol matches, the labels of an ambiguous
// symbol, the dimensions that failed to line up.
func Explain(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestionsFor(err)...).
		Wrap(err).
		Build()
}

func suggestionsFor(err error) []string {
	var (
		undefined *ledger.UndefinedSymbolError
		ambiguous *ledger.AmbiguousSymbolError
		mismatch  *unit.DimensionMismatchError
		out       []string
	)
	switch {
	case errors.As(err, &undefined):
		if len(undefined.Suggestions) > 0 {
			out = append(out, "Did you mean "+quoteList(undefined.Suggestions)+"?")
		}
		out = append(out, "Run 'unitkit units --filter "+undefined.Symbol+"' to search the known units")
	case errors.As(err, &ambiguous):
		out = append(out, "Spell out the unit with one of its labels: "+quoteList(ambiguous.Candidates))
	case errors.As(err, &mismatch):
		out = append(out, fmt.Sprintf("%s measures %s while %s measures %s",
			symbolOrOne(mismatch.Left), mismatch.Left.Dimension(), symbolOrOne(mismatch.Right), mismatch.Right.Dimension()))
	case errors.Is(err, unit.ErrOffsetComposition):
		out = append(out, "Use an absolute scale such as K or degR when combining temperatures with other units")
	}
	if id := ForError(err); id != nil {
		out = append(out, fmt.Sprintf("Run 'unitkit explain %d' for details", id.Id()))
	}
	return out
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}

func symbolOrOne(u unit.Unit) string {
	if s := u.String(); s != "" {
		return s
	}
	return "1"
}

// Error returns a concise message for default (non-verbose) output.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(" ")
		msg.WriteString(quoteResource(e.Resource))
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

func quoteResource(r string) string {
	return fmt.Sprintf("%q", r)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Issue returns the catalog entry for the error, or nil.
func (e *ActionableError) Issue() *Issue {
	if e.IssueId != 0 {
		return Get(e.IssueId)
	}
	if e.Cause == nil {
		return nil
	}
	return ForError(e.Cause)
}

// Format returns the message with optional verbosity.
//
// When verbose is false:
//
//	failed to <operation> "<resource>": <cause message>
//	  • <suggestion 1>
//	  • <suggestion 2>
//
// When verbose is true, the full error chain follows.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			// Parse errors span several lines; the first one is enough here.
			line, _, _ := strings.Cut(err.Error(), "\n")
			fmt.Fprintf(&msg, "\n  %d. %s", depth, line)
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// HasSuggestions reports whether the error has any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the operation being performed, a verb phrase like
// "parse unit" or "load definitions".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the expression or file involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions adds multiple suggestions at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issueId = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates an ActionableError from the context. It returns nil if no
// operation is set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
		IssueId:     c.issueId,
	}
}

// BuildError is Build returning the error interface, nil when no operation
// is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
