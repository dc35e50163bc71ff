// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"

	"github.com/unitkit/unitkit/pkg/ledger"
	"github.com/unitkit/unitkit/pkg/parse"
	"github.com/unitkit/unitkit/pkg/unit"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load definitions"},
			expected: "failed to load definitions",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "parse unit", Resource: "km/h"},
			expected: `failed to parse unit "km/h"`,
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "load config", Cause: errors.New("no such file")},
			expected: "failed to load config: no such file",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "convert quantity",
				Resource:  "1 m",
				Cause:     errors.New("dimension mismatch"),
			},
			expected: `failed to convert quantity "1 m": dimension mismatch`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := &ActionableError{
		Operation:   "parse quantity",
		Resource:    "1 zz",
		Suggestions: []string{"first", "second"},
		Cause:       &ledger.UndefinedSymbolError{Symbol: "zz"},
	}

	short := err.Format(false)
	if !strings.Contains(short, "\n  • first\n  • second") {
		t.Errorf("Format(false) = %q, should list suggestions", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	long := err.Format(true)
	for _, want := range []string{"Error chain:", "1. undefined unit symbol \"zz\"", "2. undefined unit symbol"} {
		if !strings.Contains(long, want) {
			t.Errorf("Format(true) = %q, should contain %q", long, want)
		}
	}
}

func TestActionableError_FormatMultilineCause(t *testing.T) {
	t.Parallel()

	_, cause := parse.Unit("km/")
	err := WrapWithContext(cause, "parse unit", "km/")

	long := err.Format(true)
	chain := long[strings.Index(long, "Error chain:"):]
	if strings.Contains(chain, "^") {
		t.Errorf("error chain should keep only the first line of each error, got %q", chain)
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	err := WrapWithOperation(unit.ErrDivisionByZero, "evaluate expression")
	if !errors.Is(err, unit.ErrDivisionByZero) {
		t.Error("errors.Is should find the cause")
	}
	if got := err.Issue(); got == nil || got.Id() != DivisionByZeroId {
		t.Errorf("Issue() = %v, want DivisionByZeroId", got)
	}
	if NewActionableError("noop").Issue() != nil {
		t.Error("Issue() without cause should be nil")
	}
}

func TestWrapNil(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should be nil")
	}
	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}
	if Explain(nil, "x", "y") != nil {
		t.Error("Explain(nil) should be nil")
	}
}

func TestErrorContext(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should be nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should be nil")
	}

	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("load definitions").
		WithResource("units.cue").
		WithSuggestion("one").
		WithSuggestions("two", "three").
		Wrap(cause).
		Build()

	if err.Operation != "load definitions" || err.Resource != "units.cue" || err.Cause != cause {
		t.Errorf("Build() = %+v", err)
	}
	if !err.HasSuggestions() || len(err.Suggestions) != 3 {
		t.Errorf("Suggestions = %v, want 3", err.Suggestions)
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	_, offsetErr := parse.Unit("degC*m")
	_, mismatchErr := parse.Quantity("1 m + 1 s")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "undefined with suggestions",
			err:  &ledger.UndefinedSymbolError{Symbol: "metr", Suggestions: []string{"meter", "metre"}},
			want: []string{"Did you mean 'meter', 'metre'?", "unitkit units --filter metr", "unitkit explain 1"},
		},
		{
			name: "undefined without suggestions",
			err:  &ledger.UndefinedSymbolError{Symbol: "zz"},
			want: []string{"unitkit units --filter zz"},
		},
		{
			name: "ambiguous",
			err:  &ledger.AmbiguousSymbolError{Symbol: "ka", Candidates: []string{"katal", "kiloannum"}},
			want: []string{"'katal', 'kiloannum'"},
		},
		{
			name: "mismatch",
			err:  mismatchErr,
			want: []string{"m measures", "s measures"},
		},
		{
			name: "offset",
			err:  offsetErr,
			want: []string{"absolute scale"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Explain(tt.err, "parse", "input")
			joined := strings.Join(err.Suggestions, "\n")
			for _, want := range tt.want {
				if !strings.Contains(joined, want) {
					t.Errorf("suggestions %q should contain %q", joined, want)
				}
			}
		})
	}

	plain := Explain(errors.New("boom"), "parse", "input")
	if plain.HasSuggestions() {
		t.Errorf("unclassified errors should have no suggestions, got %v", plain.Suggestions)
	}
}

func TestErrorContext_WithIssue(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load configuration").
		WithIssue(ConfigLoadFailedId).
		Wrap(&ledger.InvalidEntryError{Label: "x", Reason: "bad"}).
		BuildError()

	if got := ForError(err); got == nil || got.Id() != ConfigLoadFailedId {
		t.Errorf("ForError() = %v, want ConfigLoadFailedId", got)
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Issue().Id() != ConfigLoadFailedId {
		t.Error("Issue() should prefer the linked issue over the cause")
	}
}
