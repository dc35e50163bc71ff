// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/unitkit/unitkit/internal/issue"
	"github.com/unitkit/unitkit/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor classifies err by the catalog entry that explains it.
func exitCodeFor(err error) types.ExitCode {
	is := issue.ForError(err)
	if is == nil {
		return types.ExitFailure
	}
	switch is.Id() {
	case issue.ConfigLoadFailedId, issue.InvalidDefinitionsId:
		return types.ExitConfig
	case issue.UndefinedSymbolId, issue.AmbiguousSymbolId, issue.SyntaxErrorId,
		issue.NotAUnitId, issue.NotAQuantityId:
		return types.ExitInput
	default:
		return types.ExitIncompatible
	}
}
