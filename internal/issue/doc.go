// SPDX-License-Identifier: MPL-2.0

// Package issue turns unit, ledger and parse errors into actionable messages.
//
// ActionableError carries the operation, the offending input and suggestions.
// The issue catalog holds longer Markdown explanations, rendered with glamour,
// keyed by a stable numeric Id that "unitkit explain" accepts.
package issue
