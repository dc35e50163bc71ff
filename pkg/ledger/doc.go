// SPDX-License-Identifier: MPL-2.0

// Package ledger is the registry of known units.
//
// A Ledger maps symbols (labels, abbreviations and aliases) to Entries. It is
// populated once, from embedded CUE tables and optional user definition files,
// and is read-only afterwards, so one Ledger can be shared by any number of
// goroutines.
//
// Symbols claimed by more than one entry are kept in a separate ambiguous
// index. After population, an ambiguous symbol with exactly one unprefixed
// candidate resolves to that candidate ("ft" is foot, not femtoton); the rest
// stay ambiguous and Lookup reports every candidate.
package ledger
