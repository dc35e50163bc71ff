// SPDX-License-Identifier: MPL-2.0

// Package prefix holds the static table of the twenty SI prefixes.
package prefix

import (
	"errors"
	"fmt"
)

// None is the Index of an entry that carries no prefix. It is the zero value.
const None Index = 0

// ErrUnknownPrefix is the sentinel error wrapped by UnknownPrefixError.
var ErrUnknownPrefix = errors.New("unknown SI prefix")

type (
	// Index identifies a prefix by its 1-based position in the table.
	Index int

	// Prefix is a named SI multiplier.
	Prefix struct {
		// Name is the full name, e.g. "kilo".
		Name string
		// Multiplier is the power of ten the prefix stands for.
		Multiplier float64
		// Symbols lists the accepted symbols, primary first.
		Symbols []string
	}

	// UnknownPrefixError is returned when a prefix name is not in the table.
	UnknownPrefixError struct {
		Name string
	}
)

var table = [...]Prefix{
	{Name: "yocto", Multiplier: 1e-24, Symbols: []string{"y"}},
	{Name: "zepto", Multiplier: 1e-21, Symbols: []string{"z"}},
	{Name: "atto", Multiplier: 1e-18, Symbols: []string{"a"}},
	{Name: "femto", Multiplier: 1e-15, Symbols: []string{"f"}},
	{Name: "pico", Multiplier: 1e-12, Symbols: []string{"p"}},
	{Name: "nano", Multiplier: 1e-9, Symbols: []string{"n"}},
	{Name: "micro", Multiplier: 1e-6, Symbols: []string{"u", "µ"}},
	{Name: "milli", Multiplier: 1e-3, Symbols: []string{"m"}},
	{Name: "centi", Multiplier: 1e-2, Symbols: []string{"c"}},
	{Name: "deci", Multiplier: 1e-1, Symbols: []string{"d"}},
	{Name: "deca", Multiplier: 1e1, Symbols: []string{"da"}},
	{Name: "hecto", Multiplier: 1e2, Symbols: []string{"h"}},
	{Name: "kilo", Multiplier: 1e3, Symbols: []string{"k"}},
	{Name: "mega", Multiplier: 1e6, Symbols: []string{"M"}},
	{Name: "giga", Multiplier: 1e9, Symbols: []string{"G"}},
	{Name: "tera", Multiplier: 1e12, Symbols: []string{"T"}},
	{Name: "peta", Multiplier: 1e15, Symbols: []string{"P"}},
	{Name: "exa", Multiplier: 1e18, Symbols: []string{"E"}},
	{Name: "zetta", Multiplier: 1e21, Symbols: []string{"Z"}},
	{Name: "yotta", Multiplier: 1e24, Symbols: []string{"Y"}},
}

// Error implements the error interface.
func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("unknown SI prefix %q", e.Name)
}

// Unwrap returns ErrUnknownPrefix for errors.Is() compatibility.
func (e *UnknownPrefixError) Unwrap() error { return ErrUnknownPrefix }

// Len returns the number of prefixes in the table.
func Len() int { return len(table) }

// All returns the indices of every prefix, smallest multiplier first.
func All() []Index {
	out := make([]Index, len(table))
	for i := range table {
		out[i] = Index(i + 1)
	}
	return out
}

// ByName returns the index of the prefix with the given full name.
func ByName(name string) (Index, error) {
	for i := range table {
		if table[i].Name == name {
			return Index(i + 1), nil
		}
	}
	return None, &UnknownPrefixError{Name: name}
}

// Get returns the prefix at idx. ok is false for None and out-of-range indices.
func Get(idx Index) (p Prefix, ok bool) {
	if !idx.IsValid() {
		return Prefix{}, false
	}
	return table[idx-1], true
}

// IsValid reports whether idx refers to a prefix in the table.
func (idx Index) IsValid() bool {
	return idx > 0 && int(idx) <= len(table)
}

// String returns the prefix name, or "none".
func (idx Index) String() string {
	if !idx.IsValid() {
		return "none"
	}
	return table[idx-1].Name
}

// Symbol returns the primary symbol of the prefix.
func (p Prefix) Symbol() string {
	return p.Symbols[0]
}
