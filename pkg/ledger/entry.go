// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"fmt"
	"math"
	"slices"
	"unicode"

	"github.com/unitkit/unitkit/pkg/dimension"
	"github.com/unitkit/unitkit/pkg/prefix"
)

type (
	// Entry is the canonical definition of a single named unit. Entries are
	// created by ledger population and never modified; Units refer to them by
	// pointer.
	Entry struct {
		label      string
		abbr       string
		aliases    []string
		dim        dimension.Dimension
		multiplier float64
		offset     float64
		prefix     prefix.Index
	}

	// EntrySpec describes an Entry to create with NewEntry.
	EntrySpec struct {
		Label   string
		Abbr    string
		Aliases []string
		// Dimension is the base composition the entry reduces to.
		Dimension dimension.Dimension
		// Multiplier is the value in SI base units of one of this unit, prefix
		// included. Must be positive.
		Multiplier float64
		// Offset is the affine shift applied before scaling. Zero for
		// multiplicative units.
		Offset float64
		// Prefix is the SI prefix contained in the unit, prefix.None if any.
		Prefix prefix.Index
	}
)

// NewEntry validates spec and returns the Entry it describes.
func NewEntry(spec EntrySpec) (*Entry, error) {
	if !IsSymbol(spec.Label) {
		return nil, &InvalidEntryError{Label: spec.Label, Reason: "label is not a valid symbol"}
	}
	if spec.Abbr != "" && !IsSymbol(spec.Abbr) {
		return nil, &InvalidEntryError{Label: spec.Label, Reason: fmt.Sprintf("abbreviation %q is not a valid symbol", spec.Abbr)}
	}
	for _, a := range spec.Aliases {
		if !IsSymbol(a) {
			return nil, &InvalidEntryError{Label: spec.Label, Reason: fmt.Sprintf("alias %q is not a valid symbol", a)}
		}
	}
	if !(spec.Multiplier > 0) || math.IsInf(spec.Multiplier, 0) {
		return nil, &InvalidEntryError{Label: spec.Label, Reason: fmt.Sprintf("multiplier %g must be positive and finite", spec.Multiplier)}
	}
	if math.IsNaN(spec.Offset) || math.IsInf(spec.Offset, 0) {
		return nil, &InvalidEntryError{Label: spec.Label, Reason: "offset must be finite"}
	}
	if spec.Prefix != prefix.None && !spec.Prefix.IsValid() {
		return nil, &InvalidEntryError{Label: spec.Label, Reason: fmt.Sprintf("unknown prefix index %d", spec.Prefix)}
	}

	return &Entry{
		label:      spec.Label,
		abbr:       spec.Abbr,
		aliases:    slices.Clone(spec.Aliases),
		dim:        spec.Dimension,
		multiplier: spec.Multiplier,
		offset:     spec.Offset,
		prefix:     spec.Prefix,
	}, nil
}

// IsSymbol reports whether s can be read by the parser as a single symbol:
// a letter or underscore followed by letters, digits or underscores.
func IsSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !IsSymbolRune(r, i == 0) {
			return false
		}
	}
	return true
}

// IsSymbolRune reports whether r may appear in a symbol. Digits are accepted
// everywhere except at the start.
func IsSymbolRune(r rune, first bool) bool {
	if r == '_' || unicode.IsLetter(r) {
		return true
	}
	return !first && unicode.IsDigit(r)
}

// Label returns the canonical name, e.g. "kilometer".
func (e *Entry) Label() string { return e.label }

// Abbr returns the abbreviation, e.g. "km". Empty when the unit has none.
func (e *Entry) Abbr() string { return e.abbr }

// Aliases returns the additional names the entry is registered under.
func (e *Entry) Aliases() []string { return slices.Clone(e.aliases) }

// Symbol returns the abbreviation, or the label when there is none.
func (e *Entry) Symbol() string {
	if e.abbr != "" {
		return e.abbr
	}
	return e.label
}

// Symbols returns every symbol the entry claims: label, abbreviation, aliases.
func (e *Entry) Symbols() []string {
	out := make([]string, 0, 2+len(e.aliases))
	out = append(out, e.label)
	if e.abbr != "" && e.abbr != e.label {
		out = append(out, e.abbr)
	}
	for _, a := range e.aliases {
		if !slices.Contains(out, a) {
			out = append(out, a)
		}
	}
	return out
}

// Dimension returns the base composition of the entry.
func (e *Entry) Dimension() dimension.Dimension { return e.dim }

// Multiplier returns the value in SI base units of one of this unit.
func (e *Entry) Multiplier() float64 { return e.multiplier }

// Offset returns the affine shift of the entry.
func (e *Entry) Offset() float64 { return e.offset }

// HasOffset reports whether the entry is an affine scale such as Celsius.
func (e *Entry) HasOffset() bool { return e.offset != 0 }

// Prefix returns the SI prefix contained in the unit.
func (e *Entry) Prefix() prefix.Index { return e.prefix }

// IsPrefixed reports whether the entry carries an SI prefix.
func (e *Entry) IsPrefixed() bool { return e.prefix != prefix.None }

// ToBase converts v in this unit to SI base units: multiplier*(v+offset).
func (e *Entry) ToBase(v float64) float64 {
	return e.multiplier * (v + e.offset)
}

// FromBase converts bv in SI base units to this unit: bv/multiplier-offset.
func (e *Entry) FromBase(bv float64) float64 {
	return bv/e.multiplier - e.offset
}

// String returns the entry's symbol.
func (e *Entry) String() string { return e.Symbol() }

// withPrefix derives the prefixed variant of e, e.g. kilometer from meter.
// Every symbol of the prefix combines with the abbreviation and each alias.
func (e *Entry) withPrefix(idx prefix.Index) *Entry {
	p, _ := prefix.Get(idx)

	var abbr string
	var aliases []string
	for i, ps := range p.Symbols {
		if e.abbr != "" {
			if i == 0 {
				abbr = ps + e.abbr
			} else {
				aliases = append(aliases, ps+e.abbr)
			}
		}
		for _, a := range e.aliases {
			aliases = append(aliases, ps+a)
		}
	}

	return &Entry{
		label:      p.Name + e.label,
		abbr:       abbr,
		aliases:    aliases,
		dim:        e.dim,
		multiplier: e.multiplier * p.Multiplier,
		offset:     0,
		prefix:     idx,
	}
}
