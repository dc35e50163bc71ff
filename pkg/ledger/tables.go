// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	_ "embed"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/unitkit/unitkit/pkg/cueutil"
	"github.com/unitkit/unitkit/pkg/dimension"
	"github.com/unitkit/unitkit/pkg/prefix"
)

var (
	//go:embed units_schema.cue
	schemaCUE []byte

	//go:embed units.cue
	unitsCUE []byte
)

type (
	// Definition is one unit as written in a CUE table or a user definition file.
	Definition struct {
		Label        string             `json:"label"`
		Abbr         string             `json:"abbr,omitempty"`
		Aliases      []string           `json:"aliases,omitempty"`
		Base         map[string]float64 `json:"base"`
		Multiplier   float64            `json:"multiplier"`
		Offset       float64            `json:"offset"`
		Prefixed     bool               `json:"prefixed"`
		Prefix       string             `json:"prefix,omitempty"`
		SkipPrefixes []string           `json:"skip_prefixes,omitempty"`
	}

	// Group is a named set of NIST/customary units sharing a base composition.
	Group struct {
		Name  string       `json:"name"`
		Units []Definition `json:"units"`
	}

	// Definitions is the root of a user definition file.
	Definitions struct {
		Units []Definition `json:"units"`
	}

	tables struct {
		Base    []Definition `json:"base"`
		Derived []Definition `json:"derived"`
		NIST    []Group      `json:"nist"`
		Extra   []Definition `json:"extra"`
	}
)

func loadTables() (*tables, error) {
	result, err := cueutil.ParseAndDecode[tables](schemaCUE, unitsCUE, "#Units", cueutil.WithFilename("units.cue"))
	if err != nil {
		return nil, fmt.Errorf("built-in unit tables: %w", err)
	}
	return result.Value, nil
}

// ParseDefinitions decodes a user definition file. The format follows the
// file extension: CUE, JSON, YAML or TOML.
func ParseDefinitions(data []byte, filename string) (*Definitions, error) {
	normalized, err := cueutil.Normalize(filename, data)
	if err != nil {
		return nil, err
	}
	result, err := cueutil.ParseAndDecode[Definitions](schemaCUE, normalized, "#Definitions", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Entry converts the definition into an unprefixed Entry.
func (d Definition) Entry() (*Entry, error) {
	dim, err := dimension.FromNames(d.Base)
	if err != nil {
		return nil, &InvalidEntryError{Label: d.Label, Reason: err.Error()}
	}

	idx := prefix.None
	if d.Prefix != "" {
		if idx, err = prefix.ByName(d.Prefix); err != nil {
			return nil, &InvalidEntryError{Label: d.Label, Reason: err.Error()}
		}
	}

	multiplier := d.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}

	return NewEntry(EntrySpec{
		Label:      d.Label,
		Abbr:       d.Abbr,
		Aliases:    d.Aliases,
		Dimension:  dim,
		Multiplier: multiplier,
		Offset:     d.Offset,
		Prefix:     idx,
	})
}

// register adds the definition and, when it is flagged as prefixed, one entry
// per SI prefix not listed in SkipPrefixes.
func (l *Ledger) register(d Definition) error {
	e, err := d.Entry()
	if err != nil {
		return err
	}
	if d.Prefixed && e.HasOffset() {
		return &InvalidEntryError{Label: d.Label, Reason: "units with an offset cannot be prefixed"}
	}
	if err := l.AddEntry(e); err != nil {
		return err
	}
	if !d.Prefixed {
		return nil
	}

	for _, idx := range prefix.All() {
		if slices.Contains(d.SkipPrefixes, idx.String()) {
			continue
		}
		if err := l.AddEntry(e.withPrefix(idx)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) registerAll(defs []Definition) error {
	for _, d := range defs {
		if err := l.register(d); err != nil {
			return err
		}
	}
	return nil
}
