// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"fmt"
	"log/slog"
	"sync"
)

type (
	buildOptions struct {
		logger      *slog.Logger
		definitions []definitionSource
		withoutNIST bool
	}

	definitionSource struct {
		data     []byte
		filename string
	}

	// Option configures Build.
	Option func(*buildOptions)
)

// defaultLedger is built on first use and shared process-wide.
var defaultLedger = sync.OnceValues(func() (*Ledger, error) {
	return Build()
})

// WithLogger sets the logger used for population diagnostics.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithDefinitions adds the units of a user definition file. The filename
// extension selects the format (.cue, .json, .yaml, .yml, .toml) and appears
// in error messages. Definitions are registered after the built-in tables.
func WithDefinitions(data []byte, filename string) Option {
	return func(o *buildOptions) {
		o.definitions = append(o.definitions, definitionSource{data: data, filename: filename})
	}
}

// WithoutNIST skips the NIST/customary tables and the extra units, leaving
// only SI base and derived units.
func WithoutNIST() Option {
	return func(o *buildOptions) {
		o.withoutNIST = true
	}
}

// Build populates a new Ledger: SI base units with their prefixes, gram,
// SI derived units, NIST/customary groups, extra units and finally user
// definitions, then resolves ambiguous symbols.
func Build(opts ...Option) (*Ledger, error) {
	options := buildOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}

	t, err := loadTables()
	if err != nil {
		return nil, err
	}

	l := New()
	l.logger = options.logger

	if err := l.registerAll(t.Base); err != nil {
		return nil, fmt.Errorf("base units: %w", err)
	}
	if err := l.registerAll(t.Derived); err != nil {
		return nil, fmt.Errorf("derived units: %w", err)
	}
	if !options.withoutNIST {
		for _, g := range t.NIST {
			if err := l.registerAll(g.Units); err != nil {
				return nil, fmt.Errorf("%s units: %w", g.Name, err)
			}
		}
		if err := l.registerAll(t.Extra); err != nil {
			return nil, fmt.Errorf("extra units: %w", err)
		}
	}

	for _, src := range options.definitions {
		defs, err := ParseDefinitions(src.data, src.filename)
		if err != nil {
			return nil, err
		}
		if err := l.registerAll(defs.Units); err != nil {
			return nil, fmt.Errorf("%s: %w", src.filename, err)
		}
		l.logger.Debug("loaded unit definitions", "file", src.filename, "units", len(defs.Units))
	}

	l.ResolveAmbiguities()
	l.logger.Debug("ledger built", "entries", l.Len(), "ambiguous", len(l.ambiguous))
	return l, nil
}

// Default returns the process-wide Ledger built from the built-in tables.
// The first call builds it; later calls return the same Ledger and error.
func Default() (*Ledger, error) {
	return defaultLedger()
}

// MustDefault is like Default but panics if the built-in tables are invalid.
func MustDefault() *Ledger {
	l, err := Default()
	if err != nil {
		panic(err)
	}
	return l
}
