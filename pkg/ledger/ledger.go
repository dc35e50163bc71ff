// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/unitkit/unitkit/pkg/dimension"
)

// maxSuggestions caps the did-you-mean list attached to UndefinedSymbolError.
const maxSuggestions = 3

// Ledger is the symbol registry. Build returns a populated Ledger; New returns
// an empty one for hand-built registries. A Ledger must not be modified once it
// is shared.
type Ledger struct {
	entries   []*Entry
	byLabel   map[string]*Entry
	unique    map[string]*Entry
	ambiguous map[string][]*Entry
	bases     [dimension.Count]*Entry
	logger    *slog.Logger
}

// New returns an empty Ledger that logs through slog.Default().
func New() *Ledger {
	return &Ledger{
		byLabel:   make(map[string]*Entry),
		unique:    make(map[string]*Entry),
		ambiguous: make(map[string][]*Entry),
		logger:    slog.Default(),
	}
}

// AddEntry registers e under its label, abbreviation and aliases.
//
// A symbol already claimed by another entry becomes ambiguous. Registering
// the same entry twice is a no-op; registering a different entry under an
// existing label returns a *DuplicateRegistrationError.
func (l *Ledger) AddEntry(e *Entry) error {
	if existing, ok := l.byLabel[e.label]; ok {
		if existing == e {
			return nil
		}
		return &DuplicateRegistrationError{Label: e.label}
	}

	l.byLabel[e.label] = e
	l.entries = append(l.entries, e)
	for _, s := range e.Symbols() {
		l.claim(s, e)
	}

	for _, b := range dimension.Bases() {
		if l.bases[b] == nil && e.multiplier == 1 && e.offset == 0 && e.dim == dimension.Of(b) {
			l.bases[b] = e
		}
	}
	return nil
}

func (l *Ledger) claim(symbol string, e *Entry) {
	if candidates, ok := l.ambiguous[symbol]; ok {
		if !slices.Contains(candidates, e) {
			l.ambiguous[symbol] = append(candidates, e)
		}
		return
	}
	if current, ok := l.unique[symbol]; ok {
		if current == e {
			return
		}
		delete(l.unique, symbol)
		l.ambiguous[symbol] = []*Entry{current, e}
		return
	}
	l.unique[symbol] = e
}

// ResolveAmbiguities demotes every ambiguous symbol with exactly one
// unprefixed candidate back into the unique index.
func (l *Ledger) ResolveAmbiguities() {
	symbols := maps.Keys(l.ambiguous)
	slices.Sort(symbols)

	for _, s := range symbols {
		candidates := l.ambiguous[s]
		var winner *Entry
		unprefixed := 0
		for _, c := range candidates {
			if !c.IsPrefixed() {
				winner = c
				unprefixed++
			}
		}
		if unprefixed != 1 {
			l.logger.Debug("symbol remains ambiguous", "symbol", s, "candidates", labels(candidates))
			continue
		}
		delete(l.ambiguous, s)
		l.unique[s] = winner
		l.logger.Debug("resolved ambiguous symbol", "symbol", s, "entry", winner.label, "candidates", len(candidates))
	}
}

// Lookup returns the entry registered under symbol.
//
// It fails with *AmbiguousSymbolError when several entries claim the symbol
// and with *UndefinedSymbolError when none does.
func (l *Ledger) Lookup(symbol string) (*Entry, error) {
	if e, ok := l.unique[symbol]; ok {
		return e, nil
	}
	if candidates, ok := l.ambiguous[symbol]; ok {
		return nil, &AmbiguousSymbolError{Symbol: symbol, Candidates: labels(candidates)}
	}
	return nil, &UndefinedSymbolError{Symbol: symbol, Suggestions: l.Suggest(symbol, maxSuggestions)}
}

// Has reports whether symbol resolves to exactly one entry.
func (l *Ledger) Has(symbol string) bool {
	_, ok := l.unique[symbol]
	return ok
}

// Entries returns every registered entry in registration order.
func (l *Ledger) Entries() []*Entry {
	return slices.Clone(l.entries)
}

// Len returns the number of registered entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Symbols returns every symbol that resolves to a single entry, sorted.
func (l *Ledger) Symbols() []string {
	symbols := maps.Keys(l.unique)
	slices.Sort(symbols)
	return symbols
}

// Ambiguous returns the symbols that remain ambiguous, sorted.
func (l *Ledger) Ambiguous() []string {
	symbols := maps.Keys(l.ambiguous)
	slices.Sort(symbols)
	return symbols
}

// BaseEntry returns the coherent SI unit of base dimension b (kilogram for
// mass). ok is false when no such entry has been registered.
func (l *Ledger) BaseEntry(b dimension.BaseDimension) (e *Entry, ok bool) {
	if !b.IsValid() {
		return nil, false
	}
	e = l.bases[b]
	return e, e != nil
}

// Suggest returns up to n known symbols resembling symbol. Case-insensitive
// exact matches come first, then fuzzy matches by score.
func (l *Ledger) Suggest(symbol string, n int) []string {
	if symbol == "" || n <= 0 {
		return nil
	}
	symbols := l.Symbols()

	var out []string
	for _, s := range symbols {
		if s != symbol && strings.EqualFold(s, symbol) {
			out = append(out, s)
		}
	}

	matches := fuzzy.Find(symbol, symbols)
	sort.Stable(matches)
	for _, m := range matches {
		if len(out) >= n {
			break
		}
		if m.Str != symbol && !slices.Contains(out, m.Str) {
			out = append(out, m.Str)
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// String summarises the ledger size.
func (l *Ledger) String() string {
	return fmt.Sprintf("Ledger(%d entries, %d symbols, %d ambiguous)", len(l.entries), len(l.unique), len(l.ambiguous))
}

func labels(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.label
	}
	return out
}
