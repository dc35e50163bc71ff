// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/pkg/dimension"
	"github.com/unitkit/unitkit/pkg/ledger"
)

type (
	unitsFlags struct {
		filter    string
		dimension string
		ambiguous bool
		limit     int
	}

	// entrySource exposes ledger entries to fuzzy matching. Each entry is
	// matched by its label, abbreviation and aliases.
	entrySource []*ledger.Entry
)

func (s entrySource) String(i int) string { return strings.Join(s[i].Symbols(), " ") }

func (s entrySource) Len() int { return len(s) }

func newUnitsCommand(app *App) *cobra.Command {
	var flags unitsFlags

	cmd := &cobra.Command{
		Use:   "units [filter]",
		Short: "List the units in the ledger",
		Long: `List the units known to the ledger, including units loaded from the
definition files named in the configuration. A filter matches labels,
abbreviations and aliases fuzzily.`,
		Example: `  unitkit units --filter meter
  unitkit units --dimension "m/s"
  unitkit units --ambiguous`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.filter = args[0]
			}
			return runUnits(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "fuzzy filter on labels and symbols")
	cmd.Flags().StringVarP(&flags.dimension, "dimension", "d", "", "only units with the dimension of this unit expression")
	cmd.Flags().BoolVar(&flags.ambiguous, "ambiguous", false, "list symbols shared by several units")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "show at most n units (0 shows all)")

	return cmd
}

func runUnits(cmd *cobra.Command, app *App, flags unitsFlags) error {
	s, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, "load configuration", "")
	}
	w := cmd.OutOrStdout()

	if flags.ambiguous {
		listAmbiguous(w, s.ledger)
		return nil
	}

	entries := s.ledger.Entries()
	if flags.dimension != "" {
		u, err := s.parser.ParseUnit(flags.dimension)
		if err != nil {
			return app.fail(cmd, err, "parse unit", flags.dimension)
		}
		entries = filterByDimension(entries, u.Dimension())
	}
	if flags.filter != "" {
		entries = fuzzyFilter(entries, flags.filter)
	}
	if flags.limit > 0 && len(entries) > flags.limit {
		entries = entries[:flags.limit]
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No units match."))
		return nil
	}

	fmt.Fprintf(w, "%s%s%s%s\n",
		headerStyle.Width(12).Render("Symbol"),
		headerStyle.Width(28).Render("Label"),
		headerStyle.Width(30).Render("Dimension"),
		headerStyle.Render("Aliases"))
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s%s%s\n",
			symbolColumnStyle.Render(fit(e.Symbol(), 12)),
			labelColumnStyle.Render(fit(e.Label(), 28)),
			dimColumnStyle.Render(fit(e.Dimension().String(), 30)),
			VerboseStyle.Render(strings.Join(e.Aliases(), ", ")))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d of %d units", len(entries), s.ledger.Len())))
	return nil
}

func filterByDimension(entries []*ledger.Entry, d dimension.Dimension) []*ledger.Entry {
	var out []*ledger.Entry
	for _, e := range entries {
		if e.Dimension().Equal(d) {
			out = append(out, e)
		}
	}
	return out
}

// fuzzyFilter keeps the entries matching pattern, best match first.
func fuzzyFilter(entries []*ledger.Entry, pattern string) []*ledger.Entry {
	matches := fuzzy.FindFrom(pattern, entrySource(entries))
	out := make([]*ledger.Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return out
}

func listAmbiguous(w io.Writer, l *ledger.Ledger) {
	symbols := l.Ambiguous()
	if len(symbols) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No ambiguous symbols."))
		return
	}
	for _, sym := range symbols {
		_, err := l.Lookup(sym)
		var amb *ledger.AmbiguousSymbolError
		if !errors.As(err, &amb) {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", symbolColumnStyle.Render(sym), strings.Join(amb.Candidates, ", "))
	}
}

// fit shortens s to leave at least one column of padding in a cell of the
// given width. Styled cells wrap instead of truncating.
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) < width {
		return s
	}
	return string(r[:width-2]) + "…"
}
