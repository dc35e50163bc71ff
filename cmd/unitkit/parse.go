// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/pkg/parse"
	"github.com/unitkit/unitkit/pkg/unit"
)

func newParseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "parse <expression>",
		Aliases: []string{"eval"},
		Short:   "Show what an expression evaluates to",
		Long: `Parse an expression and describe the result: the normalized input, whether
it is a number, a unit or a quantity, its dimension, its multiplier and offset
relative to SI base units and the factors it is made of.`,
		Example: `  unitkit parse "J/(kg*K)"
  unitkit parse "kilometer per hour"
  unitkit parse "9.81 m/s^2 * 80 kg"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, app, strings.Join(args, " "))
		},
	}
}

func runParse(cmd *cobra.Command, app *App, text string) error {
	s, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, "load configuration", "")
	}

	normalized, err := parse.Normalize(text)
	if err != nil {
		return app.fail(cmd, err, "parse expression", text)
	}
	v, err := s.parser.ParseExpression(text)
	if err != nil {
		return app.fail(cmd, err, "parse expression", text)
	}

	w := cmd.OutOrStdout()
	field(w, "Expression", text)
	field(w, "Normalized", normalized)
	field(w, "Kind", v.Kind().String())

	switch v.Kind() {
	case parse.KindNumber:
		n, _ := v.Number()
		field(w, "Value", s.formatter.Value(n))
	case parse.KindUnit:
		u, _ := v.Unit()
		describeUnit(w, s, u)
	case parse.KindQuantity:
		q, _ := v.Quantity()
		field(w, "Value", s.formatter.Quantity(q))
		if base, err := unit.FromDimension(s.ledger, q.Unit().Dimension()); err == nil {
			field(w, "Base value", s.formatter.Quantity(unit.FromBase(q.BaseValue(), base)))
		}
		describeUnit(w, s, q.Unit())
	}
	return nil
}

func describeUnit(w io.Writer, s *session, u unit.Unit) {
	field(w, "Unit", orDimensionless(s.formatter.Unit(u)))
	field(w, "Label", orDimensionless(u.Label()))
	field(w, "Dimension", u.Dimension().String())
	field(w, "Multiplier", unit.FormatValue(u.Multiplier()))
	if u.HasOffset() {
		field(w, "Offset", unit.FormatValue(u.Offset()))
	}

	factors := u.Factors()
	if len(factors) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Factors"))
	for _, f := range factors {
		fmt.Fprintf(w, "  %s %s %s\n",
			symbolColumnStyle.Render(f.Entry.Symbol()),
			labelColumnStyle.Render(f.Entry.Label()),
			strconv.FormatFloat(f.Exponent, 'g', -1, 64))
	}
}

func field(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Width(12).Render(key+":"), SuccessStyle.Render(value))
}

func orDimensionless(s string) string {
	if s == "" {
		return "(dimensionless)"
	}
	return s
}
