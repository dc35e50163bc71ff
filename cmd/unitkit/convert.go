// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/internal/config"
	"github.com/unitkit/unitkit/pkg/format"
	"github.com/unitkit/unitkit/pkg/unit"
)

// targetKeyword separates the quantity from the target unit when both are
// given as one phrase.
const targetKeyword = " to "

type convertFlags struct {
	base      bool
	valueOnly bool
	labels    bool
	precision int
}

func newConvertCommand(app *App) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:     "convert <quantity> [unit]",
		Aliases: []string{"conv"},
		Short:   "Convert a quantity to another unit",
		Long: `Evaluate a quantity expression and convert it to another unit of the same
dimension. Without a target unit the result keeps the unit of the expression.`,
		Example: `  unitkit convert "1.1 km/h" m/s
  unitkit convert 212 degF to degC
  unitkit convert "3 mph + 2 km/h" --base
  unitkit convert "1 ly" km --precision 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, app, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.base, "base", false, "convert to coherent SI base units")
	cmd.Flags().BoolVar(&flags.valueOnly, "value", false, "print the number only")
	cmd.Flags().BoolVar(&flags.labels, "labels", false, "spell units with labels instead of symbols")
	cmd.Flags().IntVarP(&flags.precision, "precision", "p", 0, "significant digits (overrides display.precision)")

	return cmd
}

// splitConvertArgs separates the quantity expression from the target unit.
// "212 degF to degC" and ("212 degF", "degC") both name degC as target.
func splitConvertArgs(args []string) (expr, target string) {
	joined := strings.Join(args, " ")
	if i := strings.LastIndex(joined, targetKeyword); i >= 0 {
		return strings.TrimSpace(joined[:i]), strings.TrimSpace(joined[i+len(targetKeyword):])
	}
	if len(args) == 2 {
		return args[0], args[1]
	}
	return joined, ""
}

func runConvert(cmd *cobra.Command, app *App, flags convertFlags, args []string) error {
	s, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, "load configuration", "")
	}

	expr, target := splitConvertArgs(args)
	s.logger.Debug("convert", "expression", expr, "target", target)

	q, err := s.parser.ParseQuantity(expr)
	if err != nil {
		return app.fail(cmd, err, "parse quantity", expr)
	}

	var to unit.Unit
	switch {
	case flags.base && target != "":
		return app.fail(cmd, fmt.Errorf("--base cannot be combined with a target unit (%s)", target), "convert", expr)
	case flags.base:
		if to, err = unit.FromDimension(s.ledger, q.Unit().Dimension()); err != nil {
			return app.fail(cmd, err, "find base units", expr)
		}
	case target != "":
		if to, err = s.parser.ParseUnit(target); err != nil {
			return app.fail(cmd, err, "parse unit", target)
		}
	default:
		to = q.Unit()
	}

	result, err := q.To(to)
	if err != nil {
		return app.fail(cmd, err, "convert", expr)
	}

	formatter := s.formatter
	if cmd.Flags().Changed("labels") || cmd.Flags().Changed("precision") {
		if formatter, err = flagFormatter(cmd, s.cfg.Display, flags); err != nil {
			return app.fail(cmd, err, "configure display", "")
		}
	}

	out := formatter.Quantity(result)
	if flags.valueOnly {
		out = formatter.Value(result.Value())
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// flagFormatter builds a formatter from display with the --labels and
// --precision flags applied on top.
func flagFormatter(cmd *cobra.Command, display config.DisplayConfig, flags convertFlags) (*format.Formatter, error) {
	opts, err := display.FormatOptions()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("labels") {
		opts = append(opts, format.WithLabels(flags.labels))
	}
	if cmd.Flags().Changed("precision") {
		opts = append(opts, format.WithPrecision(flags.precision))
	}
	return format.New(opts...), nil
}
