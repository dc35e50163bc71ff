// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unitkit",
		Short: "Convert and check physical quantities",
		Long: TitleStyle.Render("unitkit") + SubtitleStyle.Render(" - typed physical quantities") + `

unitkit parses unit expressions such as "km/h", "kg*m/s**2" or
"9.81 m/s^2", checks their dimensions and converts between units.

` + SubtitleStyle.Render("Examples:") + `
  unitkit convert "1.1 km/h" m/s       Convert a quantity
  unitkit convert 212 degF to degC     Words after "to" name the target
  unitkit parse "J/(kg*K)"             Show what an expression means
  unitkit units --filter meter         Search the unit ledger
  unitkit explain 6                    Explain an error in detail`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/unitkit/config.cue)")

	rootCmd.AddCommand(
		newConvertCommand(app),
		newParseCommand(app),
		newUnitsCommand(app),
		newExplainCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// errorHandler leaves errors already reported by a command alone and
// hands everything else (unknown flags, bad argument counts) to fang.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the CLI and exits the process. It is called by main.main.
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitUsage))
	}
}
