// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/internal/config"
	"github.com/unitkit/unitkit/internal/issue"
	"github.com/unitkit/unitkit/pkg/format"
	"github.com/unitkit/unitkit/pkg/ledger"
	"github.com/unitkit/unitkit/pkg/parse"
	"github.com/unitkit/unitkit/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires the CLI. Every command handler receives it and builds the
	// ledger, parser and formatter through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		verbose    bool
		configPath string
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// session holds everything a command needs once configuration is loaded.
	session struct {
		cfg       *config.Config
		ledger    *ledger.Ledger
		parser    *parse.Parser
		formatter *format.Formatter
		logger    *slog.Logger
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newLogger returns an slog logger backed by charm log. Debug messages only
// show with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Prefix: "unitkit",
		Level:  level,
	}))
}

// loadConfig reads the configuration selected by --config.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
}

// newSession loads configuration and builds the ledger it describes.
func (a *App) newSession(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	logger := newLogger(a.stderr, a.verbose)

	l, err := buildLedger(cfg, logger)
	if err != nil {
		return nil, err
	}

	formatter, err := cfg.Display.Formatter()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("configure display").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	var parserOpts []parse.Option
	if cfg.Units.CacheTTL > 0 {
		parserOpts = append(parserOpts, parse.WithCacheTTL(cfg.Units.CacheTTL))
	}

	return &session{
		cfg:       cfg,
		ledger:    l,
		parser:    parse.New(l, parserOpts...),
		formatter: formatter,
		logger:    logger,
	}, nil
}

// buildLedger returns the shared default ledger unless the configuration
// asks for extra definitions or leaves out the NIST tables.
func buildLedger(cfg *config.Config, logger *slog.Logger) (*ledger.Ledger, error) {
	paths := cfg.DefinitionPaths()
	if len(paths) == 0 && cfg.Units.NIST {
		l, err := ledger.Default()
		if err != nil {
			return nil, fmt.Errorf("build default ledger: %w", err)
		}
		logger.Debug("using default ledger", "entries", l.Len())
		return l, nil
	}

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if !cfg.Units.NIST {
		opts = append(opts, ledger.WithoutNIST())
	}
	for _, p := range paths {
		data, err := os.ReadFile(p.String())
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("read unit definitions").
				WithResource(p.String()).
				WithIssue(issue.InvalidDefinitionsId).
				WithSuggestion("Check the paths listed under units.definitions in your config").
				WithSuggestion("Relative paths resolve against the directory of the config file").
				Wrap(err).
				BuildError()
		}
		logger.Debug("loading unit definitions", "path", p, "bytes", len(data))
		opts = append(opts, ledger.WithDefinitions(data, p.String()))
	}

	l, err := ledger.Build(opts...)
	if err != nil {
		return nil, issue.Explain(err, "build unit ledger", "")
	}
	logger.Debug("ledger ready", "entries", l.Len(), "ambiguous", len(l.Ambiguous()))
	return l, nil
}

// glamourStyle picks the style for rendered issues, falling back to auto
// detection when configuration is unavailable.
func (a *App) glamourStyle(ctx context.Context) string {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return config.ColorSchemeAuto.GlamourStyle()
	}
	return cfg.UI.ColorScheme.GlamourStyle()
}

// fail prints err for the user and returns the ExitError cobra hands back
// to Execute. Errors without context are explained with operation and
// resource first.
func (a *App) fail(cmd *cobra.Command, err error, operation, resource string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		ae = issue.Explain(err, operation, resource)
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.verbose))
	if a.verbose {
		if is := ae.Issue(); is != nil {
			rendered, renderErr := is.Render(a.glamourStyle(cmd.Context()))
			if renderErr != nil {
				slog.Warn("failed to render issue catalog entry", "issueID", is.Id(), "error", renderErr)
			} else {
				fmt.Fprint(w, rendered)
			}
		}
	}

	return &ExitError{Code: exitCodeFor(err), Err: err}
}
