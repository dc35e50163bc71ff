// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/internal/config"
	"github.com/unitkit/unitkit/internal/issue"
)

// settableKeys lists the keys accepted by `unitkit config set`.
var settableKeys = []string{
	"display.labels", "display.separator", "display.power", "display.division",
	"display.parens", "display.precision", "display.grouping", "display.locale",
	"units.nist", "units.cache_ttl", "ui.verbose", "ui.color_scheme",
}

// newConfigCommand creates the `unitkit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage unitkit configuration",
		Long: `Manage unitkit configuration.

Configuration is stored in:
  - Linux: ~/.config/unitkit/config.cue
  - macOS: ~/Library/Application Support/unitkit/config.cue
  - Windows: %APPDATA%\unitkit\config.cue

A config.cue in the current directory is used when the user file is absent.
Environment variables prefixed with UNITKIT_ override any field.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, "load configuration", app.configPath)
			}
			showConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return app.fail(cmd, err, "locate configuration", "")
			}
			created, err := config.CreateDefaultConfig(path)
			if err != nil {
				return app.fail(cmd, err, "create configuration", path)
			}
			w := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(w, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return app.fail(cmd, err, "locate configuration", "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it.\n\nValid keys: " + strings.Join(settableKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, "load configuration", app.configPath)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

// configFile returns the file selected by --config, or the user config file.
func (a *App) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigFilePath("")
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	line := func(key string, value any) {
		fmt.Fprintf(w, "  %s: %s\n", key, valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("display"))
	line("labels", cfg.Display.Labels)
	line("separator", strconv.Quote(cfg.Display.Separator))
	line("power", cfg.Display.Power)
	line("division", cfg.Display.Division)
	line("parens", cfg.Display.Parens)
	line("precision", cfg.Display.Precision)
	line("grouping", cfg.Display.Grouping)
	line("locale", cfg.Display.Locale)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("units"))
	line("nist", cfg.Units.NIST)
	line("cache_ttl", cfg.Units.CacheTTL)
	if len(cfg.Units.Definitions) == 0 {
		fmt.Fprintf(w, "  definitions: %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		fmt.Fprintln(w, "  definitions:")
		for _, p := range cfg.DefinitionPaths() {
			fmt.Fprintf(w, "    - %s\n", valueStyle.Render(p.String()))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	line("verbose", cfg.UI.Verbose)
	line("color_scheme", cfg.UI.ColorScheme)
}

func setConfigValue(cmd *cobra.Command, app *App, key, value string) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, "load configuration", app.configPath)
	}

	if err := applySetting(cfg, key, value); err != nil {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("set configuration value").
			WithResource(key).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Valid keys: "+strings.Join(settableKeys, ", ")).
			Wrap(err).
			BuildError(), "", "")
	}
	if err := cfg.Validate(); err != nil {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("set configuration value").
			WithResource(key).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError(), "", "")
	}

	path := cfg.Source
	if path == "" {
		if path, err = app.configFile(); err != nil {
			return app.fail(cmd, err, "locate configuration", "")
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return app.fail(cmd, err, "save configuration", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// applySetting stores value under key in cfg. Values are checked for type
// only; Config.Validate checks ranges.
func applySetting(cfg *config.Config, key, value string) error {
	var err error
	switch key {
	case "display.labels":
		cfg.Display.Labels, err = strconv.ParseBool(value)
	case "display.separator":
		cfg.Display.Separator = value
	case "display.power":
		cfg.Display.Power = value
	case "display.division":
		cfg.Display.Division, err = strconv.ParseBool(value)
	case "display.parens":
		cfg.Display.Parens, err = strconv.ParseBool(value)
	case "display.precision":
		cfg.Display.Precision, err = strconv.Atoi(value)
	case "display.grouping":
		cfg.Display.Grouping, err = strconv.ParseBool(value)
	case "display.locale":
		cfg.Display.Locale = value
	case "units.nist":
		cfg.Units.NIST, err = strconv.ParseBool(value)
	case "units.cache_ttl":
		cfg.Units.CacheTTL, err = time.ParseDuration(value)
	case "ui.verbose":
		cfg.UI.Verbose, err = strconv.ParseBool(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}
