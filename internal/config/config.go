// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/unitkit/unitkit/internal/issue"
	"github.com/unitkit/unitkit/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "unitkit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides: UNITKIT_DISPLAY_PRECISION=4.
	EnvPrefix = "UNITKIT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the unitkit configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// (defaulting to ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path of config.cue inside dir, or inside
// ConfigDir when dir is empty.
func ConfigFilePath(dir string) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a viper instance holding the defaults and reading
// UNITKIT_* environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("display.labels", defaults.Display.Labels)
	v.SetDefault("display.separator", defaults.Display.Separator)
	v.SetDefault("display.power", defaults.Display.Power)
	v.SetDefault("display.division", defaults.Display.Division)
	v.SetDefault("display.parens", defaults.Display.Parens)
	v.SetDefault("display.precision", defaults.Display.Precision)
	v.SetDefault("display.grouping", defaults.Display.Grouping)
	v.SetDefault("display.locale", defaults.Display.Locale)
	v.SetDefault("units.definitions", []string{})
	v.SetDefault("units.nist", defaults.Units.NIST)
	v.SetDefault("units.cache_ttl", defaults.Units.CacheTTL)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading without touching
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := newViper()
	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		path := opts.ConfigFilePath.String()
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'unitkit config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, loadError(path, err)
		}
		resolvedPath = path
	} else {
		cuePath, err := ConfigFilePath(opts.ConfigDirPath.String())
		if err != nil {
			return nil, err
		}
		localCuePath := ConfigFileName + "." + ConfigFileExt

		for _, candidate := range []string{cuePath, localCuePath} {
			if !fileExists(candidate) {
				continue
			}
			if err := loadCUEIntoViper(v, candidate); err != nil {
				return nil, loadError(candidate, err)
			}
			resolvedPath = candidate
			break
		}
		// No config file: defaults and environment only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = resolvedPath

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check UNITKIT_* environment variables for typos").
			WithSuggestion("Run 'unitkit config show' to see the effective configuration").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion(fmt.Sprintf("Run 'unitkit explain %d' for details", issue.ConfigLoadFailedId)).
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// viper. The unified value is exported as JSON so viper sees plain numbers
// and strings, and its decode hooks (durations, slices) apply as they do
// for environment values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueutil.FormatError(err, path)
	}

	js, err := unified.MarshalJSON()
	if err != nil {
		return cueutil.FormatError(err, path)
	}

	v.SetConfigType("json")
	if err := v.MergeConfig(bytes.NewReader(js)); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path unless a
// file already exists there. It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if fileExists(path) {
		return false, nil
	}
	if err := writeConfig(path, DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes cfg to path, replacing any existing file.
func Save(path string, cfg *Config) error {
	return writeConfig(path, cfg)
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// unitkit configuration file\n")
	sb.WriteString("// Environment variables override any field: UNITKIT_DISPLAY_PRECISION=4\n\n")

	sb.WriteString("display: {\n")
	fmt.Fprintf(&sb, "\tlabels:    %v\n", cfg.Display.Labels)
	fmt.Fprintf(&sb, "\tseparator: %q\n", cfg.Display.Separator)
	fmt.Fprintf(&sb, "\tpower:     %q\n", cfg.Display.Power)
	fmt.Fprintf(&sb, "\tdivision:  %v\n", cfg.Display.Division)
	fmt.Fprintf(&sb, "\tparens:    %v\n", cfg.Display.Parens)
	fmt.Fprintf(&sb, "\tprecision: %d\n", cfg.Display.Precision)
	fmt.Fprintf(&sb, "\tgrouping:  %v\n", cfg.Display.Grouping)
	fmt.Fprintf(&sb, "\tlocale:    %q\n", cfg.Display.Locale)
	sb.WriteString("}\n")

	sb.WriteString("\nunits: {\n")
	if len(cfg.Units.Definitions) > 0 {
		sb.WriteString("\tdefinitions: [\n")
		for _, p := range cfg.Units.Definitions {
			fmt.Fprintf(&sb, "\t\t%q,\n", p)
		}
		sb.WriteString("\t]\n")
	}
	fmt.Fprintf(&sb, "\tnist: %v\n", cfg.Units.NIST)
	if cfg.Units.CacheTTL > 0 {
		fmt.Fprintf(&sb, "\tcache_ttl: %q\n", cfg.Units.CacheTTL.String())
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}
