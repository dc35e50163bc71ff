// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/unitkit/unitkit/pkg/format"
	"github.com/unitkit/unitkit/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"
	// ColorSchemeNone renders help as plain text.
	ColorSchemeNone ColorScheme = "none"

	// PowerStars writes exponents as "m**2".
	PowerStars = "**"
	// PowerCaret writes exponents as "m^2".
	PowerCaret = "^"

	maxPrecision = 17
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDisplayConfig is the sentinel error wrapped by InvalidDisplayConfigError.
	ErrInvalidDisplayConfig = errors.New("invalid display config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal palette and the glamour style of
	// rendered help.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidDisplayConfigError collects the field errors of a DisplayConfig.
	InvalidDisplayConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the application configuration.
	Config struct {
		Display DisplayConfig `json:"display" mapstructure:"display"`
		Units   UnitsConfig   `json:"units" mapstructure:"units"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty for
		// built-in defaults.
		Source string `json:"-" mapstructure:"-"`
	}

	// DisplayConfig controls how units and quantities are printed.
	DisplayConfig struct {
		Labels    bool   `json:"labels" mapstructure:"labels"`
		Separator string `json:"separator" mapstructure:"separator"`
		Power     string `json:"power" mapstructure:"power"`
		Division  bool   `json:"division" mapstructure:"division"`
		Parens    bool   `json:"parens" mapstructure:"parens"`
		Precision int    `json:"precision" mapstructure:"precision"`
		Grouping  bool   `json:"grouping" mapstructure:"grouping"`
		Locale    string `json:"locale" mapstructure:"locale"`
	}

	// UnitsConfig controls how the unit ledger is built and queried.
	UnitsConfig struct {
		Definitions []types.FilesystemPath `json:"definitions,omitempty" mapstructure:"definitions"`
		NIST        bool                   `json:"nist" mapstructure:"nist"`
		CacheTTL    time.Duration          `json:"cache_ttl,omitempty" mapstructure:"cache_ttl"`
	}

	// UIConfig holds terminal preferences.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Separator: format.DefaultSeparator,
			Power:     PowerStars,
			Division:  true,
			Locale:    "en",
		},
		Units: UnitsConfig{
			NIST: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate returns an InvalidConfigError listing every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Display.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, p := range c.Units.Definitions {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("units.definitions[%d]: %w", i, err))
		}
	}
	if c.Units.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("units.cache_ttl: %s must not be negative", c.Units.CacheTTL))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefinitionPaths returns the unit definition files with relative paths
// resolved against the directory of Source.
func (c *Config) DefinitionPaths() []types.FilesystemPath {
	dir := ""
	if c.Source != "" {
		dir = filepath.Dir(c.Source)
	}
	out := make([]types.FilesystemPath, len(c.Units.Definitions))
	for i, p := range c.Units.Definitions {
		out[i] = p.Resolve(dir)
	}
	return out
}

// Validate returns an InvalidDisplayConfigError listing every invalid field.
func (d DisplayConfig) Validate() error {
	var errs []error
	if d.Separator == "" {
		errs = append(errs, errors.New("display.separator must not be empty"))
	}
	if d.Power != PowerStars && d.Power != PowerCaret {
		errs = append(errs, fmt.Errorf("display.power %q must be %q or %q", d.Power, PowerStars, PowerCaret))
	}
	if d.Precision < 0 || d.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("display.precision %d must be between 0 and %d", d.Precision, maxPrecision))
	}
	if _, err := d.Language(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidDisplayConfigError{FieldErrors: errs}
	}
	return nil
}

// Language parses Locale as a BCP 47 tag.
func (d DisplayConfig) Language() (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(d.Locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("display.locale %q: %w", d.Locale, err)
	}
	return tag, nil
}

// FormatOptions translates the display settings into formatter options.
func (d DisplayConfig) FormatOptions() ([]format.Option, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	opts := []format.Option{
		format.WithLabels(d.Labels),
		format.WithSeparator(d.Separator),
		format.WithPowerOperator(d.Power),
		format.WithDivision(d.Division),
		format.WithParens(d.Parens),
		format.WithPrecision(d.Precision),
	}
	if d.Grouping {
		tag, _ := d.Language()
		opts = append(opts, format.WithGrouping(tag))
	}
	return opts, nil
}

// Formatter returns a formatter configured by d.
func (d DisplayConfig) Formatter() (*format.Formatter, error) {
	opts, err := d.FormatOptions()
	if err != nil {
		return nil, err
	}
	return format.New(opts...), nil
}

// String returns the color scheme name.
func (s ColorScheme) String() string { return string(s) }

// Validate returns an error if s is not a known scheme.
func (s ColorScheme) Validate() error {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight, ColorSchemeNone:
		return nil
	default:
		return &InvalidColorSchemeError{Value: s}
	}
}

// GlamourStyle returns the glamour style name matching s.
func (s ColorScheme) GlamourStyle() string {
	switch s {
	case ColorSchemeDark, ColorSchemeLight:
		return string(s)
	case ColorSchemeNone:
		return "notty"
	default:
		return "auto"
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light, none)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidDisplayConfigError) Error() string {
	return joinFieldErrors("invalid display config", e.FieldErrors)
}

// Unwrap returns ErrInvalidDisplayConfig for errors.Is() compatibility.
func (e *InvalidDisplayConfigError) Unwrap() error { return ErrInvalidDisplayConfig }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return joinFieldErrors("invalid config", e.FieldErrors)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func joinFieldErrors(prefix string, errs []error) string {
	if len(errs) == 1 {
		return prefix + ": " + errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d errors: %s", prefix, len(errs), strings.Join(msgs, "; "))
}
