// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/unitkit/unitkit/internal/issue"
	"github.com/unitkit/unitkit/pkg/cueutil"
	"github.com/unitkit/unitkit/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Display.Separator != "*" || cfg.Display.Power != "**" || !cfg.Display.Division {
		t.Errorf("display defaults should reproduce canonical strings, got %+v", cfg.Display)
	}
	if !cfg.Units.NIST {
		t.Error("NIST tables should be enabled by default")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Display != DefaultConfig().Display {
		t.Errorf("Display = %+v, want defaults", cfg.Display)
	}
}

func TestLoad_ConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.cue"), `
display: {
	precision: 4
	grouping:  true
	locale:    "de"
	power:     "^"
}
units: {
	definitions: ["defs/extra.cue", "/abs/more.yaml"]
	nist:        false
	cache_ttl:   "5m"
}
ui: color_scheme: "none"
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != filepath.Join(dir, "config.cue") {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.Display.Precision != 4 || !cfg.Display.Grouping || cfg.Display.Locale != "de" || cfg.Display.Power != "^" {
		t.Errorf("Display = %+v", cfg.Display)
	}
	if cfg.Display.Separator != "*" {
		t.Errorf("omitted fields should keep defaults, separator = %q", cfg.Display.Separator)
	}
	if cfg.Units.NIST {
		t.Error("units.nist should be false")
	}
	if cfg.Units.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.Units.CacheTTL)
	}
	if cfg.UI.ColorScheme != ColorSchemeNone {
		t.Errorf("ColorScheme = %q", cfg.UI.ColorScheme)
	}

	paths := cfg.DefinitionPaths()
	if len(paths) != 2 {
		t.Fatalf("DefinitionPaths() = %v", paths)
	}
	if want := filepath.Join(dir, "defs", "extra.cue"); paths[0].String() != want {
		t.Errorf("DefinitionPaths()[0] = %q, want %q", paths[0], want)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	writeFile(t, path, `display: labels: true`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Display.Labels {
		t.Error("display.labels should be true")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.cue")
	writeFile(t, invalid, `display: precision: 40`)
	unknown := filepath.Join(dir, "unknown.cue")
	writeFile(t, unknown, `display: colour: "red"`)
	syntax := filepath.Join(dir, "syntax.cue")
	writeFile(t, syntax, `display: {`)

	tests := []struct {
		name       string
		path       string
		validation bool
	}{
		{"missing file", filepath.Join(dir, "missing.cue"), false},
		{"schema violation", invalid, true},
		{"unknown field", unknown, true},
		{"syntax error", syntax, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(tt.path)})
			if err == nil {
				t.Fatal("Load() should fail")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if !ae.HasSuggestions() {
				t.Error("config errors should carry suggestions")
			}
			if got := issue.ForError(err); got == nil || got.Id() != issue.ConfigLoadFailedId {
				t.Errorf("ForError() = %v, want ConfigLoadFailedId", got)
			}
			if tt.validation && !errors.Is(err, cueutil.ErrValidation) {
				t.Errorf("error should wrap cueutil.ErrValidation: %v", err)
			}
		})
	}
}

func TestLoad_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: "  "})
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("Load() error = %v, want ErrInvalidLoadOptions", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.cue"), `display: precision: 4`)
	t.Setenv("UNITKIT_DISPLAY_PRECISION", "6")
	t.Setenv("UNITKIT_DISPLAY_LABELS", "true")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Display.Precision != 6 {
		t.Errorf("Precision = %d, want 6 from the environment", cfg.Display.Precision)
	}
	if !cfg.Display.Labels {
		t.Error("Labels should be true from the environment")
	}
}

func TestLoad_EnvValidation(t *testing.T) {
	t.Setenv("UNITKIT_UI_COLOR_SCHEME", "purple")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("Load() error = %v, want ErrInvalidColorScheme", err)
	}
}

func TestGenerateCUE_Loads(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Display.Grouping = true
	cfg.Display.Locale = "fr"
	cfg.Units.Definitions = []types.FilesystemPath{"extra.toml"}
	cfg.Units.CacheTTL = time.Hour

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("Load() of generated config error = %v\n%s", err, GenerateCUE(cfg))
	}
	if loaded.Display != cfg.Display {
		t.Errorf("Display = %+v, want %+v", loaded.Display, cfg.Display)
	}
	if loaded.Units.CacheTTL != time.Hour || len(loaded.Units.Definitions) != 1 {
		t.Errorf("Units = %+v", loaded.Units)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path, err := ConfigFilePath(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	created, err := CreateDefaultConfig(path)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %v, %v; want true, nil", created, err)
	}
	writeFile(t, path, "// edited\n")

	created, err = CreateDefaultConfig(path)
	if err != nil || created {
		t.Fatalf("second CreateDefaultConfig() = %v, %v; want false, nil", created, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "// edited\n" {
		t.Error("CreateDefaultConfig() must not overwrite an existing file")
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/tmp/unitkit-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/unitkit-test" {
		t.Errorf("ConfigDir() = %q", dir)
	}

	Reset()
	dir, err = ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir() = %q, should end in %q", dir, AppName)
	}
}
