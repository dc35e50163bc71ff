// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "units.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "units.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, originalErr) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
		if got := err.Error(); got != "units.cue: some error" {
			t.Errorf("err = %q, want %q", got, "units.cue: some error")
		}
		if errors.Is(err, ErrValidation) {
			t.Error("plain errors should not become validation errors")
		}
	})

	t.Run("wrapped CUE error is formatted", func(t *testing.T) {
		t.Parallel()

		cueErr := cueerrors.Newf(token.NoPos, "conflicting values")
		err := FormatError(fmt.Errorf("loading: %w", cueErr), "units.cue")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected a validation error, got: %v", err)
		}
		if !strings.Contains(err.Error(), "conflicting values") {
			t.Errorf("error should carry the CUE message, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"empty path", []string{}, ""},
		{"single element", []string{"units"}, "units"},
		{"nested path", []string{"display", "precision"}, "display.precision"},
		{"array index", []string{"units", "3", "abbr"}, "units[3].abbr"},
		{"nested arrays", []string{"units", "0", "aliases", "1"}, "units[0].aliases[1]"},
		{"numeric first element", []string{"0", "label"}, "0.label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, false},
		{"within limit", 11, false},
		{"exact limit", 100, false},
		{"over limit", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "units.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrFileTooLarge) {
				t.Errorf("error should wrap ErrFileTooLarge, got: %v", err)
			}
			var sizeErr *FileTooLargeError
			if !errors.As(err, &sizeErr) || sizeErr.Size != 101 || sizeErr.MaxSize != 100 {
				t.Errorf("error should be *FileTooLargeError{101, 100}, got: %#v", err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	t.Run("Error with path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{FilePath: "config.cue", CUEPath: "display.precision", Message: "expected int"}
		if want := "config.cue: display.precision: expected int"; err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}
	})

	t.Run("Error without path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{FilePath: "config.cue", Message: "syntax error"}
		if want := "config.cue: syntax error"; err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}
	})

	t.Run("wraps ErrValidation", func(t *testing.T) {
		t.Parallel()

		var err error = &ValidationError{FilePath: "config.cue", Message: "x"}
		if !errors.Is(err, ErrValidation) {
			t.Error("ValidationError should wrap ErrValidation")
		}
	})
}
