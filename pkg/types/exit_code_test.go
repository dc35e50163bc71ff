// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "ok", value: ExitOK, wantValid: true},
		{name: "config", value: ExitConfig, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	want := map[ExitCode]string{
		ExitOK:           "0",
		ExitFailure:      "1",
		ExitUsage:        "2",
		ExitInput:        "3",
		ExitIncompatible: "4",
		ExitConfig:       "5",
	}
	for code, s := range want {
		if code.String() != s {
			t.Errorf("ExitCode.String() = %q, want %q", code.String(), s)
		}
	}
	if !ExitOK.IsSuccess() || ExitFailure.IsSuccess() {
		t.Error("only ExitOK is a success")
	}
}
