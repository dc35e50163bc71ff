// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrValidation is the sentinel error wrapped by ValidationError.
	ErrValidation = errors.New("CUE validation failed")

	// ErrFileTooLarge is the sentinel error wrapped by FileTooLargeError.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// ValidationError represents a CUE validation error with context.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string

		// CUEPath is the JSON path to the invalid value (e.g., "units[3].multiplier").
		// Empty when the document as a whole is rejected.
		CUEPath string

		// Message is the validation error message. Multiple CUE errors are
		// joined one per line.
		Message string
	}

	// FileTooLargeError is returned when a document exceeds the configured size limit.
	FileTooLargeError struct {
		FilePath string
		Size     int64
		MaxSize  int64
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.FilePath, e.Size, e.MaxSize)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts a CUE error into a *ValidationError whose path uses
// JSON-path notation:
//
//   - units.cue: derived[4].multiplier: conflicting values 0 and >0
//   - config.cue: display.precision: conflicting values "3" and int
//
// Non-CUE errors are wrapped with the file path and returned as-is.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes plain errors, so test for a CUE error first.
	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	cueErrs := cueerrors.Errors(err)

	var lines []string
	firstPath := ""
	for i, e := range cueErrs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if i == 0 {
			firstPath = pathStr
		}
		if len(cueErrs) > 1 && pathStr != "" {
			msg = pathStr + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return &ValidationError{FilePath: filePath, CUEPath: firstPath, Message: lines[0]}
	}
	return &ValidationError{
		FilePath: filePath,
		Message:  "validation failed:\n  " + strings.Join(lines, "\n  "),
	}
}

// formatPath converts a CUE error path such as ["units", "3", "abbr"] to
// "units[3].abbr".
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteByte('.')
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileTooLargeError when data exceeds maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{FilePath: filename, Size: size, MaxSize: maxSize}
	}
	return nil
}
