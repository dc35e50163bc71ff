// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a path to a configuration or unit definitions file.
	// It must be non-empty; the zero value is invalid.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath is empty or
	// whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the path.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns an error if the path is empty or whitespace-only.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Resolve returns p cleaned, joined to dir when p is relative. Definitions
// listed in a config file resolve against the directory of that file.
func (p FilesystemPath) Resolve(dir string) FilesystemPath {
	s := string(p)
	if filepath.IsAbs(s) || dir == "" {
		return FilesystemPath(filepath.Clean(s))
	}
	return FilesystemPath(filepath.Join(dir, s))
}

// Ext returns the lower-case file extension including the dot.
func (p FilesystemPath) Ext() string {
	return strings.ToLower(filepath.Ext(string(p)))
}

// Error implements the error interface.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
