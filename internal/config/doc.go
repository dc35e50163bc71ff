// SPDX-License-Identifier: MPL-2.0

// Package config handles unitkit configuration using Viper with CUE as the
// file format.
//
// Configuration is read from config.cue in the platform config directory
// (~/.config/unitkit on Linux, ~/Library/Application Support/unitkit on
// macOS, %APPDATA%\unitkit on Windows) or from the current directory, and is
// validated against the embedded config_schema.cue. UNITKIT_* environment
// variables override file values. The settings select the display format and
// the extra unit definition files loaded into the ledger.
package config
