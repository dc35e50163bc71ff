// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory. os.UserHomeDir
// ignores HOME on some platforms, so tests and the CLI test harness set it
// directly.
var configDirOverride string

// Reset clears the override.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
