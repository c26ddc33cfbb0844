// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces ConfigDir's platform lookup when non-empty.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir. Tests use it to isolate
// config.cue from the real user directory.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset drops any override set with SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}
