// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/metarule/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/metarule/config.cue on macOS, %APPDATA%\metarule\config.cue
// on Windows), falling back to ./config.cue. Every file is validated against the embedded
// config_schema.cue. METARULE_* environment variables override file values.
package config
