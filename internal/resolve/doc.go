// SPDX-License-Identifier: MPL-2.0

// Package resolve walks a module graph and selects one variant per module.
//
// Resolution is breadth-first and proceeds level by level. Each level's
// modules are loaded from a Loader in parallel and handed to the rule
// Engine, which registers their variants. A variant is then picked by
// attribute matching against the Request. Only one version of each
// "group:name" survives: the highest requested version wins. The selected
// modules are ordered topologically, so every module precedes its
// dependencies and the resulting classpath is deterministic.
//
// The package also reads and writes the TOML lock file recording a
// resolution.
package resolve
