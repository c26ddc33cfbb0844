// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the metarule CLI commands.
//
// Every command receives an *App, the composition root that loads the user
// configuration and the project file and wires the repository chain, rule
// engine and resolver from them.
package cmd
