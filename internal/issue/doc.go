// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for a fix. Failures that deserve longer guidance link an entry
// of the markdown issue catalog, rendered for the terminal with glamour.
package issue
