// SPDX-License-Identifier: MPL-2.0

// Package component models resolved modules: their identity, the
// format-specific descriptors they were published with, and the variants
// under which they can be selected.
//
// Metadata is the per-module record that component metadata rules operate on.
// Rules query it through the MetadataContext interface and register new
// variants through its VariantSink. A Metadata value is not safe for
// concurrent mutation; callers process each module on a single goroutine.
package component
