// SPDX-License-Identifier: MPL-2.0

// Package attribute defines the attribute model used to describe and select
// module variants.
//
// A variant carries an immutable Container of Key/Value pairs. Consumers
// request a Container of their own and a Schema decides which candidate
// variants are compatible with it. The JVM ecosystem keys (usage, category,
// library elements, bundling) and their well-known values are predefined,
// together with a fluent JvmDetails helper for populating them.
//
// This package is a leaf dependency: it imports only the standard library.
package attribute
