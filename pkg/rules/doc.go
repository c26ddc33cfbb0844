// SPDX-License-Identifier: MPL-2.0

// Package rules implements component metadata rules and the engine that
// runs them.
//
// A Rule inspects one module through component.MetadataContext and may
// register variants on it. The built-in IvyVariantDerivation rule gives
// Ivy-described modules the apiElements/runtimeElements variants a normally
// published JVM library carries, so they take part in attribute-based
// variant selection. MavenVariantDerivation does the same for POMs.
//
// Rules are stateless and only touch the context they are handed, so the
// Engine runs distinct modules in parallel while keeping the rules of a
// single module in registration order.
package rules
