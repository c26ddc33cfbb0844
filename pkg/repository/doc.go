// SPDX-License-Identifier: MPL-2.0

// Package repository loads module descriptors from file-system repositories.
//
// Two layouts are supported: Ivy (ivy-<rev>.xml next to its artifacts) and
// Maven (<name>-<version>.pom). A Chain queries repositories in declaration
// order and memoises parsed metadata in an LRU cache.
package repository
