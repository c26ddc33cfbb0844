// SPDX-License-Identifier: MPL-2.0

// Package project loads metarule.cue project files and assembles the
// repository chain and rule registry they describe.
//
// A project file declares where modules come from, which metadata rules run,
// and the root dependencies of each classpath:
//
//	repositories: [{kind: "ivy", url: "repo"}]
//	rules: ["ivy-variant-derivation"]
//	dependencies: {implementation: ["org.sample:api:2.0"]}
package project
