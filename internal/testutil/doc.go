// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test instead of
// returning errors, plus on-disk Ivy and Maven repository fixtures
// (WriteIvyModule, WritePom, SampleRepositories).
package testutil
