// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidModuleID is the sentinel error wrapped by InvalidModuleIDError.
var ErrInvalidModuleID = errors.New("invalid module id")

type (
	// ModuleID identifies a module version by group, name and version
	// ("org.sample:api:2.0").
	ModuleID struct {
		Group   string
		Name    string
		Version string
	}

	// InvalidModuleIDError is returned when a module coordinate cannot be parsed
	// or has empty parts. It wraps ErrInvalidModuleID for errors.Is() compatibility.
	InvalidModuleIDError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface for InvalidModuleIDError.
func (e *InvalidModuleIDError) Error() string {
	return fmt.Sprintf("invalid module id %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidModuleID for errors.Is() compatibility.
func (e *InvalidModuleIDError) Unwrap() error { return ErrInvalidModuleID }

// ParseModuleID parses a "group:name:version" coordinate.
func ParseModuleID(s string) (ModuleID, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return ModuleID{}, &InvalidModuleIDError{Value: s, Reason: "expected group:name:version"}
	}
	id := ModuleID{Group: parts[0], Name: parts[1], Version: parts[2]}
	if ok, errs := id.IsValid(); !ok {
		return ModuleID{}, errs[0]
	}
	return id, nil
}

// MustParseModuleID is like ParseModuleID but panics on error.
func MustParseModuleID(s string) ModuleID {
	id, err := ParseModuleID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the "group:name:version" form.
func (m ModuleID) String() string {
	return m.Group + ":" + m.Name + ":" + m.Version
}

// Module returns the version-less "group:name" key used for conflict resolution.
func (m ModuleID) Module() string {
	return m.Group + ":" + m.Name
}

// IsValid returns whether every coordinate part is non-empty and free of
// whitespace and separators.
func (m ModuleID) IsValid() (bool, []error) {
	for _, part := range []struct{ name, value string }{
		{"group", m.Group},
		{"name", m.Name},
		{"version", m.Version},
	} {
		if part.value == "" {
			return false, []error{&InvalidModuleIDError{Value: m.String(), Reason: part.name + " must not be empty"}}
		}
		if part.value == "." || part.value == ".." || strings.ContainsAny(part.value, ": \t\n/\\") {
			return false, []error{&InvalidModuleIDError{Value: m.String(), Reason: part.name + " contains an illegal character"}}
		}
	}
	return true, nil
}

// CompareVersions orders two version strings. Versions are split on '.', '-'
// and '_'; numeric parts compare numerically and rank above textual parts,
// textual parts compare lexically. When one version is a prefix of the
// other, a trailing textual qualifier ("1.0-rc1") ranks below the release
// ("1.0") while a trailing numeric part ("1.0.1") ranks above it.
func CompareVersions(a, b string) int {
	pa, pb := splitVersion(a), splitVersion(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := compareVersionPart(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa) == len(pb):
		return 0
	case len(pa) > len(pb):
		if isNumeric(pa[len(pb)]) {
			return 1
		}
		return -1
	default:
		if isNumeric(pb[len(pa)]) {
			return -1
		}
		return 1
	}
}

func splitVersion(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == '.' || r == '-' || r == '_' })
}

func compareVersionPart(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
