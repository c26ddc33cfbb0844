// SPDX-License-Identifier: MPL-2.0

package attribute

import "slices"

// Schema holds per-key compatibility rules used when matching a requested
// Container against candidate variants. Two values of the same key are
// always compatible when equal; additional accepted candidates can be
// registered per requested value.
type Schema struct {
	compat map[Key]map[Value][]Value
}

// NewSchema creates a Schema that only accepts equal values.
func NewSchema() *Schema {
	return &Schema{compat: make(map[Key]map[Value][]Value)}
}

// JVMSchema returns the compatibility rules of the JVM ecosystem:
// an API consumer accepts a runtime variant, and a consumer asking for
// class directories accepts a jar.
func JVMSchema() *Schema {
	s := NewSchema()
	s.AddCompatibility(Usage, UsageJavaAPI, UsageJavaRuntime)
	s.AddCompatibility(LibraryElements, LibraryElementsClasses, LibraryElementsJar)
	s.AddCompatibility(LibraryElements, LibraryElementsResources, LibraryElementsJar)
	return s
}

// AddCompatibility declares that a consumer requesting requested for key
// accepts a candidate carrying candidate.
func (s *Schema) AddCompatibility(key Key, requested, candidate Value) {
	byValue, ok := s.compat[key]
	if !ok {
		byValue = make(map[Value][]Value)
		s.compat[key] = byValue
	}
	if !slices.Contains(byValue[requested], candidate) {
		byValue[requested] = append(byValue[requested], candidate)
	}
}

// Compatible reports whether candidate satisfies requested for key.
func (s *Schema) Compatible(key Key, requested, candidate Value) bool {
	if requested == candidate {
		return true
	}
	return slices.Contains(s.compat[key][requested], candidate)
}

// Matches reports whether candidate satisfies every requested attribute.
// Keys the candidate does not declare are treated as compatible.
func (s *Schema) Matches(requested, candidate Container) bool {
	for _, e := range requested.entries {
		v, ok := candidate.Get(e.key)
		if !ok {
			continue
		}
		if !s.Compatible(e.key, e.value, v) {
			return false
		}
	}
	return true
}

// ExactMatches reports whether candidate declares every requested attribute
// with an equal value.
func (s *Schema) ExactMatches(requested, candidate Container) bool {
	for _, e := range requested.entries {
		v, ok := candidate.Get(e.key)
		if !ok || v != e.value {
			return false
		}
	}
	return true
}
