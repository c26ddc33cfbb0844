// SPDX-License-Identifier: MPL-2.0

package component

import (
	"slices"
	"strings"
)

const (
	// KindIvy marks modules published with an ivy.xml descriptor.
	KindIvy DescriptorKind = "ivy"
	// KindMaven marks modules published with a POM.
	KindMaven DescriptorKind = "maven"

	// AllConfigurations is the Ivy wildcard matching every configuration.
	AllConfigurations = "*"
)

// Maven dependency scopes that take part in library variants.
const (
	ScopeCompile  = "compile"
	ScopeRuntime  = "runtime"
	ScopeProvided = "provided"
	ScopeTest     = "test"
	ScopeSystem   = "system"
	ScopeImport   = "import"
)

type (
	// DescriptorKind tags the repository format a module descriptor came from.
	DescriptorKind string

	// Descriptor is format-specific module metadata. Implementations are
	// treated as immutable once attached to a Metadata.
	Descriptor interface {
		Kind() DescriptorKind
	}

	// IvyConfiguration is a named configuration declared in an ivy.xml.
	IvyConfiguration struct {
		Name        string
		Extends     []string
		Visibility  string
		Description string
	}

	// IvyArtifact is a published artifact. An artifact without explicit
	// configurations belongs to every configuration.
	IvyArtifact struct {
		Name  string
		Type  string
		Ext   string
		Confs []string
	}

	// ConfMapping maps configurations of the declaring module to
	// configurations of the dependency ("compile->default").
	ConfMapping struct {
		From []string
		To   []string
	}

	// IvyDependency is a dependency declared in an ivy.xml.
	IvyDependency struct {
		Target   ModuleID
		Mappings []ConfMapping
	}

	// IvyDescriptor is the parsed content of an ivy.xml file.
	IvyDescriptor struct {
		Status         string
		Branch         string
		ExtraInfo      map[string]string
		Configurations []IvyConfiguration
		Artifacts      []IvyArtifact
		Dependencies   []IvyDependency
	}

	// PomDependency is a dependency declared in a POM.
	PomDependency struct {
		Target   ModuleID
		Scope    string
		Optional bool
	}

	// PomDescriptor is the parsed content of a POM file.
	PomDescriptor struct {
		Packaging    string
		Dependencies []PomDependency
	}
)

// Kind implements Descriptor.
func (d *IvyDescriptor) Kind() DescriptorKind { return KindIvy }

// Kind implements Descriptor.
func (d *PomDescriptor) Kind() DescriptorKind { return KindMaven }

// String returns the string representation of the DescriptorKind.
func (k DescriptorKind) String() string { return string(k) }

// Configuration looks up a configuration by name.
func (d *IvyDescriptor) Configuration(name string) (IvyConfiguration, bool) {
	for _, c := range d.Configurations {
		if c.Name == name {
			return c, true
		}
	}
	return IvyConfiguration{}, false
}

// Hierarchy returns name followed by every configuration it extends,
// transitively, each listed once. It returns nil when name is not declared.
func (d *IvyDescriptor) Hierarchy(name string) []string {
	if _, ok := d.Configuration(name); !ok {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		out = append(out, current)
		if c, ok := d.Configuration(current); ok {
			queue = append(queue, c.Extends...)
		}
	}
	return out
}

// ArtifactsFor returns the artifacts published in any of confs, in
// declaration order.
func (d *IvyDescriptor) ArtifactsFor(confs []string) []IvyArtifact {
	var out []IvyArtifact
	for _, a := range d.Artifacts {
		if len(a.Confs) == 0 || slices.Contains(a.Confs, AllConfigurations) || intersects(a.Confs, confs) {
			out = append(out, a)
		}
	}
	return out
}

// DependenciesFor returns the dependencies mapped from any of confs, with the
// target configurations the matching mappings point to.
func (d *IvyDescriptor) DependenciesFor(confs []string) []Dependency {
	var out []Dependency
	for _, dep := range d.Dependencies {
		mappings := dep.Mappings
		if len(mappings) == 0 {
			mappings = []ConfMapping{{From: []string{AllConfigurations}, To: []string{AllConfigurations}}}
		}
		var targets []string
		matched := false
		for _, m := range mappings {
			if slices.Contains(m.From, AllConfigurations) || intersects(m.From, confs) {
				matched = true
				for _, to := range m.To {
					if !slices.Contains(targets, to) {
						targets = append(targets, to)
					}
				}
			}
		}
		if matched {
			out = append(out, Dependency{Target: dep.Target, Configurations: targets})
		}
	}
	return out
}

// ParseConfMapping parses an Ivy conf attribute such as
// "compile->default;runtime->runtime,master". A side without "->" maps to
// the configuration of the same name.
func ParseConfMapping(s string) []ConfMapping {
	var out []ConfMapping
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, found := strings.Cut(part, "->")
		m := ConfMapping{From: splitList(from)}
		if found {
			m.To = splitList(to)
		} else {
			m.To = slices.Clone(m.From)
		}
		out = append(out, m)
	}
	return out
}

// DependenciesInScopes returns the POM dependencies whose scope is one of
// scopes. An empty scope counts as compile. Optional dependencies are skipped.
func (d *PomDescriptor) DependenciesInScopes(scopes ...string) []Dependency {
	var out []Dependency
	for _, dep := range d.Dependencies {
		scope := dep.Scope
		if scope == "" {
			scope = ScopeCompile
		}
		if dep.Optional || !slices.Contains(scopes, scope) {
			continue
		}
		out = append(out, Dependency{Target: dep.Target})
	}
	return out
}

// HasArtifact reports whether the POM packaging produces a jar.
func (d *PomDescriptor) HasArtifact() bool {
	return d.Packaging != "pom"
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
