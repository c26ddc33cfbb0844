// SPDX-License-Identifier: MPL-2.0

package component

import (
	"maps"

	"github.com/invowk/metarule/pkg/attribute"
)

type (
	// VariantSink registers variants on a module.
	VariantSink interface {
		// AddVariant registers a variant named name derived from the base
		// configuration base. configure populates the variant's attributes
		// and may be nil. Registering an existing name replaces it.
		AddVariant(name, base string, configure func(*attribute.Builder)) error
	}

	// MetadataContext is what a component metadata rule sees of a module.
	MetadataContext interface {
		// ID returns the module being processed.
		ID() ModuleID
		// Descriptor returns the module's descriptor of the given kind.
		Descriptor(kind DescriptorKind) (Descriptor, bool)
		// Details returns the sink for new variants.
		Details() VariantSink
	}

	// Metadata is the resolution-time record of one module version.
	// It implements MetadataContext and VariantSink.
	Metadata struct {
		id          ModuleID
		repository  string
		descriptors map[DescriptorKind]Descriptor
		variants    []Variant
	}
)

// NewMetadata creates metadata for id backed by the given descriptors.
func NewMetadata(id ModuleID, repository string, descriptors ...Descriptor) *Metadata {
	m := &Metadata{
		id:          id,
		repository:  repository,
		descriptors: make(map[DescriptorKind]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		m.descriptors[d.Kind()] = d
	}
	return m
}

// ID implements MetadataContext.
func (m *Metadata) ID() ModuleID { return m.id }

// Repository returns the name of the repository the module was loaded from.
func (m *Metadata) Repository() string { return m.repository }

// Descriptor implements MetadataContext.
func (m *Metadata) Descriptor(kind DescriptorKind) (Descriptor, bool) {
	d, ok := m.descriptors[kind]
	return d, ok
}

// Details implements MetadataContext.
func (m *Metadata) Details() VariantSink { return m }

// DescriptorAs returns the descriptor of ctx whose concrete type is T.
func DescriptorAs[T Descriptor](ctx MetadataContext, kind DescriptorKind) (T, bool) {
	var zero T
	d, ok := ctx.Descriptor(kind)
	if !ok {
		return zero, false
	}
	typed, ok := d.(T)
	return typed, ok
}

// Variants returns the registered variants in registration order.
func (m *Metadata) Variants() []Variant {
	out := make([]Variant, len(m.variants))
	for i, v := range m.variants {
		out[i] = v.Clone()
	}
	return out
}

// Variant looks up a registered variant by name.
func (m *Metadata) Variant(name string) (Variant, bool) {
	for _, v := range m.variants {
		if v.Name == name {
			return v.Clone(), true
		}
	}
	return Variant{}, false
}

// Fresh returns a copy sharing the descriptors but with no variants, so a
// cached parse can be processed again by a new rule run.
func (m *Metadata) Fresh() *Metadata {
	return &Metadata{
		id:          m.id,
		repository:  m.repository,
		descriptors: maps.Clone(m.descriptors),
	}
}

// AddVariant implements VariantSink. The base is resolved against the
// module's descriptor: for Ivy it names a configuration whose artifacts and
// dependencies (including extended configurations) are copied; for Maven
// "compile" selects compile-scope dependencies and "runtime" or "default"
// selects compile and runtime scopes. A base the descriptor does not define
// yields *UnknownBaseError and leaves the variants unchanged. An empty base,
// or a module without descriptors, registers a variant with attributes only.
func (m *Metadata) AddVariant(name, base string, configure func(*attribute.Builder)) error {
	if err := validVariantName(name); err != nil {
		return err
	}

	b := attribute.NewBuilder()
	if configure != nil {
		configure(b)
	}
	attrs, err := b.Build()
	if err != nil {
		return err
	}

	v := Variant{Name: name, Base: base, Attributes: attrs}
	if base != "" {
		files, deps, ok := m.resolveBase(base)
		if !ok {
			return &UnknownBaseError{Module: m.id, Variant: name, Base: base}
		}
		v.Files, v.Dependencies = files, deps
	}

	for i := range m.variants {
		if m.variants[i].Name == name {
			m.variants[i] = v
			return nil
		}
	}
	m.variants = append(m.variants, v)
	return nil
}

// LegacyVariant builds the variant used when a module declares none:
// the Ivy configuration conf (or "default"), or the runtime scopes of a POM.
func (m *Metadata) LegacyVariant(conf string) Variant {
	if conf == "" || conf == AllConfigurations {
		conf = "default"
	}
	files, deps, _ := m.resolveBase(conf)
	return Variant{Name: "legacy:" + conf, Base: conf, Files: files, Dependencies: deps}
}

// resolveBase reports false when a descriptor exists but does not define
// base. Without descriptors every base resolves to nothing.
func (m *Metadata) resolveBase(base string) ([]string, []Dependency, bool) {
	if ivy, ok := m.descriptors[KindIvy].(*IvyDescriptor); ok {
		confs := ivy.Hierarchy(base)
		if confs == nil {
			return nil, nil, false
		}
		var files []string
		for _, a := range ivy.ArtifactsFor(confs) {
			files = append(files, m.artifactFileName(a))
		}
		return files, ivy.DependenciesFor(confs), true
	}

	if pom, ok := m.descriptors[KindMaven].(*PomDescriptor); ok {
		var deps []Dependency
		switch base {
		case ScopeCompile:
			deps = pom.DependenciesInScopes(ScopeCompile)
		case ScopeRuntime, "default":
			deps = pom.DependenciesInScopes(ScopeCompile, ScopeRuntime)
		default:
			return nil, nil, false
		}
		var files []string
		if pom.HasArtifact() {
			files = []string{m.id.Name + "-" + m.id.Version + ".jar"}
		}
		return files, deps, true
	}

	return nil, nil, true
}

func (m *Metadata) artifactFileName(a IvyArtifact) string {
	ext := a.Ext
	if ext == "" {
		ext = a.Type
	}
	if ext == "" {
		ext = "jar"
	}
	name := a.Name
	if name == "" {
		name = m.id.Name
	}
	return name + "-" + m.id.Version + "." + ext
}
