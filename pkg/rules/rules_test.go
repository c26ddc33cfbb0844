// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invowk/metarule/pkg/attribute"
	"github.com/invowk/metarule/pkg/component"
)

// recordingContext is a MetadataContext whose sink records every call.
type recordingContext struct {
	descriptors map[component.DescriptorKind]component.Descriptor
	added       []recordedVariant
	failOn      string
}

type recordedVariant struct {
	name  string
	base  string
	attrs attribute.Container
}

func (c *recordingContext) ID() component.ModuleID {
	return component.MustParseModuleID("org.sample:api:2.0")
}

func (c *recordingContext) Descriptor(kind component.DescriptorKind) (component.Descriptor, bool) {
	d, ok := c.descriptors[kind]
	return d, ok
}

func (c *recordingContext) Details() component.VariantSink { return c }

func (c *recordingContext) AddVariant(name, base string, configure func(*attribute.Builder)) error {
	if name == c.failOn {
		return errSinkFailed
	}
	b := attribute.NewBuilder()
	configure(b)
	attrs, err := b.Build()
	if err != nil {
		return err
	}
	c.added = append(c.added, recordedVariant{name: name, base: base, attrs: attrs})
	return nil
}

var errSinkFailed = errors.New("sink failed")

func ivyModule(id string) *component.Metadata {
	return component.NewMetadata(component.MustParseModuleID(id), "ivy", &component.IvyDescriptor{
		Configurations: []component.IvyConfiguration{
			{Name: "compile"},
			{Name: "default", Extends: []string{"compile"}},
		},
		Artifacts: []component.IvyArtifact{{Name: "api", Type: "jar", Ext: "jar"}},
	})
}

func TestIvyVariantDerivation_SkipsNonIvyModules(t *testing.T) {
	t.Parallel()

	ctx := &recordingContext{descriptors: map[component.DescriptorKind]component.Descriptor{
		component.KindMaven: &component.PomDescriptor{Packaging: "jar"},
	}}
	require.NoError(t, IvyVariantDerivation{}.Execute(ctx))
	assert.Empty(t, ctx.added)

	empty := &recordingContext{}
	require.NoError(t, IvyVariantDerivation{}.Execute(empty))
	assert.Empty(t, empty.added)
}

func TestIvyVariantDerivation_RegistersTwoVariants(t *testing.T) {
	t.Parallel()

	ctx := &recordingContext{descriptors: map[component.DescriptorKind]component.Descriptor{
		component.KindIvy: &component.IvyDescriptor{},
	}}
	require.NoError(t, IvyVariantDerivation{}.Execute(ctx))
	require.Len(t, ctx.added, 2)

	runtime := ctx.added[0]
	assert.Equal(t, RuntimeElements, runtime.name)
	assert.Equal(t, "default", runtime.base)
	assert.True(t, runtime.attrs.Equal(attribute.Of(
		attribute.LibraryElements, attribute.LibraryElementsJar,
		attribute.Category, attribute.CategoryLibrary,
		attribute.Usage, attribute.UsageJavaRuntime,
	)), "got %s", runtime.attrs)

	api := ctx.added[1]
	assert.Equal(t, APIElements, api.name)
	assert.Equal(t, "compile", api.base)
	assert.True(t, api.attrs.Equal(attribute.Of(
		attribute.LibraryElements, attribute.LibraryElementsJar,
		attribute.Category, attribute.CategoryLibrary,
		attribute.Usage, attribute.UsageJavaAPI,
	)), "got %s", api.attrs)
}

func TestIvyVariantDerivation_PropagatesSinkError(t *testing.T) {
	t.Parallel()

	ctx := &recordingContext{
		descriptors: map[component.DescriptorKind]component.Descriptor{component.KindIvy: &component.IvyDescriptor{}},
		failOn:      APIElements,
	}
	err := IvyVariantDerivation{}.Execute(ctx)
	assert.Same(t, errSinkFailed, err)
	assert.Len(t, ctx.added, 1)
}

func TestIvyVariantDerivation_IdempotentOnMetadata(t *testing.T) {
	t.Parallel()

	m := ivyModule("org.sample:api:2.0")
	rule := IvyVariantDerivation{}
	require.NoError(t, rule.Execute(m))
	require.NoError(t, rule.Execute(m))

	variants := m.Variants()
	require.Len(t, variants, 2)
	assert.Equal(t, RuntimeElements, variants[0].Name)
	assert.Equal(t, APIElements, variants[1].Name)
	assert.Equal(t, []string{"api-2.0.jar"}, variants[0].Files)
}

func TestIvyVariantDerivation_MissingCompileConfiguration(t *testing.T) {
	t.Parallel()

	m := component.NewMetadata(component.MustParseModuleID("org.sample:legacy:1.0"), "ivy", &component.IvyDescriptor{
		Configurations: []component.IvyConfiguration{{Name: "default"}},
		Artifacts:      []component.IvyArtifact{{Name: "legacy", Type: "jar", Ext: "jar"}},
	})

	err := IvyVariantDerivation{}.Execute(m)
	require.ErrorIs(t, err, component.ErrUnknownBase)
	var unknown *component.UnknownBaseError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, APIElements, unknown.Variant)
	assert.Equal(t, "compile", unknown.Base)

	// The runtime variant registered before the failure stays; no empty API
	// variant is left behind.
	variants := m.Variants()
	require.Len(t, variants, 1)
	assert.Equal(t, RuntimeElements, variants[0].Name)
	assert.Equal(t, []string{"legacy-1.0.jar"}, variants[0].Files)
}

func TestMavenVariantDerivation(t *testing.T) {
	t.Parallel()

	m := component.NewMetadata(component.MustParseModuleID("g:lib:1.0"), "central", &component.PomDescriptor{
		Packaging: "jar",
		Dependencies: []component.PomDependency{
			{Target: component.MustParseModuleID("g:rt:1.0"), Scope: component.ScopeRuntime},
		},
	})
	require.NoError(t, MavenVariantDerivation{}.Execute(m))

	api, ok := m.Variant(APIElements)
	require.True(t, ok)
	assert.Empty(t, api.Dependencies)
	runtime, ok := m.Variant(RuntimeElements)
	require.True(t, ok)
	assert.Len(t, runtime.Dependencies, 1)
	b, _ := runtime.Attributes.Get(attribute.Bundling)
	assert.Equal(t, attribute.BundlingExternal, b)

	ivy := ivyModule("org.sample:api:2.0")
	require.NoError(t, MavenVariantDerivation{}.Execute(ivy))
	assert.Empty(t, ivy.Variants())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	r, err := Lookup(IvyVariantDerivationID)
	require.NoError(t, err)
	assert.Equal(t, IvyVariantDerivationID, r.Name())

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownRule)
	assert.Contains(t, err.Error(), MavenVariantDerivationID)
	assert.Equal(t, []string{IvyVariantDerivationID, MavenVariantDerivationID}, Known())
}

func TestRegistry_RulesFor(t *testing.T) {
	t.Parallel()

	global := Func("global", func(component.MetadataContext) error { return nil })
	specific := Func("specific", func(component.MetadataContext) error { return nil })
	reg := NewRegistry().All(global).WithModule("org.sample:api", specific)

	names := func(rs []Rule) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Name())
		}
		return out
	}

	assert.Equal(t, []string{"global", "specific"}, names(reg.RulesFor(component.MustParseModuleID("org.sample:api:2.0"))))
	assert.Equal(t, []string{"global"}, names(reg.RulesFor(component.MustParseModuleID("org.sample:lib:1.0"))))
	assert.Equal(t, 2, reg.Len())
}

func TestEngine_ApplyRunsEveryModule(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	counter := Func("counter", func(component.MetadataContext) error {
		calls.Add(1)
		return nil
	})
	reg := NewRegistry().All(IvyVariantDerivation{}).All(counter)
	engine := NewEngine(reg, WithParallelism(2))

	var modules []*component.Metadata
	for i := range 10 {
		modules = append(modules, ivyModule(fmt.Sprintf("org.sample:m%d:1.0", i)))
	}

	require.NoError(t, engine.Apply(context.Background(), modules))
	assert.Equal(t, int32(10), calls.Load())
	for _, m := range modules {
		assert.Len(t, m.Variants(), 2, m.ID().String())
	}
}

func TestEngine_ApplyWrapsFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := Func("failing", func(ctx component.MetadataContext) error {
		if ctx.ID().Name == "bad" {
			return boom
		}
		return nil
	})
	engine := NewEngine(NewRegistry().All(failing))

	err := engine.Apply(context.Background(), []*component.Metadata{
		ivyModule("org.sample:good:1.0"),
		ivyModule("org.sample:bad:1.0"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "failing", ruleErr.Rule)
	assert.Equal(t, "org.sample:bad:1.0", ruleErr.Module.String())
}

func TestEngine_ApplyOneHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := NewEngine(NewRegistry().All(IvyVariantDerivation{}))
	m := ivyModule("org.sample:api:2.0")

	assert.ErrorIs(t, engine.ApplyOne(ctx, m), context.Canceled)
	assert.Empty(t, m.Variants())
}
