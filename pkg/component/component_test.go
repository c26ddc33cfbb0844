// SPDX-License-Identifier: MPL-2.0

package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invowk/metarule/pkg/attribute"
)

func sampleIvy() *IvyDescriptor {
	return &IvyDescriptor{
		Status: "integration",
		Configurations: []IvyConfiguration{
			{Name: "compile"},
			{Name: "runtime", Extends: []string{"compile"}},
			{Name: "default", Extends: []string{"runtime"}},
		},
		Artifacts: []IvyArtifact{
			{Name: "api", Type: "jar", Ext: "jar", Confs: []string{"compile"}},
		},
		Dependencies: []IvyDependency{
			{Target: MustParseModuleID("org.sample:lib:1.0"), Mappings: ParseConfMapping("runtime->default")},
			{Target: MustParseModuleID("org.sample:shared:1.1"), Mappings: ParseConfMapping("compile->default")},
		},
	}
}

func TestParseModuleID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ModuleID
		wantErr bool
	}{
		{"org.sample:api:2.0", ModuleID{"org.sample", "api", "2.0"}, false},
		{" org.sample:api:2.0 ", ModuleID{"org.sample", "api", "2.0"}, false},
		{"org.sample:api", ModuleID{}, true},
		{"org.sample::2.0", ModuleID{}, true},
		{"org sample:api:2.0", ModuleID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseModuleID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidModuleID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "org.sample:api", got.Module())
		})
	}
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "2.0", -1},
		{"1.10", "1.9", 1},
		{"1.0.1", "1.0", 1},
		{"1.0-rc1", "1.0", -1},
		{"1.0", "1.0-rc1", 1},
		{"1.0-alpha", "1.0-beta", -1},
		{"2", "1.9.9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestParseConfMapping(t *testing.T) {
	t.Parallel()

	got := ParseConfMapping("compile->default; runtime->runtime,master;test")
	assert.Equal(t, []ConfMapping{
		{From: []string{"compile"}, To: []string{"default"}},
		{From: []string{"runtime"}, To: []string{"runtime", "master"}},
		{From: []string{"test"}, To: []string{"test"}},
	}, got)
}

func TestIvyDescriptor_Hierarchy(t *testing.T) {
	t.Parallel()

	ivy := sampleIvy()
	assert.Equal(t, []string{"default", "runtime", "compile"}, ivy.Hierarchy("default"))
	assert.Equal(t, []string{"compile"}, ivy.Hierarchy("compile"))
	assert.Nil(t, ivy.Hierarchy("missing"))
}

func TestIvyDescriptor_DependenciesFor(t *testing.T) {
	t.Parallel()

	ivy := sampleIvy()
	compileDeps := ivy.DependenciesFor([]string{"compile"})
	require.Len(t, compileDeps, 1)
	assert.Equal(t, "org.sample:shared:1.1", compileDeps[0].Target.String())
	assert.Equal(t, []string{"default"}, compileDeps[0].Configurations)

	runtimeDeps := ivy.DependenciesFor(ivy.Hierarchy("runtime"))
	assert.Len(t, runtimeDeps, 2)
}

func TestMetadata_AddVariantResolvesIvyBase(t *testing.T) {
	t.Parallel()

	m := NewMetadata(MustParseModuleID("org.sample:api:2.0"), "ivy", sampleIvy())
	err := m.AddVariant("runtimeElements", "default", func(b *attribute.Builder) {
		attribute.JVM(b).Library().AsJar().ProvidingRuntime()
	})
	require.NoError(t, err)

	v, ok := m.Variant("runtimeElements")
	require.True(t, ok)
	assert.Equal(t, "default", v.Base)
	assert.Equal(t, []string{"api-2.0.jar"}, v.Files)
	require.Len(t, v.Dependencies, 2)
	assert.Equal(t, "org.sample:lib:1.0", v.Dependencies[0].Target.String())
}

func TestMetadata_AddVariantReplacesByName(t *testing.T) {
	t.Parallel()

	m := NewMetadata(MustParseModuleID("org.sample:api:2.0"), "ivy", sampleIvy())
	require.NoError(t, m.AddVariant("apiElements", "compile", nil))
	require.NoError(t, m.AddVariant("apiElements", "compile", func(b *attribute.Builder) {
		attribute.JVM(b).ProvidingAPI()
	}))

	variants := m.Variants()
	require.Len(t, variants, 1)
	v, _ := variants[0].Attributes.Get(attribute.Usage)
	assert.Equal(t, attribute.UsageJavaAPI, v)
}

func TestMetadata_AddVariantRejectsBadInput(t *testing.T) {
	t.Parallel()

	m := NewMetadata(MustParseModuleID("org.sample:api:2.0"), "ivy", sampleIvy())
	assert.ErrorIs(t, m.AddVariant(" ", "compile", nil), ErrInvalidVariantName)
	assert.ErrorIs(t, m.AddVariant("x", "compile", func(b *attribute.Builder) {
		b.Attribute(attribute.Usage, "")
	}), attribute.ErrInvalidValue)
	assert.Empty(t, m.Variants())
}

func TestMetadata_AddVariantUnknownBase(t *testing.T) {
	t.Parallel()

	onlyDefault := &IvyDescriptor{
		Configurations: []IvyConfiguration{{Name: "default"}},
		Artifacts:      []IvyArtifact{{Name: "lib", Type: "jar", Ext: "jar"}},
	}
	tests := []struct {
		name       string
		descriptor Descriptor
		base       string
	}{
		{name: "ivy conf not declared", descriptor: onlyDefault, base: "compile"},
		{name: "maven scope outside library variants", descriptor: &PomDescriptor{Packaging: "jar"}, base: ScopeTest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMetadata(MustParseModuleID("g:lib:1.0"), "repo", tt.descriptor)
			err := m.AddVariant("apiElements", tt.base, nil)
			require.ErrorIs(t, err, ErrUnknownBase)
			var unknown *UnknownBaseError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.base, unknown.Base)
			assert.Equal(t, "apiElements", unknown.Variant)
			assert.Equal(t, "g:lib:1.0", unknown.Module.String())
			assert.Empty(t, m.Variants())
		})
	}

	m := NewMetadata(MustParseModuleID("g:lib:1.0"), "repo", onlyDefault)
	require.NoError(t, m.AddVariant("runtimeElements", "default", nil))
	require.NoError(t, m.AddVariant("attributesOnly", "", nil))
	v, ok := m.Variant("attributesOnly")
	require.True(t, ok)
	assert.Empty(t, v.Files)

	bare := NewMetadata(MustParseModuleID("g:lib:1.0"), "repo")
	assert.NoError(t, bare.AddVariant("apiElements", "compile", nil))
}

func TestMetadata_MavenBase(t *testing.T) {
	t.Parallel()

	pom := &PomDescriptor{
		Packaging: "jar",
		Dependencies: []PomDependency{
			{Target: MustParseModuleID("g:compile-dep:1"), Scope: ""},
			{Target: MustParseModuleID("g:runtime-dep:1"), Scope: ScopeRuntime},
			{Target: MustParseModuleID("g:test-dep:1"), Scope: ScopeTest},
			{Target: MustParseModuleID("g:optional-dep:1"), Optional: true},
		},
	}
	m := NewMetadata(MustParseModuleID("g:lib:3.1"), "central", pom)
	require.NoError(t, m.AddVariant("apiElements", ScopeCompile, nil))
	require.NoError(t, m.AddVariant("runtimeElements", ScopeRuntime, nil))

	api, _ := m.Variant("apiElements")
	runtime, _ := m.Variant("runtimeElements")
	assert.Equal(t, []string{"lib-3.1.jar"}, api.Files)
	assert.Len(t, api.Dependencies, 1)
	assert.Len(t, runtime.Dependencies, 2)
}

func TestMetadata_FreshDropsVariants(t *testing.T) {
	t.Parallel()

	m := NewMetadata(MustParseModuleID("org.sample:api:2.0"), "ivy", sampleIvy())
	require.NoError(t, m.AddVariant("apiElements", "compile", nil))

	fresh := m.Fresh()
	assert.Empty(t, fresh.Variants())
	_, ok := fresh.Descriptor(KindIvy)
	assert.True(t, ok)

	ivy, ok := DescriptorAs[*IvyDescriptor](fresh, KindIvy)
	require.True(t, ok)
	assert.Equal(t, "integration", ivy.Status)
	_, ok = DescriptorAs[*PomDescriptor](fresh, KindMaven)
	assert.False(t, ok)
}

func TestMetadata_LegacyVariant(t *testing.T) {
	t.Parallel()

	m := NewMetadata(MustParseModuleID("org.sample:api:2.0"), "ivy", sampleIvy())
	v := m.LegacyVariant("")
	assert.Equal(t, "legacy:default", v.Name)
	assert.Equal(t, []string{"api-2.0.jar"}, v.Files)
	assert.Len(t, v.Dependencies, 2)
}
