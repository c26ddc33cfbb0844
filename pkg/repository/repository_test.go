// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invowk/metarule/internal/testutil"
	"github.com/invowk/metarule/pkg/component"
)

func TestIvyRepository_LoadSample(t *testing.T) {
	t.Parallel()

	ivyRoot, _ := testutil.SampleRepositories(t)
	repo := NewIvy("ivy-local", ivyRoot)

	m, err := repo.Load(context.Background(), component.MustParseModuleID("org.sample:api:2.0"))
	require.NoError(t, err)
	assert.Equal(t, "ivy-local", m.Repository())

	ivy, ok := component.DescriptorAs[*component.IvyDescriptor](m, component.KindIvy)
	require.True(t, ok)
	assert.Equal(t, "release", ivy.Status)
	assert.Equal(t, []string{"default", "runtime", "compile"}, ivy.Hierarchy("default"))
	require.Len(t, ivy.Dependencies, 2)
	assert.Equal(t, "org.sample:core:1.0", ivy.Dependencies[0].Target.String())
	assert.Empty(t, m.Variants())
}

func TestIvyRepository_ImplicitDefaults(t *testing.T) {
	t.Parallel()

	ivyRoot, _ := testutil.SampleRepositories(t)
	m, err := NewIvy("ivy", ivyRoot).Load(context.Background(), component.MustParseModuleID("org.sample:bare:1.0"))
	require.NoError(t, err)

	ivy, ok := component.DescriptorAs[*component.IvyDescriptor](m, component.KindIvy)
	require.True(t, ok)
	require.Len(t, ivy.Configurations, 1)
	assert.Equal(t, "default", ivy.Configurations[0].Name)
	require.Len(t, ivy.Artifacts, 1)
	assert.Equal(t, "bare", ivy.Artifacts[0].Name)
	assert.Equal(t, []string{"bare-1.0.jar"}, m.LegacyVariant("").Files)
}

func TestIvyRepository_DependencyOrgDefaultsToModuleOrg(t *testing.T) {
	t.Parallel()

	ivyRoot, _ := testutil.SampleRepositories(t)
	m, err := NewIvy("ivy", ivyRoot).Load(context.Background(), component.MustParseModuleID("org.sample:core:1.0"))
	require.NoError(t, err)

	ivy, _ := component.DescriptorAs[*component.IvyDescriptor](m, component.KindIvy)
	require.Len(t, ivy.Dependencies, 1)
	assert.Equal(t, "org.sample:util:1.1", ivy.Dependencies[0].Target.String())
}

func TestIvyRepository_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewIvy("ivy", t.TempDir()).Load(context.Background(), component.MustParseModuleID("org.sample:missing:1.0"))
	require.ErrorIs(t, err, ErrModuleNotFound)

	var notFound *ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"ivy"}, notFound.Searched)
}

func TestParseIvy_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      string
		wantLine int
		contains string
	}{
		{
			name:     "syntax error",
			doc:      "<ivy-module>\n<info organisation=\"o\" module=\"m\">\n</ivy-module>",
			wantLine: 3,
		},
		{
			name:     "missing organisation",
			doc:      `<ivy-module><info module="m"/></ivy-module>`,
			contains: "organisation",
		},
		{
			name: "undeclared parent configuration",
			doc: `<ivy-module><info organisation="o" module="m"/>
<configurations><conf name="runtime" extends="compile"/></configurations></ivy-module>`,
			contains: `extends undeclared configuration "compile"`,
		},
		{
			name: "dependency without revision",
			doc: `<ivy-module><info organisation="o" module="m"/>
<dependencies><dependency name="x"/></dependencies></ivy-module>`,
			contains: "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseIvy([]byte(tt.doc), "ivy.xml")
			require.ErrorIs(t, err, ErrInvalidDescriptor)

			var descErr *DescriptorError
			require.ErrorAs(t, err, &descErr)
			assert.Equal(t, "ivy.xml", descErr.Path)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, descErr.Line)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParseIvy_DefaultConfMappingAndExtraInfo(t *testing.T) {
	t.Parallel()

	doc := `<ivy-module version="2.0" xmlns:e="http://ant.apache.org/ivy/extra">
  <info organisation="o" module="m" revision="1" branch="main">
    <e:team>build</e:team>
  </info>
  <configurations defaultconfmapping="compile->default">
    <conf name="compile"/>
  </configurations>
  <publications>
    <artifact type="jar" conf="compile"/>
    <artifact name="m-sources" type="source" ext="jar" conf="sources"/>
  </publications>
  <dependencies>
    <dependency org="o" name="dep" rev="2"/>
  </dependencies>
</ivy-module>`

	desc, err := ParseIvy([]byte(doc), "ivy.xml")
	require.NoError(t, err)
	assert.Equal(t, "main", desc.Branch)
	assert.Equal(t, "build", desc.ExtraInfo["team"])
	assert.Equal(t, "m", desc.Artifacts[0].Name)
	assert.Equal(t, []string{"sources"}, desc.Artifacts[1].Confs)
	require.Len(t, desc.Dependencies, 1)
	assert.Equal(t, []component.ConfMapping{{From: []string{"compile"}, To: []string{"default"}}}, desc.Dependencies[0].Mappings)
}

func TestParseIvy_DefaultConfTakesPrecedence(t *testing.T) {
	t.Parallel()

	doc := `<ivy-module version="2.0">
  <info organisation="o" module="m" revision="1"/>
  <configurations defaultconfmapping="compile->default">
    <conf name="compile"/>
    <conf name="runtime" extends="compile"/>
  </configurations>
  <dependencies defaultconf="runtime->master">
    <dependency name="implicit" rev="1"/>
    <dependency name="explicit" rev="1" conf="compile->default"/>
  </dependencies>
</ivy-module>`

	desc, err := ParseIvy([]byte(doc), "ivy.xml")
	require.NoError(t, err)
	require.Len(t, desc.Dependencies, 2)
	assert.Equal(t, []component.ConfMapping{{From: []string{"runtime"}, To: []string{"master"}}}, desc.Dependencies[0].Mappings)
	assert.Equal(t, []component.ConfMapping{{From: []string{"compile"}, To: []string{"default"}}}, desc.Dependencies[1].Mappings)

	// Without any default the dependency maps every conf to every conf.
	desc, err = ParseIvy([]byte(`<ivy-module version="2.0">
  <info organisation="o" module="m" revision="1"/>
  <dependencies><dependency name="d" rev="1"/></dependencies>
</ivy-module>`), "ivy.xml")
	require.NoError(t, err)
	assert.Empty(t, desc.Dependencies[0].Mappings)
	deps := desc.DependenciesFor([]string{"default"})
	require.Len(t, deps, 1)
	assert.Equal(t, []string{component.AllConfigurations}, deps[0].Configurations)
}

func TestParseIvy_NestedConfElements(t *testing.T) {
	t.Parallel()

	doc := `<ivy-module version="2.0">
  <info organisation="o" module="m" revision="1"/>
  <configurations>
    <conf name="compile"/>
    <conf name="runtime" extends="compile"/>
    <conf name="sources"/>
  </configurations>
  <publications>
    <artifact name="m" type="jar" ext="jar"><conf name="compile"/><conf name="runtime"/></artifact>
    <artifact name="m-src" type="source" ext="jar" conf="sources"/>
  </publications>
  <dependencies>
    <dependency name="a" rev="1">
      <conf name="compile" mapped="default"/>
      <conf name="runtime"><mapped name="runtime"/><mapped name="master"/></conf>
    </dependency>
    <dependency name="b" rev="1"><conf name="runtime"/></dependency>
  </dependencies>
</ivy-module>`

	desc, err := ParseIvy([]byte(doc), "ivy.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"compile", "runtime"}, desc.Artifacts[0].Confs)
	assert.Equal(t, []string{"sources"}, desc.Artifacts[1].Confs)

	require.Len(t, desc.Dependencies, 2)
	assert.Equal(t, []component.ConfMapping{
		{From: []string{"compile"}, To: []string{"default"}},
		{From: []string{"runtime"}, To: []string{"runtime", "master"}},
	}, desc.Dependencies[0].Mappings)
	assert.Equal(t, []component.ConfMapping{{From: []string{"runtime"}, To: []string{"runtime"}}}, desc.Dependencies[1].Mappings)

	compileDeps := desc.DependenciesFor([]string{"compile"})
	require.Len(t, compileDeps, 1)
	assert.Equal(t, "o:a:1", compileDeps[0].Target.String())
}

func TestMavenRepository_LoadSample(t *testing.T) {
	t.Parallel()

	_, mavenRoot := testutil.SampleRepositories(t)
	m, err := NewMaven("central", mavenRoot).Load(context.Background(), component.MustParseModuleID("com.acme:app:1.0"))
	require.NoError(t, err)

	pom, ok := component.DescriptorAs[*component.PomDescriptor](m, component.KindMaven)
	require.True(t, ok)
	assert.Equal(t, "jar", pom.Packaging)
	require.Len(t, pom.Dependencies, 3)
	assert.Len(t, pom.DependenciesInScopes(component.ScopeCompile), 1)
	assert.Len(t, pom.DependenciesInScopes(component.ScopeCompile, component.ScopeRuntime), 2)

	_, isIvy := m.Descriptor(component.KindIvy)
	assert.False(t, isIvy)
}

func TestParsePom_PropertiesAndManagedVersions(t *testing.T) {
	t.Parallel()

	doc := `<project>
  <parent><groupId>com.acme</groupId><version>3.1</version></parent>
  <artifactId>svc</artifactId>
  <packaging>pom</packaging>
  <properties><guava.version>33.0</guava.version></properties>
  <dependencyManagement><dependencies>
    <dependency><groupId>com.acme</groupId><artifactId>managed</artifactId><version>${project.version}</version></dependency>
  </dependencies></dependencyManagement>
  <dependencies>
    <dependency><groupId>com.google</groupId><artifactId>guava</artifactId><version>${guava.version}</version></dependency>
    <dependency><groupId>${project.groupId}</groupId><artifactId>managed</artifactId></dependency>
    <dependency><groupId>x</groupId><artifactId>opt</artifactId><version>1</version><optional>true</optional></dependency>
  </dependencies>
</project>`

	pom, err := ParsePom([]byte(doc), "svc.pom")
	require.NoError(t, err)
	assert.False(t, pom.HasArtifact())
	require.Len(t, pom.Dependencies, 3)
	assert.Equal(t, "com.google:guava:33.0", pom.Dependencies[0].Target.String())
	assert.Equal(t, "com.acme:managed:3.1", pom.Dependencies[1].Target.String())
	assert.True(t, pom.Dependencies[2].Optional)
	assert.Len(t, pom.DependenciesInScopes(component.ScopeCompile), 2)
}

func TestParsePom_UnresolvedVersion(t *testing.T) {
	t.Parallel()

	doc := `<project><groupId>g</groupId><artifactId>a</artifactId><version>1</version>
<dependencies><dependency><groupId>g</groupId><artifactId>b</artifactId><version>${missing}</version></dependency></dependencies>
</project>`
	_, err := ParsePom([]byte(doc), "a.pom")
	require.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Contains(t, err.Error(), "unresolved property")
}

func TestNew(t *testing.T) {
	t.Parallel()

	r, err := New(component.KindIvy, "a", "/tmp")
	require.NoError(t, err)
	assert.Equal(t, component.KindIvy, r.Kind())

	r, err = New(component.KindMaven, "b", "/tmp")
	require.NoError(t, err)
	assert.Equal(t, "b", r.Name())

	_, err = New("p2", "c", "/tmp")
	assert.Error(t, err)
}

func TestChain_FirstRepositoryWins(t *testing.T) {
	t.Parallel()

	ivyRoot, mavenRoot := testutil.SampleRepositories(t)
	chain, err := NewChain([]Repository{NewMaven("central", mavenRoot), NewIvy("ivy", ivyRoot)})
	require.NoError(t, err)

	m, err := chain.Load(context.Background(), component.MustParseModuleID("org.sample:api:2.0"))
	require.NoError(t, err)
	assert.Equal(t, "ivy", m.Repository())

	_, err = chain.Load(context.Background(), component.MustParseModuleID("org.sample:nope:1.0"))
	var notFound *ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"central", "ivy"}, notFound.Searched)
}

func TestChain_CacheReturnsIndependentMetadata(t *testing.T) {
	t.Parallel()

	ivyRoot, _ := testutil.SampleRepositories(t)
	chain, err := NewChain([]Repository{NewIvy("ivy", ivyRoot)}, WithCacheSize(8))
	require.NoError(t, err)

	id := component.MustParseModuleID("org.sample:util:1.1")
	first, err := chain.Load(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, first.AddVariant("runtimeElements", "default", nil))

	// The descriptor is served from cache once the file is gone.
	require.NoError(t, os.RemoveAll(filepath.Join(ivyRoot, "org.sample", "util")))
	second, err := chain.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, second.Variants())
	assert.Len(t, first.Variants(), 1)
}

func TestChain_PropagatesDescriptorErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, "o", "m", "1", "ivy-1.xml"), "<ivy-module>")
	chain, err := NewChain([]Repository{NewIvy("ivy", root), NewIvy("other", t.TempDir())})
	require.NoError(t, err)

	_, err = chain.Load(context.Background(), component.MustParseModuleID("o:m:1"))
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.False(t, errors.Is(err, ErrModuleNotFound))
}

func TestNewChain_InvalidCacheSize(t *testing.T) {
	t.Parallel()

	_, err := NewChain(nil, WithCacheSize(0))
	assert.Error(t, err)
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ivyRoot, _ := testutil.SampleRepositories(t)
	_, err := NewIvy("ivy", ivyRoot).Load(ctx, component.MustParseModuleID("org.sample:api:2.0"))
	assert.ErrorIs(t, err, context.Canceled)
}
