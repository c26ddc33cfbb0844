// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// StandardConfigurations declares the compile/runtime/default configuration
// chain most Ivy modules publish.
const StandardConfigurations = `<configurations>
    <conf name="compile"/>
    <conf name="runtime" extends="compile"/>
    <conf name="default" extends="runtime"/>
  </configurations>`

// WriteIvyModule writes <root>/<org>/<module>/<rev>/ivy-<rev>.xml for the
// "org:module:rev" coordinates. body is inserted after the info element.
func WriteIvyModule(t testing.TB, root, coords, body string) string {
	t.Helper()
	org, module, rev := splitCoords(t, coords)
	path := filepath.Join(root, org, module, rev, "ivy-"+rev+".xml")
	MustWriteFile(t, path, fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ivy-module version="2.0">
  <info organisation=%q module=%q revision=%q status="release"/>
  %s
</ivy-module>
`, org, module, rev, body))
	return path
}

// WritePom writes <root>/<group path>/<artifact>/<version>/<artifact>-<version>.pom
// for the "group:artifact:version" coordinates. body is inserted after the
// coordinate elements.
func WritePom(t testing.TB, root, coords, body string) string {
	t.Helper()
	group, artifact, version := splitCoords(t, coords)
	dir := filepath.Join(append([]string{root}, strings.Split(group, ".")...)...)
	path := filepath.Join(dir, artifact, version, artifact+"-"+version+".pom")
	MustWriteFile(t, path, fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>%s</groupId>
  <artifactId>%s</artifactId>
  <version>%s</version>
  %s
</project>
`, group, artifact, version, body))
	return path
}

// SampleRepositories writes a small module graph spread over an Ivy and a
// Maven repository and returns their roots:
//
//	com.acme:app:1.0 (maven)  -> org.sample:api:2.0 (compile), org.sample:util:1.0 (runtime)
//	org.sample:api:2.0        -> org.sample:core:1.0 (compile), org.sample:rt-helper:1.0 (runtime)
//	org.sample:core:1.0       -> org.sample:util:1.1 (compile)
//
// org.sample:rt-helper:1.0 declares no publications. org.sample:bare:1.0
// sits outside the graph and declares neither configurations nor
// publications.
func SampleRepositories(t testing.TB) (ivyRoot, mavenRoot string) {
	t.Helper()
	base := t.TempDir()
	ivyRoot = filepath.Join(base, "ivy")
	mavenRoot = filepath.Join(base, "maven")

	WriteIvyModule(t, ivyRoot, "org.sample:api:2.0", StandardConfigurations+`
  <publications>
    <artifact name="api" type="jar" ext="jar"/>
  </publications>
  <dependencies>
    <dependency org="org.sample" name="core" rev="1.0" conf="compile->default"/>
    <dependency org="org.sample" name="rt-helper" rev="1.0" conf="runtime->default"/>
  </dependencies>`)
	WriteIvyModule(t, ivyRoot, "org.sample:core:1.0", StandardConfigurations+`
  <dependencies>
    <dependency name="util" rev="1.1" conf="compile->default"/>
  </dependencies>`)
	WriteIvyModule(t, ivyRoot, "org.sample:rt-helper:1.0", StandardConfigurations)
	WriteIvyModule(t, ivyRoot, "org.sample:bare:1.0", "")
	WriteIvyModule(t, ivyRoot, "org.sample:util:1.0", StandardConfigurations)
	WriteIvyModule(t, ivyRoot, "org.sample:util:1.1", StandardConfigurations)

	WritePom(t, mavenRoot, "com.acme:app:1.0", `<dependencies>
    <dependency>
      <groupId>org.sample</groupId>
      <artifactId>api</artifactId>
      <version>2.0</version>
    </dependency>
    <dependency>
      <groupId>org.sample</groupId>
      <artifactId>util</artifactId>
      <version>1.0</version>
      <scope>runtime</scope>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
  </dependencies>`)

	return ivyRoot, mavenRoot
}

func splitCoords(t testing.TB, coords string) (group, name, version string) {
	t.Helper()
	parts := strings.Split(coords, ":")
	if len(parts) != 3 {
		t.Fatalf("invalid coordinates %q", coords)
	}
	return parts[0], parts[1], parts[2]
}
