// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/invowk/metarule/pkg/component"
)

// propertyRef matches ${name} placeholders in POM values.
var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

type (
	// MavenRepository reads modules laid out as
	// <root>/<group as path>/<name>/<version>/<name>-<version>.pom.
	MavenRepository struct {
		name string
		root string
	}

	pomXML struct {
		XMLName              xml.Name           `xml:"project"`
		GroupID              string             `xml:"groupId"`
		ArtifactID           string             `xml:"artifactId"`
		Version              string             `xml:"version"`
		Packaging            string             `xml:"packaging"`
		Parent               pomParentXML       `xml:"parent"`
		Properties           pomPropertiesXML   `xml:"properties"`
		DependencyManagement pomDependenciesXML `xml:"dependencyManagement>dependencies"`
		Dependencies         pomDependenciesXML `xml:"dependencies"`
	}

	pomParentXML struct {
		GroupID string `xml:"groupId"`
		Version string `xml:"version"`
	}

	pomPropertiesXML struct {
		Entries []pomPropertyXML `xml:",any"`
	}

	pomPropertyXML struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	}

	pomDependenciesXML struct {
		Dependencies []pomDependencyXML `xml:"dependency"`
	}

	pomDependencyXML struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
		Scope      string `xml:"scope"`
		Optional   string `xml:"optional"`
	}
)

// NewMaven creates a Maven repository rooted at root.
func NewMaven(name, root string) *MavenRepository {
	return &MavenRepository{name: name, root: root}
}

// Name implements Repository.
func (r *MavenRepository) Name() string { return r.name }

// Kind implements Repository.
func (r *MavenRepository) Kind() component.DescriptorKind { return component.KindMaven }

// DescriptorPath returns where the POM of id is expected.
func (r *MavenRepository) DescriptorPath(id component.ModuleID) string {
	groupPath := filepath.Join(strings.Split(id.Group, ".")...)
	return filepath.Join(r.root, groupPath, id.Name, id.Version, id.Name+"-"+id.Version+".pom")
}

// Load implements Repository.
func (r *MavenRepository) Load(ctx context.Context, id component.ModuleID) (*component.Metadata, error) {
	path := r.DescriptorPath(id)
	data, err := readDescriptor(ctx, r.name, id, path)
	if err != nil {
		return nil, err
	}
	desc, err := ParsePom(data, path)
	if err != nil {
		return nil, err
	}
	return component.NewMetadata(id, r.name, desc), nil
}

// ParsePom parses a POM document. Property placeholders are expanded from
// <properties> and the project.* coordinates; dependencies without a
// version take it from <dependencyManagement>.
func ParsePom(data []byte, path string) (*component.PomDescriptor, error) {
	var doc pomXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, wrapXMLError(err, path)
	}

	groupID := firstNonEmpty(doc.GroupID, doc.Parent.GroupID)
	version := firstNonEmpty(doc.Version, doc.Parent.Version)
	props := map[string]string{
		"project.groupId":    groupID,
		"project.artifactId": doc.ArtifactID,
		"project.version":    version,
		"pom.version":        version,
	}
	for _, p := range doc.Properties.Entries {
		props[p.XMLName.Local] = strings.TrimSpace(p.Value)
	}
	expand := func(s string) string {
		return propertyRef.ReplaceAllStringFunc(strings.TrimSpace(s), func(ref string) string {
			if v, ok := props[ref[2:len(ref)-1]]; ok {
				return v
			}
			return ref
		})
	}

	managed := make(map[string]string)
	for _, d := range doc.DependencyManagement.Dependencies {
		managed[expand(d.GroupID)+":"+expand(d.ArtifactID)] = expand(d.Version)
	}

	desc := &component.PomDescriptor{Packaging: firstNonEmpty(expand(doc.Packaging), "jar")}
	for _, d := range doc.Dependencies.Dependencies {
		target := component.ModuleID{Group: expand(d.GroupID), Name: expand(d.ArtifactID), Version: expand(d.Version)}
		if target.Version == "" {
			target.Version = managed[target.Module()]
		}
		if ok, errs := target.IsValid(); !ok {
			return nil, &DescriptorError{Path: path, Message: fmt.Sprintf("dependency %s: %v", target.Module(), errs[0])}
		}
		if strings.Contains(target.Version, "${") {
			return nil, &DescriptorError{Path: path, Message: fmt.Sprintf("dependency %s: unresolved property in version %q", target.Module(), target.Version)}
		}
		desc.Dependencies = append(desc.Dependencies, component.PomDependency{
			Target:   target,
			Scope:    expand(d.Scope),
			Optional: strings.EqualFold(expand(d.Optional), "true"),
		})
	}
	return desc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
