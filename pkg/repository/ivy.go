// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/metarule/pkg/component"
)

type (
	// IvyRepository reads modules laid out as
	// <root>/<organisation>/<module>/<revision>/ivy-<revision>.xml.
	IvyRepository struct {
		name string
		root string
	}

	ivyModuleXML struct {
		XMLName        xml.Name             `xml:"ivy-module"`
		Info           ivyInfoXML           `xml:"info"`
		Configurations *ivyConfigurationsXML `xml:"configurations"`
		Publications   *ivyPublicationsXML   `xml:"publications"`
		Dependencies   ivyDependenciesXML   `xml:"dependencies"`
	}

	ivyInfoXML struct {
		Organisation string        `xml:"organisation,attr"`
		Module       string        `xml:"module,attr"`
		Revision     string        `xml:"revision,attr"`
		Status       string        `xml:"status,attr"`
		Branch       string        `xml:"branch,attr"`
		Extra        []ivyExtraXML `xml:",any"`
	}

	ivyExtraXML struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	}

	ivyConfigurationsXML struct {
		Defaultconfmapping string       `xml:"defaultconfmapping,attr"`
		Confs              []ivyConfXML `xml:"conf"`
	}

	ivyConfXML struct {
		Name        string `xml:"name,attr"`
		Extends     string `xml:"extends,attr"`
		Visibility  string `xml:"visibility,attr"`
		Description string `xml:"description,attr"`
	}

	ivyPublicationsXML struct {
		Artifacts []ivyArtifactXML `xml:"artifact"`
	}

	ivyArtifactXML struct {
		Name  string          `xml:"name,attr"`
		Type  string          `xml:"type,attr"`
		Ext   string          `xml:"ext,attr"`
		Conf  string          `xml:"conf,attr"`
		Confs []ivyNestedConf `xml:"conf"`
	}

	ivyDependenciesXML struct {
		Defaultconf        string             `xml:"defaultconf,attr"`
		Defaultconfmapping string             `xml:"defaultconfmapping,attr"`
		Dependencies       []ivyDependencyXML `xml:"dependency"`
	}

	ivyDependencyXML struct {
		Org   string          `xml:"org,attr"`
		Name  string          `xml:"name,attr"`
		Rev   string          `xml:"rev,attr"`
		Conf  string          `xml:"conf,attr"`
		Confs []ivyNestedConf `xml:"conf"`
	}

	// ivyNestedConf is a <conf> child of <artifact> or <dependency>. On a
	// dependency, mapped and <mapped> children name the target confs.
	ivyNestedConf struct {
		Name        string          `xml:"name,attr"`
		Mapped      string          `xml:"mapped,attr"`
		MappedConfs []ivyMappedConf `xml:"mapped"`
	}

	ivyMappedConf struct {
		Name string `xml:"name,attr"`
	}
)

// NewIvy creates an Ivy repository rooted at root.
func NewIvy(name, root string) *IvyRepository {
	return &IvyRepository{name: name, root: root}
}

// Name implements Repository.
func (r *IvyRepository) Name() string { return r.name }

// Kind implements Repository.
func (r *IvyRepository) Kind() component.DescriptorKind { return component.KindIvy }

// DescriptorPath returns where the ivy.xml of id is expected.
func (r *IvyRepository) DescriptorPath(id component.ModuleID) string {
	return filepath.Join(r.root, id.Group, id.Name, id.Version, "ivy-"+id.Version+".xml")
}

// Load implements Repository.
func (r *IvyRepository) Load(ctx context.Context, id component.ModuleID) (*component.Metadata, error) {
	path := r.DescriptorPath(id)
	data, err := readDescriptor(ctx, r.name, id, path)
	if err != nil {
		return nil, err
	}
	desc, err := ParseIvy(data, path)
	if err != nil {
		return nil, err
	}
	return component.NewMetadata(id, r.name, desc), nil
}

// ParseIvy parses an ivy.xml document. path is only used in error messages.
// Ivy's implicit defaults apply: a module without configurations has a
// single "default" configuration, and a module without publications
// publishes one jar named after the module. A dependency without conf uses
// the defaultconf of <dependencies>, then the defaultconfmapping, then
// "*->*". Nested <conf> elements add to the conf attribute of artifacts and
// dependencies.
func ParseIvy(data []byte, path string) (*component.IvyDescriptor, error) {
	var doc ivyModuleXML
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, wrapXMLError(err, path)
	}
	if doc.Info.Organisation == "" || doc.Info.Module == "" {
		return nil, &DescriptorError{Path: path, Message: "info element requires organisation and module attributes"}
	}

	desc := &component.IvyDescriptor{
		Status: doc.Info.Status,
		Branch: doc.Info.Branch,
	}
	if len(doc.Info.Extra) > 0 {
		desc.ExtraInfo = make(map[string]string, len(doc.Info.Extra))
		for _, e := range doc.Info.Extra {
			desc.ExtraInfo[e.XMLName.Local] = strings.TrimSpace(e.Value)
		}
	}

	defaultMapping := ""
	if doc.Configurations != nil {
		defaultMapping = doc.Configurations.Defaultconfmapping
		for _, c := range doc.Configurations.Confs {
			if c.Name == "" {
				return nil, &DescriptorError{Path: path, Message: "conf element requires a name"}
			}
			desc.Configurations = append(desc.Configurations, component.IvyConfiguration{
				Name:        c.Name,
				Extends:     splitConfs(c.Extends),
				Visibility:  c.Visibility,
				Description: c.Description,
			})
		}
	}
	if len(desc.Configurations) == 0 {
		desc.Configurations = []component.IvyConfiguration{{Name: "default", Visibility: "public"}}
	}
	for _, c := range desc.Configurations {
		for _, parent := range c.Extends {
			if _, ok := desc.Configuration(parent); !ok {
				return nil, &DescriptorError{Path: path, Message: fmt.Sprintf("configuration %q extends undeclared configuration %q", c.Name, parent)}
			}
		}
	}

	if doc.Publications == nil {
		desc.Artifacts = []component.IvyArtifact{{Name: doc.Info.Module, Type: "jar", Ext: "jar"}}
	} else {
		for _, a := range doc.Publications.Artifacts {
			art := component.IvyArtifact{Name: a.Name, Type: a.Type, Ext: a.Ext, Confs: splitConfs(a.Conf)}
			for _, c := range a.Confs {
				art.Confs = append(art.Confs, splitConfs(c.Name)...)
			}
			if art.Name == "" {
				art.Name = doc.Info.Module
			}
			desc.Artifacts = append(desc.Artifacts, art)
		}
	}

	// An empty defaultConf parses to no mappings, which means "*->*".
	defaultConf := doc.Dependencies.Defaultconf
	if defaultConf == "" {
		defaultConf = doc.Dependencies.Defaultconfmapping
	}
	if defaultConf == "" {
		defaultConf = defaultMapping
	}

	for _, d := range doc.Dependencies.Dependencies {
		org := d.Org
		if org == "" {
			org = doc.Info.Organisation
		}
		target := component.ModuleID{Group: org, Name: d.Name, Version: d.Rev}
		if ok, errs := target.IsValid(); !ok {
			return nil, &DescriptorError{Path: path, Message: errs[0].Error()}
		}
		mappings := component.ParseConfMapping(d.Conf)
		for _, c := range d.Confs {
			mappings = append(mappings, nestedMapping(c))
		}
		if len(mappings) == 0 {
			mappings = component.ParseConfMapping(defaultConf)
		}
		desc.Dependencies = append(desc.Dependencies, component.IvyDependency{
			Target:   target,
			Mappings: mappings,
		})
	}

	return desc, nil
}

func nestedMapping(c ivyNestedConf) component.ConfMapping {
	m := component.ConfMapping{From: splitConfs(c.Name), To: splitConfs(c.Mapped)}
	for _, mc := range c.MappedConfs {
		m.To = append(m.To, splitConfs(mc.Name)...)
	}
	if len(m.To) == 0 {
		m.To = slices.Clone(m.From)
	}
	return m
}

func splitConfs(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
