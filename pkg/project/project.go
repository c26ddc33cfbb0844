// SPDX-License-Identifier: MPL-2.0

package project

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/metarule/pkg/component"
	"github.com/invowk/metarule/pkg/cueutil"
)

// FileName is the project file looked up in the project directory.
const FileName = "metarule.cue"

var (
	//go:embed project_schema.cue
	projectSchema []byte

	// ErrProjectNotFound is the sentinel error wrapped by NotFoundError.
	ErrProjectNotFound = errors.New("project file not found")
)

type (
	// Project is a parsed project file.
	Project struct {
		// Path is the project file; Dir the directory relative URLs resolve against.
		Path string `json:"-"`
		Dir  string `json:"-"`

		Repositories []RepositoryDecl   `json:"repositories"`
		Rules        []string            `json:"rules,omitempty"`
		ModuleRules  map[string][]string `json:"module_rules,omitempty"`
		Dependencies Dependencies        `json:"dependencies"`
	}

	// RepositoryDecl declares one module repository.
	RepositoryDecl struct {
		Kind component.DescriptorKind `json:"kind"`
		URL  string                   `json:"url"`
		Name string                   `json:"name,omitempty"`
	}

	// Dependencies lists root modules per dependency bucket. Implementation
	// dependencies are on both classpaths; CompileOnly and RuntimeOnly on one.
	Dependencies struct {
		Implementation []string `json:"implementation,omitempty"`
		CompileOnly    []string `json:"compile_only,omitempty"`
		RuntimeOnly    []string `json:"runtime_only,omitempty"`
	}

	// NotFoundError is returned when the project directory has no project file.
	NotFoundError struct {
		Path string
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found at %s", FileName, e.Path)
}

// Unwrap returns ErrProjectNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrProjectNotFound }

// Load reads dir/metarule.cue.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, FileName)
	res, err := cueutil.ParseFile[Project](projectSchema, path, "#Project")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	return finish(res.Value, path)
}

// Parse parses project file content. path locates the file for error
// messages and relative repository URLs.
func Parse(data []byte, path string) (*Project, error) {
	res, err := cueutil.ParseAndDecode[Project](projectSchema, data, "#Project", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	return finish(res.Value, path)
}

func finish(p *Project, path string) (*Project, error) {
	p.Path = path
	p.Dir = filepath.Dir(path)
	for _, coords := range p.allCoordinates() {
		if _, err := component.ParseModuleID(coords); err != nil {
			return nil, fmt.Errorf("%s: dependencies: %w", path, err)
		}
	}
	return p, nil
}

// RepositoryRoot returns the directory a repository declaration points at.
func (p *Project) RepositoryRoot(r RepositoryDecl) string {
	root := strings.TrimPrefix(r.URL, "file://")
	if !filepath.IsAbs(root) {
		root = filepath.Join(p.Dir, root)
	}
	return filepath.Clean(root)
}

// CompileRoots returns the root modules of the compile classpath.
func (p *Project) CompileRoots() []component.ModuleID {
	return mustParseAll(p.Dependencies.Implementation, p.Dependencies.CompileOnly)
}

// RuntimeRoots returns the root modules of the runtime classpath.
func (p *Project) RuntimeRoots() []component.ModuleID {
	return mustParseAll(p.Dependencies.Implementation, p.Dependencies.RuntimeOnly)
}

// AllRoots returns every declared root, each once, in declaration order.
func (p *Project) AllRoots() []component.ModuleID {
	return mustParseAll(p.allCoordinates())
}

func (p *Project) allCoordinates() []string {
	d := p.Dependencies
	return slices.Concat(d.Implementation, d.CompileOnly, d.RuntimeOnly)
}

// mustParseAll parses coordinates validated by finish.
func mustParseAll(lists ...[]string) []component.ModuleID {
	var out []component.ModuleID
	for _, list := range lists {
		for _, coords := range list {
			id := component.MustParseModuleID(coords)
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	return out
}
