// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/invowk/metarule/pkg/attribute"
	"github.com/invowk/metarule/pkg/component"
)

// Well-known resolvable configurations.
const (
	CompileClasspathName = "compileClasspath"
	RuntimeClasspathName = "runtimeClasspath"
)

// Request describes one resolution: the root modules and the attributes a
// consumer asks of every module in the graph.
type Request struct {
	Name       string
	Roots      []component.ModuleID
	Attributes attribute.Container
}

// CompileClasspath requests the API jars of roots and their dependencies.
func CompileClasspath(roots ...component.ModuleID) Request {
	return Request{
		Name:  CompileClasspathName,
		Roots: roots,
		Attributes: attribute.Of(
			attribute.Usage, attribute.UsageJavaAPI,
			attribute.Category, attribute.CategoryLibrary,
			attribute.LibraryElements, attribute.LibraryElementsJar,
		),
	}
}

// RuntimeClasspath requests the runtime jars of roots and their dependencies.
func RuntimeClasspath(roots ...component.ModuleID) Request {
	return Request{
		Name:  RuntimeClasspathName,
		Roots: roots,
		Attributes: attribute.Of(
			attribute.Usage, attribute.UsageJavaRuntime,
			attribute.Category, attribute.CategoryLibrary,
			attribute.LibraryElements, attribute.LibraryElementsJar,
		),
	}
}

// ForConfiguration returns the request named name, or false when the name
// is not a known resolvable configuration.
func ForConfiguration(name string, roots ...component.ModuleID) (Request, bool) {
	switch name {
	case CompileClasspathName:
		return CompileClasspath(roots...), true
	case RuntimeClasspathName:
		return RuntimeClasspath(roots...), true
	default:
		return Request{}, false
	}
}
