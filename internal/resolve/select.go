// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/metarule/pkg/attribute"
	"github.com/invowk/metarule/pkg/component"
)

// ErrNoMatchingVariant is the sentinel error wrapped by NoMatchingVariantError.
var ErrNoMatchingVariant = errors.New("no matching variant")

// NoMatchingVariantError is returned when none of a module's variants
// satisfies the requested attributes.
type NoMatchingVariantError struct {
	Module     component.ModuleID
	Requested  attribute.Container
	Candidates []string
}

// Error implements the error interface for NoMatchingVariantError.
func (e *NoMatchingVariantError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no variant of %s matches %s: the module exposes no candidates", e.Module, e.Requested)
	}
	return fmt.Sprintf("no variant of %s matches %s (candidates: %s)", e.Module, e.Requested, strings.Join(e.Candidates, "; "))
}

// Unwrap returns ErrNoMatchingVariant for errors.Is() compatibility.
func (e *NoMatchingVariantError) Unwrap() error { return ErrNoMatchingVariant }

// SelectVariant picks the variant of m that best satisfies requested. A
// variant whose attributes equal every requested value is preferred over one
// that is only compatible under schema; remaining ties go to the variant
// declared first.
//
// A module exposing no variants is served through its legacy configuration:
// the first of confs that is not the wildcard, or "default".
func SelectVariant(schema *attribute.Schema, m *component.Metadata, requested attribute.Container, confs []string) (component.Variant, error) {
	variants := m.Variants()
	if len(variants) == 0 {
		return legacyVariant(m, requested, confs)
	}

	compatible := -1
	for i, v := range variants {
		if schema.ExactMatches(requested, v.Attributes) {
			return v, nil
		}
		if compatible < 0 && schema.Matches(requested, v.Attributes) {
			compatible = i
		}
	}
	if compatible >= 0 {
		return variants[compatible], nil
	}

	candidates := make([]string, 0, len(variants))
	for _, v := range variants {
		candidates = append(candidates, v.Name+" "+v.Attributes.String())
	}
	return component.Variant{}, &NoMatchingVariantError{Module: m.ID(), Requested: requested, Candidates: candidates}
}

func legacyVariant(m *component.Metadata, requested attribute.Container, confs []string) (component.Variant, error) {
	conf := "default"
	for _, c := range confs {
		if c != component.AllConfigurations {
			conf = c
			break
		}
	}
	if d, ok := component.DescriptorAs[*component.IvyDescriptor](m, component.KindIvy); ok {
		if _, declared := d.Configuration(conf); !declared {
			return component.Variant{}, &NoMatchingVariantError{
				Module:    m.ID(),
				Requested: requested,
			}
		}
	}
	return m.LegacyVariant(conf), nil
}
