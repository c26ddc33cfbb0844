// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/metarule/pkg/attribute"
)

var (
	// ErrInvalidVariantName is the sentinel error wrapped by InvalidVariantNameError.
	ErrInvalidVariantName = errors.New("invalid variant name")
	// ErrUnknownBase is the sentinel error wrapped by UnknownBaseError.
	ErrUnknownBase = errors.New("unknown variant base")
)

type (
	// Dependency is an edge from a variant to another module. Configurations
	// lists the target configurations requested by an Ivy mapping; it is only
	// consulted when the target module exposes no variants.
	Dependency struct {
		Target         ModuleID
		Configurations []string
	}

	// Variant is a named attribute set under which a module can be selected,
	// together with the files and dependencies it brings.
	Variant struct {
		Name         string
		Base         string
		Attributes   attribute.Container
		Files        []string
		Dependencies []Dependency
	}

	// InvalidVariantNameError is returned when a variant name is empty or
	// whitespace-only. It wraps ErrInvalidVariantName for errors.Is() compatibility.
	InvalidVariantNameError struct {
		Value string
	}

	// UnknownBaseError is returned when a variant names a base the module's
	// descriptor does not define.
	UnknownBaseError struct {
		Module  ModuleID
		Variant string
		Base    string
	}
)

func (e *UnknownBaseError) Error() string {
	return fmt.Sprintf("variant %q: base %q not defined in module %s", e.Variant, e.Base, e.Module)
}

// Unwrap returns ErrUnknownBase for errors.Is() compatibility.
func (e *UnknownBaseError) Unwrap() error { return ErrUnknownBase }

// Error implements the error interface for InvalidVariantNameError.
func (e *InvalidVariantNameError) Error() string {
	return fmt.Sprintf("invalid variant name %q: must not be empty or whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidVariantName for errors.Is() compatibility.
func (e *InvalidVariantNameError) Unwrap() error { return ErrInvalidVariantName }

// Clone returns a deep copy of the variant.
func (v Variant) Clone() Variant {
	v.Files = slices.Clone(v.Files)
	v.Dependencies = slices.Clone(v.Dependencies)
	return v
}

func validVariantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidVariantNameError{Value: name}
	}
	return nil
}
