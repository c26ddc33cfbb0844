// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"github.com/invowk/metarule/pkg/attribute"
	"github.com/invowk/metarule/pkg/component"
)

// Names of the variants a JVM library exposes.
const (
	RuntimeElements = "runtimeElements"
	APIElements     = "apiElements"
)

// IvyVariantDerivation derives the standard library variants for modules
// that carry an Ivy descriptor:
//
//   - runtimeElements, based on the "default" configuration, usage java-runtime
//   - apiElements, based on the "compile" configuration, usage java-api
//
// Both are jar libraries. Modules without an Ivy descriptor are left untouched.
type IvyVariantDerivation struct{}

// Name implements Rule.
func (IvyVariantDerivation) Name() string { return IvyVariantDerivationID }

// Execute implements Rule.
func (IvyVariantDerivation) Execute(ctx component.MetadataContext) error {
	if _, ok := ctx.Descriptor(component.KindIvy); !ok {
		return nil
	}

	details := ctx.Details()
	if err := details.AddVariant(RuntimeElements, "default", func(b *attribute.Builder) {
		attribute.JVM(b).AsJar().Library().ProvidingRuntime()
	}); err != nil {
		return err
	}
	return details.AddVariant(APIElements, "compile", func(b *attribute.Builder) {
		attribute.JVM(b).AsJar().Library().ProvidingAPI()
	})
}
