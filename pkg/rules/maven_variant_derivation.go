// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"github.com/invowk/metarule/pkg/attribute"
	"github.com/invowk/metarule/pkg/component"
)

// MavenVariantDerivation derives library variants from a POM: apiElements
// carries compile-scope dependencies, runtimeElements adds runtime scope.
// Both declare external bundling since a POM never embeds its dependencies.
type MavenVariantDerivation struct{}

// Name implements Rule.
func (MavenVariantDerivation) Name() string { return MavenVariantDerivationID }

// Execute implements Rule.
func (MavenVariantDerivation) Execute(ctx component.MetadataContext) error {
	if _, ok := ctx.Descriptor(component.KindMaven); !ok {
		return nil
	}

	details := ctx.Details()
	if err := details.AddVariant(APIElements, component.ScopeCompile, func(b *attribute.Builder) {
		attribute.JVM(b).AsJar().Library().ProvidingAPI().WithExternalDependencies()
	}); err != nil {
		return err
	}
	return details.AddVariant(RuntimeElements, component.ScopeRuntime, func(b *attribute.Builder) {
		attribute.JVM(b).AsJar().Library().ProvidingRuntime().WithExternalDependencies()
	})
}
