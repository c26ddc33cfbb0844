// SPDX-License-Identifier: MPL-2.0

package attribute

// JvmDetails is a fluent helper that writes the standard JVM ecosystem
// attributes into a Builder.
//
//	attribute.JVM(b).Library().AsJar().ProvidingRuntime()
type JvmDetails struct {
	b *Builder
}

// JVM wraps b with JVM ecosystem helpers.
func JVM(b *Builder) *JvmDetails {
	return &JvmDetails{b: b}
}

// ProvidingAPI marks the variant as a compile-time API.
func (d *JvmDetails) ProvidingAPI() *JvmDetails {
	d.b.Attribute(Usage, UsageJavaAPI)
	return d
}

// ProvidingRuntime marks the variant as a runtime.
func (d *JvmDetails) ProvidingRuntime() *JvmDetails {
	d.b.Attribute(Usage, UsageJavaRuntime)
	return d
}

// Library sets the category to library.
func (d *JvmDetails) Library() *JvmDetails {
	d.b.Attribute(Category, CategoryLibrary)
	return d
}

// Platform sets the category to a regular platform.
func (d *JvmDetails) Platform() *JvmDetails {
	d.b.Attribute(Category, CategoryPlatform)
	return d
}

// EnforcedPlatform sets the category to an enforced platform.
func (d *JvmDetails) EnforcedPlatform() *JvmDetails {
	d.b.Attribute(Category, CategoryEnforcedPlatform)
	return d
}

// AsJar sets the library elements to jar.
func (d *JvmDetails) AsJar() *JvmDetails {
	d.b.Attribute(LibraryElements, LibraryElementsJar)
	return d
}

// WithExternalDependencies declares that dependencies are resolved separately.
func (d *JvmDetails) WithExternalDependencies() *JvmDetails {
	d.b.Attribute(Bundling, BundlingExternal)
	return d
}

// WithEmbeddedDependencies declares that dependencies are packaged inside the artifact.
func (d *JvmDetails) WithEmbeddedDependencies() *JvmDetails {
	d.b.Attribute(Bundling, BundlingEmbedded)
	return d
}

// WithShadowedDependencies declares that dependencies are embedded and relocated.
func (d *JvmDetails) WithShadowedDependencies() *JvmDetails {
	d.b.Attribute(Bundling, BundlingShadowed)
	return d
}
