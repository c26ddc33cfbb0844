// SPDX-License-Identifier: MPL-2.0

package attribute

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known attribute keys of the JVM ecosystem.
const (
	// Usage distinguishes compile-time API consumption from runtime consumption.
	Usage Key = "org.gradle.usage"
	// Category distinguishes libraries from platforms.
	Category Key = "org.gradle.category"
	// LibraryElements describes the packaging of a library variant.
	LibraryElements Key = "org.gradle.libraryelements"
	// Bundling describes how a variant's own dependencies are packaged.
	Bundling Key = "org.gradle.dependency.bundling"
)

// Well-known attribute values.
const (
	UsageJavaAPI     Value = "java-api"
	UsageJavaRuntime Value = "java-runtime"

	CategoryLibrary          Value = "library"
	CategoryPlatform         Value = "platform"
	CategoryEnforcedPlatform Value = "enforced-platform"

	LibraryElementsJar       Value = "jar"
	LibraryElementsClasses   Value = "classes"
	LibraryElementsResources Value = "resources"

	BundlingExternal Value = "external"
	BundlingEmbedded Value = "embedded"
	BundlingShadowed Value = "shadowed"
)

var (
	// ErrInvalidKey is the sentinel error wrapped by InvalidKeyError.
	ErrInvalidKey = errors.New("invalid attribute key")
	// ErrInvalidValue is the sentinel error wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid attribute value")
)

type (
	// Key names an attribute axis (e.g., "org.gradle.usage").
	// A valid key is non-empty and contains no whitespace.
	Key string

	// Value is a named attribute value (e.g., "java-runtime").
	// A valid value is non-empty and not whitespace-only.
	Value string

	// InvalidKeyError is returned when a Key is empty or contains whitespace.
	// It wraps ErrInvalidKey for errors.Is() compatibility.
	InvalidKeyError struct {
		Value Key
	}

	// InvalidValueError is returned when a Value is empty or whitespace-only.
	// It wraps ErrInvalidValue for errors.Is() compatibility.
	InvalidValueError struct {
		Key   Key
		Value Value
	}
)

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// IsValid returns whether the Key is valid, and a list of validation errors if it is not.
func (k Key) IsValid() (bool, []error) {
	if k == "" || strings.ContainsFunc(string(k), isSpace) {
		return false, []error{&InvalidKeyError{Value: k}}
	}
	return true, nil
}

// String returns the string representation of the Value.
func (v Value) String() string { return string(v) }

// IsValid returns whether the Value is valid, and a list of validation errors if it is not.
func (v Value) IsValid() (bool, []error) {
	if strings.TrimSpace(string(v)) == "" {
		return false, []error{&InvalidValueError{Value: v}}
	}
	return true, nil
}

// Error implements the error interface for InvalidKeyError.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid attribute key %q: must be non-empty and contain no whitespace", e.Value)
}

// Unwrap returns ErrInvalidKey for errors.Is() compatibility.
func (e *InvalidKeyError) Unwrap() error { return ErrInvalidKey }

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid value %q for attribute %s: must not be empty or whitespace-only", e.Value, e.Key)
	}
	return fmt.Sprintf("invalid attribute value %q: must not be empty or whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidValue for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
