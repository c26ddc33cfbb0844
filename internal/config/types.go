// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/invowk/metarule/pkg/rules"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// OutputText prints human-readable tables and lists.
	OutputText OutputFormat = "text"
	// OutputJSON prints JSON documents.
	OutputJSON OutputFormat = "json"
	// OutputYAML prints YAML documents.
	OutputYAML OutputFormat = "yaml"
	// OutputTOML prints TOML documents.
	OutputTOML OutputFormat = "toml"

	// DefaultParallelism is the default number of modules loaded concurrently.
	DefaultParallelism = 4
	// DefaultCacheSize is the default number of parsed descriptors kept in memory.
	DefaultCacheSize = 256
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidResolutionConfig is the sentinel error wrapped by InvalidResolutionConfigError.
	ErrInvalidResolutionConfig = errors.New("invalid resolution config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// OutputFormat selects how commands print structured results.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidResolutionConfigError aggregates ResolutionConfig field errors.
	InvalidResolutionConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError aggregates every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration. The tags name the same keys
	// in every format it is read from or printed as.
	Config struct {
		// UI configures the user interface
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
		// Resolution tunes dependency resolution
		Resolution ResolutionConfig `json:"resolution" yaml:"resolution" toml:"resolution" mapstructure:"resolution"`
		// Output configures command output
		Output OutputConfig `json:"output" yaml:"output" toml:"output" mapstructure:"output"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
	}

	// ResolutionConfig tunes the resolver.
	ResolutionConfig struct {
		// Parallelism bounds concurrent descriptor loading and rule execution.
		Parallelism int `json:"parallelism" yaml:"parallelism" toml:"parallelism" mapstructure:"parallelism"`
		// CacheSize bounds the in-memory descriptor cache.
		CacheSize int `json:"cache_size" yaml:"cache_size" toml:"cache_size" mapstructure:"cache_size"`
		// DefaultRules run on every module of every project, before the
		// project's own rules.
		DefaultRules []string `json:"default_rules" yaml:"default_rules" toml:"default_rules" mapstructure:"default_rules"`
	}

	// OutputConfig configures command output.
	OutputConfig struct {
		Format OutputFormat `json:"format" yaml:"format" toml:"format" mapstructure:"format"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is supported.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputJSON, OutputYAML, OutputTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// IsValid checks the numeric bounds and that every default rule is built in.
func (c ResolutionConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("cache_size must be at least 1, got %d", c.CacheSize))
	}
	for _, id := range c.DefaultRules {
		if _, err := rules.Lookup(id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidResolutionConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidResolutionConfigError.
func (e *InvalidResolutionConfigError) Error() string {
	return fmt.Sprintf("invalid resolution config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidResolutionConfig and the field errors.
func (e *InvalidResolutionConfigError) Unwrap() []error {
	return append([]error{ErrInvalidResolutionConfig}, e.FieldErrors...)
}

// IsValid validates every section of the Config.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Resolution.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Output.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Resolution: ResolutionConfig{
			Parallelism:  DefaultParallelism,
			CacheSize:    DefaultCacheSize,
			DefaultRules: []string{rules.MavenVariantDerivationID},
		},
		Output: OutputConfig{Format: OutputText},
	}
}
