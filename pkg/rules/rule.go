// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/metarule/pkg/component"
)

// Identifiers of the built-in rules, as used in project files and config.
const (
	IvyVariantDerivationID   = "ivy-variant-derivation"
	MavenVariantDerivationID = "maven-variant-derivation"
)

// ErrUnknownRule is the sentinel error wrapped by UnknownRuleError.
var ErrUnknownRule = errors.New("unknown rule")

type (
	// Rule is a component metadata rule. Execute is called once per module
	// resolution and must only act through ctx.
	Rule interface {
		Name() string
		Execute(ctx component.MetadataContext) error
	}

	funcRule struct {
		name string
		fn   func(component.MetadataContext) error
	}

	// UnknownRuleError is returned when a rule identifier has no built-in
	// implementation. It wraps ErrUnknownRule for errors.Is() compatibility.
	UnknownRuleError struct {
		ID string
	}
)

// Func adapts a plain function into a Rule.
func Func(name string, fn func(component.MetadataContext) error) Rule {
	return &funcRule{name: name, fn: fn}
}

func (r *funcRule) Name() string { return r.name }

func (r *funcRule) Execute(ctx component.MetadataContext) error { return r.fn(ctx) }

// Error implements the error interface for UnknownRuleError.
func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q (known: %s)", e.ID, strings.Join(Known(), ", "))
}

// Unwrap returns ErrUnknownRule for errors.Is() compatibility.
func (e *UnknownRuleError) Unwrap() error { return ErrUnknownRule }

var builtins = map[string]Rule{
	IvyVariantDerivationID:   IvyVariantDerivation{},
	MavenVariantDerivationID: MavenVariantDerivation{},
}

// Lookup returns the built-in rule registered under id.
func Lookup(id string) (Rule, error) {
	r, ok := builtins[id]
	if !ok {
		return nil, &UnknownRuleError{ID: id}
	}
	return r, nil
}

// Known lists the built-in rule identifiers, sorted.
func Known() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
