// SPDX-License-Identifier: MPL-2.0

package rules

import "github.com/invowk/metarule/pkg/component"

// Registry holds the rules to run, either for every module or for one
// "group:name" module. The zero value is not usable; call NewRegistry.
type Registry struct {
	all      []Rule
	byModule map[string][]Rule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byModule: make(map[string][]Rule)}
}

// All registers rule for every module.
func (r *Registry) All(rule Rule) *Registry {
	r.all = append(r.all, rule)
	return r
}

// WithModule registers rule for the "group:name" module only.
func (r *Registry) WithModule(module string, rule Rule) *Registry {
	r.byModule[module] = append(r.byModule[module], rule)
	return r
}

// RulesFor returns the rules applicable to id: global rules first, then
// module-specific ones, each in registration order.
func (r *Registry) RulesFor(id component.ModuleID) []Rule {
	specific := r.byModule[id.Module()]
	out := make([]Rule, 0, len(r.all)+len(specific))
	out = append(out, r.all...)
	return append(out, specific...)
}

// Len returns the total number of registered rules.
func (r *Registry) Len() int {
	n := len(r.all)
	for _, rs := range r.byModule {
		n += len(rs)
	}
	return n
}
