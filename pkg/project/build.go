// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/invowk/metarule/pkg/repository"
	"github.com/invowk/metarule/pkg/rules"
)

type (
	// BuildOptions carries settings that come from user configuration
	// rather than the project file.
	BuildOptions struct {
		// DefaultRules run on every module before the project's own rules.
		DefaultRules []string
		// CacheSize bounds the metadata cache; 0 selects the default.
		CacheSize int
		Logger    *log.Logger
	}

	// Setup is what a project resolves with.
	Setup struct {
		Chain    *repository.Chain
		Registry *rules.Registry
	}
)

// Build assembles the repository chain and rule registry of p. Rule ids
// are looked up in the built-in catalog; an unknown id yields
// *rules.UnknownRuleError.
func Build(p *Project, opts BuildOptions) (*Setup, error) {
	repos := make([]repository.Repository, 0, len(p.Repositories))
	for i, decl := range p.Repositories {
		name := decl.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", decl.Kind, i)
		}
		repo, err := repository.New(decl.Kind, name, p.RepositoryRoot(decl))
		if err != nil {
			return nil, fmt.Errorf("repositories[%d]: %w", i, err)
		}
		repos = append(repos, repo)
	}

	chainOpts := []repository.ChainOption{repository.WithChainLogger(opts.Logger)}
	if opts.CacheSize > 0 {
		chainOpts = append(chainOpts, repository.WithCacheSize(opts.CacheSize))
	}
	chain, err := repository.NewChain(repos, chainOpts...)
	if err != nil {
		return nil, err
	}

	registry := rules.NewRegistry()
	var global []string
	for _, id := range slices.Concat(opts.DefaultRules, p.Rules) {
		if !slices.Contains(global, id) {
			global = append(global, id)
		}
	}
	for _, id := range global {
		rule, err := rules.Lookup(id)
		if err != nil {
			return nil, err
		}
		registry.All(rule)
	}

	modules := make([]string, 0, len(p.ModuleRules))
	for module := range p.ModuleRules {
		modules = append(modules, module)
	}
	slices.Sort(modules)
	for _, module := range modules {
		for _, id := range p.ModuleRules[module] {
			rule, err := rules.Lookup(id)
			if err != nil {
				return nil, fmt.Errorf("module_rules[%q]: %w", module, err)
			}
			registry.WithModule(module, rule)
		}
	}

	return &Setup{Chain: chain, Registry: registry}, nil
}
