// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/invowk/metarule/internal/dag"
	"github.com/invowk/metarule/pkg/attribute"
	"github.com/invowk/metarule/pkg/component"
	"github.com/invowk/metarule/pkg/rules"
)

type (
	// Loader serves module metadata with no variants registered yet.
	// *repository.Chain implements it.
	Loader interface {
		Load(ctx context.Context, id component.ModuleID) (*component.Metadata, error)
	}

	// Resolver resolves module graphs.
	Resolver struct {
		loader      Loader
		engine      *rules.Engine
		schema      *attribute.Schema
		parallelism int
		logger      *log.Logger
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// ResolvedModule is a module selected by a resolution.
	ResolvedModule struct {
		ID         component.ModuleID
		Repository string
		Variant    component.Variant
	}

	// Result is the outcome of a resolution. Modules are ordered so that
	// every module precedes its dependencies, roots first.
	Result struct {
		Request Request
		Modules []ResolvedModule
		// Evicted lists requested versions that lost a conflict.
		Evicted []component.ModuleID
	}

	// pending is a dependency edge waiting to be resolved.
	pending struct {
		id    component.ModuleID
		confs []string
		from  component.ModuleID
	}
)

// WithSchema sets the attribute compatibility rules. Defaults to
// attribute.JVMSchema.
func WithSchema(s *attribute.Schema) Option {
	return func(r *Resolver) {
		if s != nil {
			r.schema = s
		}
	}
}

// WithParallelism bounds how many modules are loaded at once.
func WithParallelism(n int) Option {
	return func(r *Resolver) {
		if n >= 1 {
			r.parallelism = n
		}
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver loading metadata from loader and running engine's
// rules on every loaded module.
func New(loader Loader, engine *rules.Engine, opts ...Option) *Resolver {
	r := &Resolver{
		loader:      loader,
		engine:      engine,
		schema:      attribute.JVMSchema(),
		parallelism: rules.DefaultParallelism,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve selects a version and a variant for every module reachable from
// req.Roots.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	selected := make(map[string]string)
	nodes := make(map[string]ResolvedModule)
	var evicted []component.ModuleID

	var frontier []pending
	enqueue := func(p pending) {
		key := p.id.Module()
		current, ok := selected[key]
		switch {
		case !ok:
		case component.CompareVersions(p.id.Version, current) > 0:
			evicted = append(evicted, component.ModuleID{Group: p.id.Group, Name: p.id.Name, Version: current})
			r.logger.Debug("version conflict", "module", key, "selected", p.id.Version, "evicted", current)
		default:
			if p.id.Version != current {
				evicted = append(evicted, p.id)
			}
			return
		}
		selected[key] = p.id.Version
		frontier = append(frontier, p)
	}

	for _, root := range req.Roots {
		if ok, errs := root.IsValid(); !ok {
			return nil, errs[0]
		}
		enqueue(pending{id: root})
	}

	for len(frontier) > 0 {
		level := slices.DeleteFunc(frontier, func(p pending) bool {
			return selected[p.id.Module()] != p.id.Version
		})
		frontier = nil

		modules, err := r.loadLevel(ctx, level)
		if err != nil {
			return nil, err
		}
		if err := r.engine.Apply(ctx, modules); err != nil {
			return nil, err
		}

		for i, m := range modules {
			variant, err := SelectVariant(r.schema, m, req.Attributes, level[i].confs)
			if err != nil {
				return nil, err
			}
			r.logger.Debug("selected variant", "module", m.ID(), "variant", variant.Name, "configuration", req.Name)
			nodes[m.ID().Module()] = ResolvedModule{ID: m.ID(), Repository: m.Repository(), Variant: variant}
			for _, dep := range variant.Dependencies {
				enqueue(pending{id: dep.Target, confs: dep.Configurations, from: m.ID()})
			}
		}
	}

	ordered, err := r.order(req, nodes)
	if err != nil {
		return nil, err
	}
	return &Result{Request: req, Modules: ordered, Evicted: dedupeIDs(evicted)}, nil
}

// loadLevel loads every module of one breadth-first level concurrently,
// keeping the level's order in the returned slice.
func (r *Resolver) loadLevel(ctx context.Context, level []pending) ([]*component.Metadata, error) {
	modules := make([]*component.Metadata, len(level))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, p := range level {
		g.Go(func() error {
			m, err := r.loader.Load(gctx, p.id)
			if err != nil {
				if p.from.Name == "" {
					return err
				}
				return fmt.Errorf("%s required by %s: %w", p.id, p.from, err)
			}
			modules[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return modules, nil
}

// order walks the selected variants from the roots and sorts the reachable
// modules topologically. Modules only reachable through evicted versions
// are dropped.
func (r *Resolver) order(req Request, nodes map[string]ResolvedModule) ([]ResolvedModule, error) {
	g := dag.New[string]()
	var queue []string
	visited := make(map[string]bool)
	for _, root := range req.Roots {
		key := root.Module()
		g.AddNode(key)
		if !visited[key] {
			visited[key] = true
			queue = append(queue, key)
		}
	}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		for _, dep := range nodes[key].Variant.Dependencies {
			target := dep.Target.Module()
			g.AddEdge(key, target)
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}

	keys, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	out := make([]ResolvedModule, 0, len(keys))
	for _, key := range keys {
		out = append(out, nodes[key])
	}
	return out, nil
}

// Files returns the artifact file names of the resolution in classpath
// order, each listed once.
func (res *Result) Files() []string {
	var files []string
	seen := make(map[string]bool)
	for _, m := range res.Modules {
		for _, f := range m.Variant.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// Module returns the selected module for "group:name".
func (res *Result) Module(module string) (ResolvedModule, bool) {
	for _, m := range res.Modules {
		if m.ID.Module() == module {
			return m, true
		}
	}
	return ResolvedModule{}, false
}

func dedupeIDs(ids []component.ModuleID) []component.ModuleID {
	var out []component.ModuleID
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
