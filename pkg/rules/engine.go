// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/invowk/metarule/pkg/component"
)

// DefaultParallelism is the number of modules processed concurrently when
// no explicit limit is configured.
const DefaultParallelism = 4

type (
	// Engine applies the rules of a Registry to module metadata.
	Engine struct {
		registry    *Registry
		parallelism int
		logger      *log.Logger
	}

	// EngineOption configures an Engine.
	EngineOption func(*Engine)

	// RuleError reports which rule failed on which module. The underlying
	// error is preserved for errors.Is/As.
	RuleError struct {
		Module component.ModuleID
		Rule   string
		Err    error
	}
)

// Error implements the error interface for RuleError.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed for %s: %v", e.Rule, e.Module, e.Err)
}

// Unwrap returns the rule's own error.
func (e *RuleError) Unwrap() error { return e.Err }

// WithParallelism bounds how many modules are processed at once.
// Values below 1 are ignored.
func WithParallelism(n int) EngineOption {
	return func(e *Engine) {
		if n >= 1 {
			e.parallelism = n
		}
	}
}

// WithLogger sets the logger used for per-rule debug output.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine for registry.
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:    registry,
		parallelism: DefaultParallelism,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyOne runs every applicable rule on m, in order, stopping at the
// first failure.
func (e *Engine) ApplyOne(ctx context.Context, m *component.Metadata) error {
	for _, rule := range e.registry.RulesFor(m.ID()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := len(m.Variants())
		if err := rule.Execute(m); err != nil {
			return &RuleError{Module: m.ID(), Rule: rule.Name(), Err: err}
		}
		e.logger.Debug("applied rule", "rule", rule.Name(), "module", m.ID(), "variants", len(m.Variants())-before)
	}
	return nil
}

// Apply runs the rules on every module. Distinct modules are processed
// concurrently up to the configured parallelism; the first failure cancels
// the remaining work and is returned.
func (e *Engine) Apply(ctx context.Context, modules []*component.Metadata) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for _, m := range modules {
		g.Go(func() error {
			return e.ApplyOne(gctx, m)
		})
	}
	return g.Wait()
}
