// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/invowk/metarule/pkg/component"
)

// DefaultCacheSize is the number of parsed modules a Chain keeps.
const DefaultCacheSize = 256

type (
	// Chain looks modules up across repositories in declaration order; the
	// first repository that has the module wins.
	Chain struct {
		repos  []Repository
		cache  *lru.Cache[component.ModuleID, *component.Metadata]
		logger *log.Logger
	}

	// ChainOption configures a Chain.
	ChainOption func(*chainOptions)

	chainOptions struct {
		cacheSize int
		logger    *log.Logger
	}
)

// WithCacheSize sets how many parsed modules are memoised.
func WithCacheSize(n int) ChainOption {
	return func(o *chainOptions) { o.cacheSize = n }
}

// WithChainLogger sets the logger used for lookup diagnostics.
func WithChainLogger(l *log.Logger) ChainOption {
	return func(o *chainOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewChain creates a Chain over repos.
func NewChain(repos []Repository, opts ...ChainOption) (*Chain, error) {
	o := chainOptions{cacheSize: DefaultCacheSize, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	cache, err := lru.New[component.ModuleID, *component.Metadata](o.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Chain{repos: repos, cache: cache, logger: o.logger}, nil
}

// Repositories returns the repositories in lookup order.
func (c *Chain) Repositories() []Repository {
	return c.repos
}

// Load returns metadata for id with no variants registered yet. Parsed
// descriptors are cached; every call returns an independent Metadata.
func (c *Chain) Load(ctx context.Context, id component.ModuleID) (*component.Metadata, error) {
	if m, ok := c.cache.Get(id); ok {
		c.logger.Debug("metadata cache hit", "module", id)
		return m.Fresh(), nil
	}

	searched := make([]string, 0, len(c.repos))
	for _, repo := range c.repos {
		m, err := repo.Load(ctx, id)
		if errors.Is(err, ErrModuleNotFound) {
			searched = append(searched, repo.Name())
			continue
		}
		if err != nil {
			return nil, err
		}
		c.logger.Debug("loaded module", "module", id, "repository", repo.Name(), "kind", repo.Kind())
		c.cache.Add(id, m)
		return m.Fresh(), nil
	}
	return nil, &ModuleNotFoundError{Module: id, Searched: searched}
}
