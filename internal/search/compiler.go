// Package search compiles marketplace search requests into listing filters
// and runs them against the listing store.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/metrics"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"github.com/DjordjeVuckovic/market-hunter/internal/token"
	"golang.org/x/sync/errgroup"
)

// Request is a listing search before compilation.
type Request struct {
	Query   string
	Fields  Flags
	Price   filter.Range[float64]
	Closing filter.Range[time.Time]
}

// Compiler builds listing predicates from search requests. It keeps no
// per-request state and is safe for concurrent use.
type Compiler struct {
	tokenizer  token.Tokenizer
	strategies map[FieldSelector]FieldStrategy
	metrics    *metrics.Metrics
}

type CompilerOption func(*compilerOptions)

type compilerOptions struct {
	tokenizer token.Tokenizer
	metrics   *metrics.Metrics
}

func WithTokenizer(t token.Tokenizer) CompilerOption {
	return func(o *compilerOptions) {
		o.tokenizer = t
	}
}

func WithMetrics(m *metrics.Metrics) CompilerOption {
	return func(o *compilerOptions) {
		o.metrics = m
	}
}

// NewCompiler returns a Compiler resolving business fields through businesses.
func NewCompiler(businesses storage.BusinessStore, opts ...CompilerOption) *Compiler {
	o := compilerOptions{tokenizer: token.NewQueryTokenizer()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Compiler{
		tokenizer:  o.tokenizer,
		strategies: newStrategies(businesses, o.metrics),
		metrics:    o.metrics,
	}
}

// Compile returns the predicate selecting the listings req asks for.
//
// The query is tokenized once and matched against every enabled field; field
// predicates and both range filters are ANDed together. With no field enabled
// only the ranges constrain the result. Business lookups for different fields
// run concurrently and the first failure is returned.
func (c *Compiler) Compile(ctx context.Context, req Request) (filter.Predicate[domain.Listing], error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveCompile(time.Since(start))
	}()

	q := c.tokenizer.Tokenize(req.Query)
	selectors := req.Fields.Selectors()

	fieldPreds := make([]filter.Predicate[domain.Listing], len(selectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, sel := range selectors {
		g.Go(func() error {
			p, err := c.FieldPredicate(gctx, sel, q)
			if err != nil {
				return err
			}
			fieldPreds[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return filter.Always[domain.Listing](false), fmt.Errorf("failed to compile search: %w", err)
	}

	p := filter.And(
		filter.AllOf(fieldPreds),
		PriceRange(req.Price),
		ClosingRange(req.Closing),
	)

	slog.Debug("Compiled listing search",
		"query", q.String(),
		"fields", len(selectors),
		"filter", p.String())

	return p, nil
}

// FieldPredicate builds the listing predicate for a single field.
func (c *Compiler) FieldPredicate(ctx context.Context, sel FieldSelector, q token.Query) (filter.Predicate[domain.Listing], error) {
	s, ok := c.strategies[sel]
	if !ok {
		return filter.Always[domain.Listing](false), fmt.Errorf("unknown search field: %d", int(sel))
	}
	return s.Build(ctx, q)
}
