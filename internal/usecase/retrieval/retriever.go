// Package retrieval fans a query out across registered collection
// sources and merges their hits into one deterministic ranking.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eplc-ai/ragd/internal/domain"
	"github.com/eplc-ai/ragd/internal/metrics"
)

const defaultSourceTimeout = 5 * time.Second

// Retriever queries a fixed set of sources. Source registration order
// is part of the merge contract: it is the first tie-breaker.
type Retriever struct {
	sources       []Source
	embed         Embedder
	sourceTimeout time.Duration
	logger        *zap.Logger
}

type Option func(*Retriever)

// WithSourceTimeout bounds each per-source query.
func WithSourceTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		if d > 0 {
			r.sourceTimeout = d
		}
	}
}

func New(sources []Source, embed Embedder, logger *zap.Logger, opts ...Option) *Retriever {
	r := &Retriever{
		sources:       sources,
		embed:         embed,
		sourceTimeout: defaultSourceTimeout,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve embeds the query once and runs a KNN search against every
// source concurrently. Failed sources contribute zero hits; an
// embedding failure fails the whole retrieval.
func (r *Retriever) Retrieve(ctx context.Context, query domain.Query) ([]domain.Hit, error) {
	res, err := r.embed.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	perSource := r.fanOut(ctx, func(ctx context.Context, s Source) []domain.Hit {
		return s.Nearest(ctx, res.Embedding, query.TopK)
	})

	return mergeRanked(perSource, query.TopK), nil
}

// RetrieveExact scans every source for documents containing the query
// text as a literal substring. No embedding is performed.
func (r *Retriever) RetrieveExact(ctx context.Context, query domain.Query) []domain.Hit {
	perSource := r.fanOut(ctx, func(ctx context.Context, s Source) []domain.Hit {
		return s.ContainsSubstring(ctx, query.Text, query.TopK)
	})

	return mergeRanked(perSource, query.TopK)
}

// RetrieveWithFallback tries an exact substring scan first and falls
// back to semantic retrieval when no source contains the literal text.
func (r *Retriever) RetrieveWithFallback(ctx context.Context, query domain.Query) ([]domain.Hit, error) {
	if hits := r.RetrieveExact(ctx, query); len(hits) > 0 {
		return hits, nil
	}

	metrics.RetrievalFallbacksTotal.Inc()
	r.logger.Debug("No exact matches, falling back to semantic retrieval",
		zap.Int("query_len", len(query.Text)))

	return r.Retrieve(ctx, query)
}

// fanOut runs query against every source concurrently and returns the
// per-source results in registration order. Each source gets its own
// timeout; sources never return errors, so the group always succeeds.
func (r *Retriever) fanOut(ctx context.Context, query func(ctx context.Context, s Source) []domain.Hit) [][]domain.Hit {
	perSource := make([][]domain.Hit, len(r.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range r.sources {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, r.sourceTimeout)
			defer cancel()
			perSource[i] = query(sctx, s)
			return nil
		})
	}
	_ = g.Wait()

	return perSource
}
