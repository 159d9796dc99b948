// Package source exposes a single vector collection as a retrieval
// source: semantic KNN lookups and exact substring scans over its
// indexed documents.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eplc-ai/ragd/internal/db"
	"github.com/eplc-ai/ragd/internal/domain"
	"github.com/eplc-ai/ragd/internal/metrics"
)

const contentField = "__content"

// store is the consumer interface for a retrieval source (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchContains(ctx context.Context, q *db.ContainsQuery) (*db.SearchResult, error)
	ProbeVectorDim(ctx context.Context, index string) (int, error)
}

// Source is a retrieval client bound to one collection.
// Query failures are absorbed: a broken source contributes zero hits
// instead of failing the whole retrieval.
type Source struct {
	name      domain.SourceTag
	indexName string
	keyPrefix string
	store     store
	logger    *zap.Logger
}

func New(name domain.SourceTag, s store, logger *zap.Logger) *Source {
	return &Source{
		name:      name,
		indexName: fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name),
		keyPrefix: fmt.Sprintf("%s%s:", domain.KeyPrefix, name),
		store:     s,
		logger:    logger,
	}
}

// Name returns the collection tag this source queries.
func (s *Source) Name() domain.SourceTag {
	return s.name
}

// Nearest runs a KNN search and returns up to k hits ordered by
// ascending distance. On error it logs and returns nil.
func (s *Source) Nearest(ctx context.Context, vector []float32, k int) []domain.Hit {
	start := time.Now()

	res, err := s.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    s.indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{contentField},
	})

	metrics.SourceQueryDuration.WithLabelValues(string(s.name), "semantic").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SourceQueriesTotal.WithLabelValues(string(s.name), "semantic", "error").Inc()
		s.logger.Warn("KNN search failed, source contributes no hits",
			zap.String("source", string(s.name)),
			zap.Error(err))
		return nil
	}

	metrics.SourceQueriesTotal.WithLabelValues(string(s.name), "semantic", "ok").Inc()
	return s.toHits(res, true)
}

// ContainsSubstring returns documents whose content contains pattern
// as a literal substring. Matches carry distance 0.0 (exact evidence).
// On error it logs and returns nil.
func (s *Source) ContainsSubstring(ctx context.Context, pattern string, limit int) []domain.Hit {
	start := time.Now()

	res, err := s.store.SearchContains(ctx, &db.ContainsQuery{
		IndexName:    s.indexName,
		Pattern:      pattern,
		Limit:        limit,
		ReturnFields: []string{contentField},
	})

	metrics.SourceQueryDuration.WithLabelValues(string(s.name), "exact").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SourceQueriesTotal.WithLabelValues(string(s.name), "exact", "error").Inc()
		s.logger.Warn("Substring search failed, source contributes no hits",
			zap.String("source", string(s.name)),
			zap.Error(err))
		return nil
	}

	metrics.SourceQueriesTotal.WithLabelValues(string(s.name), "exact", "ok").Inc()
	return s.toHits(res, false)
}

// Dimension probes the stored vector width of this collection.
// Returns (0, false) when the collection is empty or the probe fails.
func (s *Source) Dimension(ctx context.Context) (int, bool) {
	dim, err := s.store.ProbeVectorDim(ctx, s.indexName)
	if err != nil {
		s.logger.Warn("Vector dimension probe failed",
			zap.String("source", string(s.name)),
			zap.Error(err))
		return 0, false
	}
	if dim == 0 {
		return 0, false
	}
	return dim, true
}

func (s *Source) toHits(res *db.SearchResult, withDistance bool) []domain.Hit {
	if res == nil || len(res.Entries) == 0 {
		return nil
	}

	hits := make([]domain.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		h := domain.Hit{
			ID:     strings.TrimPrefix(e.Key, s.keyPrefix),
			Text:   e.Fields[contentField],
			Source: s.name,
		}
		if withDistance {
			h.Distance = e.Distance
		}
		hits = append(hits, h)
	}
	return hits
}
