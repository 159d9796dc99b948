package retrieval

import (
	"context"

	"github.com/eplc-ai/ragd/internal/domain"
)

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Source is one retrieval collection. Implementations absorb their own
// query failures and return zero hits instead of errors.
type Source interface {
	Name() domain.SourceTag
	Nearest(ctx context.Context, vector []float32, k int) []domain.Hit
	ContainsSubstring(ctx context.Context, pattern string, limit int) []domain.Hit
	Dimension(ctx context.Context) (int, bool)
}
