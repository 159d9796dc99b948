package assistant

import (
	"context"

	"github.com/eplc-ai/ragd/internal/domain"
)

// Retriever produces ranked hits for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query domain.Query) ([]domain.Hit, error)
	RetrieveWithFallback(ctx context.Context, query domain.Query) ([]domain.Hit, error)
}

// Generator produces model output from a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
