package health

import "context"

// DBPinger checks vector store connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider reachability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
