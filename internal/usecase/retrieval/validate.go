package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eplc-ai/ragd/internal/domain"
)

// probeText is a throwaway input used to learn the model's vector width.
const probeText = "test"

// ValidateDimensions embeds a probe and checks every source's stored
// vector width against the model's. Sources with unknown width (empty
// collections, failed probes) are skipped with a warning; a confirmed
// mismatch is a hard error naming the collection.
func ValidateDimensions(ctx context.Context, embed Embedder, sources []Source, logger *zap.Logger) error {
	res, err := embed.Embed(ctx, probeText)
	if err != nil {
		return fmt.Errorf("probe embedding: %w", err)
	}
	modelDim := len(res.Embedding)
	if modelDim == 0 {
		return fmt.Errorf("probe embedding: %w: model returned empty vector", domain.ErrDimensionMismatch)
	}

	for _, s := range sources {
		dim, ok := s.Dimension(ctx)
		if !ok {
			logger.Warn("Skipping dimension check, collection width unknown",
				zap.String("source", string(s.Name())))
			continue
		}
		if dim != modelDim {
			return fmt.Errorf("collection %q: %w: index dimension %d, model dimension %d",
				s.Name(), domain.ErrDimensionMismatch, dim, modelDim)
		}
		logger.Info("Dimension check passed",
			zap.String("source", string(s.Name())),
			zap.Int("dimension", dim))
	}

	return nil
}
