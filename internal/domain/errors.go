package domain

import "errors"

var (
	// ErrDimensionMismatch signals a stored vector width that differs from the
	// live embedding model. Startup-fatal: every similarity score computed
	// against a foreign-model index is silently corrupt.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationProvider signals a generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
	// ErrEmptyGeneration signals a blank completion from the generation model.
	ErrEmptyGeneration = errors.New("empty generation response")
	// ErrUnknownPhase signals a phase with no configured collection mapping.
	ErrUnknownPhase = errors.New("unknown phase")
)
