// Package assistant implements the two user-facing operations: grounded
// question answering and phase-scoped document drafting.
package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/eplc-ai/ragd/internal/domain"
	"github.com/eplc-ai/ragd/internal/metrics"
)

type Config struct {
	TopK            int
	SimilarityFloor float64
	MinSimilarity   float64
	TargetMinWords  int
	TargetMaxWords  int
}

// Service wires retrievers and a generator into the answer and draft
// flows. The qa retriever spans the knowledge collections; each phase
// retriever is scoped to one phase collection.
type Service struct {
	qa         Retriever
	phases     map[string]Retriever
	phaseNames []string
	gen        Generator
	cfg        Config
	logger     *zap.Logger
}

func New(qa Retriever, phases map[string]Retriever, gen Generator, cfg Config, logger *zap.Logger) *Service {
	names := make([]string, 0, len(phases))
	for name := range phases {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Service{
		qa:         qa,
		phases:     phases,
		phaseNames: names,
		gen:        gen,
		cfg:        cfg,
		logger:     logger,
	}
}

type Citation struct {
	ID     string
	Source domain.SourceTag
}

type AnswerResult struct {
	Answer    string
	Citations []Citation
}

// Answer retrieves evidence for the question (exact match first, then
// semantic) and generates a grounded answer. With zero retrieved hits
// the canonical refusal is returned without calling the generator.
func (s *Service) Answer(ctx context.Context, question string) (AnswerResult, error) {
	hits, err := s.qa.RetrieveWithFallback(ctx, domain.Query{Text: question, TopK: s.cfg.TopK})
	if err != nil {
		return AnswerResult{}, fmt.Errorf("retrieve evidence: %w", err)
	}

	if len(hits) == 0 {
		s.logger.Info("No evidence retrieved, returning canonical refusal")
		return AnswerResult{Answer: noAnswerText}, nil
	}

	kept := domain.FilterByThreshold(hits, s.cfg.SimilarityFloor)

	answer, err := s.gen.Generate(ctx, qaSystemPrompt, qaUserPrompt(question, domain.JoinContext(kept)))
	if err != nil {
		return AnswerResult{}, fmt.Errorf("generate answer: %w", err)
	}
	if answer == "" {
		answer = noAnswerText
	}

	citations := make([]Citation, 0, len(kept))
	for _, h := range kept {
		citations = append(citations, Citation{ID: h.ID, Source: h.Source})
	}

	return AnswerResult{Answer: answer, Citations: citations}, nil
}

type DraftRequest struct {
	Phase        string
	Template     string
	Section      string
	Details      string
	Instructions string
}

type DraftResult struct {
	Draft      string
	Disclaimed bool
}

// Draft generates a paste-ready document section scoped to one phase
// collection. When the best pre-filter similarity is too weak, the
// draft is annotated with an assumptions block.
func (s *Service) Draft(ctx context.Context, req DraftRequest) (DraftResult, error) {
	phase := strings.ToLower(req.Phase)

	retriever, ok := s.phases[phase]
	if !ok {
		return DraftResult{}, fmt.Errorf("%w: %q, must be one of: %s",
			domain.ErrUnknownPhase, req.Phase, strings.Join(s.phaseNames, ", "))
	}

	instructions := req.Instructions
	if instructions == "" {
		instructions = defaultInstructions(s.cfg.TargetMinWords, s.cfg.TargetMaxWords)
	}

	query := draftQueryText(phase, req.Template, req.Section, req.Details)
	hits, err := retriever.Retrieve(ctx, domain.Query{Text: query, TopK: s.cfg.TopK})
	if err != nil {
		return DraftResult{}, fmt.Errorf("retrieve phase context: %w", err)
	}

	kept := domain.FilterByThreshold(hits, s.cfg.SimilarityFloor)
	evidence := domain.JoinContext(kept)

	draft, err := s.gen.Generate(ctx, draftSystemPrompt,
		draftUserPrompt(evidence, req.Section, req.Template, phase, req.Details, instructions))
	if err != nil {
		return DraftResult{}, fmt.Errorf("generate draft: %w", err)
	}

	// Confidence is judged on the raw retrieval, not the filtered set:
	// a near-miss below the floor is still weak evidence, not none.
	disclaimed := domain.NeedsDisclaimer(hits, s.cfg.MinSimilarity)
	if disclaimed {
		draft += assumptionsBlock
		metrics.DisclaimersTotal.Inc()
		s.logger.Info("Draft annotated with assumptions block",
			zap.String("phase", phase),
			zap.Float64("best_similarity", domain.BestSimilarity(hits)))
	}

	return DraftResult{Draft: draft, Disclaimed: disclaimed}, nil
}

// Phases returns the known phase names in sorted order.
func (s *Service) Phases() []string {
	return s.phaseNames
}
