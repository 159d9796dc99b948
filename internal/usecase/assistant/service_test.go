package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/eplc-ai/ragd/internal/domain"
)

type mockRetriever struct {
	hits          []domain.Hit
	err           error
	retrieveCalls int
	fallbackCalls int
	lastQuery     domain.Query
}

func (m *mockRetriever) Retrieve(_ context.Context, q domain.Query) ([]domain.Hit, error) {
	m.retrieveCalls++
	m.lastQuery = q
	return m.hits, m.err
}

func (m *mockRetriever) RetrieveWithFallback(_ context.Context, q domain.Query) ([]domain.Hit, error) {
	m.fallbackCalls++
	m.lastQuery = q
	return m.hits, m.err
}

type mockGenerator struct {
	output     string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (m *mockGenerator) Generate(_ context.Context, system, user string) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

func defaultConfig() Config {
	return Config{
		TopK:            6,
		SimilarityFloor: 0.45,
		MinSimilarity:   0.35,
		TargetMinWords:  120,
		TargetMaxWords:  180,
	}
}

func newTestService(qa *mockRetriever, phases map[string]Retriever, gen *mockGenerator) *Service {
	return New(qa, phases, gen, defaultConfig(), zap.NewNop())
}

func TestAnswer_GroundedResponse(t *testing.T) {
	qa := &mockRetriever{hits: []domain.Hit{
		{ID: "doc-1", Text: "The framework requires sign-off.", Distance: 0.1, Source: "eplc"},
		{ID: "doc-2", Text: "Reviews happen per phase.", Distance: 0.3, Source: "hhs"},
	}}
	gen := &mockGenerator{output: "Sign-off is required."}
	svc := newTestService(qa, nil, gen)

	res, err := svc.Answer(context.Background(), "Is sign-off required?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != "Sign-off is required." {
		t.Errorf("unexpected answer: %q", res.Answer)
	}
	if len(res.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(res.Citations))
	}
	if res.Citations[0].ID != "doc-1" || res.Citations[0].Source != "eplc" {
		t.Errorf("unexpected first citation: %+v", res.Citations[0])
	}
	if !strings.Contains(gen.lastUser, "The framework requires sign-off.") {
		t.Error("expected retrieved text in the generation prompt")
	}
	if !strings.Contains(gen.lastUser, "\n\n---\n\n") {
		t.Error("expected context blocks joined with separator")
	}
}

func TestAnswer_ZeroHitsSkipsGenerator(t *testing.T) {
	qa := &mockRetriever{}
	gen := &mockGenerator{output: "should not be used"}
	svc := newTestService(qa, nil, gen)

	res, err := svc.Answer(context.Background(), "Unknown topic?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != "Not specified in the provided context." {
		t.Errorf("expected canonical refusal, got %q", res.Answer)
	}
	if gen.calls != 0 {
		t.Errorf("expected generator not called on zero hits, got %d calls", gen.calls)
	}
	if len(res.Citations) != 0 {
		t.Errorf("expected no citations, got %d", len(res.Citations))
	}
}

func TestAnswer_WeakHitsStillGenerate(t *testing.T) {
	// All hits below the floor: context degrades to the sentinel but
	// the generator is still consulted.
	qa := &mockRetriever{hits: []domain.Hit{
		{ID: "doc-1", Text: "loosely related", Distance: 0.9, Source: "eplc"},
	}}
	gen := &mockGenerator{output: "Not specified in the provided context."}
	svc := newTestService(qa, nil, gen)

	res, err := svc.Answer(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected generator called once, got %d", gen.calls)
	}
	if !strings.Contains(gen.lastUser, "(no strong matches)") {
		t.Error("expected sentinel context when all hits filtered out")
	}
	if len(res.Citations) != 0 {
		t.Errorf("expected no citations for filtered-out hits, got %d", len(res.Citations))
	}
}

func TestAnswer_RetrieveErrorPropagates(t *testing.T) {
	qa := &mockRetriever{err: errors.New("embedding provider down")}
	gen := &mockGenerator{}
	svc := newTestService(qa, nil, gen)

	_, err := svc.Answer(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error when retrieval fails")
	}
	if gen.calls != 0 {
		t.Errorf("expected generator not called after retrieval failure")
	}
}

func TestAnswer_GenerationErrorPropagates(t *testing.T) {
	qa := &mockRetriever{hits: []domain.Hit{{ID: "doc-1", Text: "x", Distance: 0.1}}}
	gen := &mockGenerator{err: errors.New("chat api down")}
	svc := newTestService(qa, nil, gen)

	if _, err := svc.Answer(context.Background(), "q"); err == nil {
		t.Fatal("expected error when generation fails")
	}
}

func TestDraft_HappyPath(t *testing.T) {
	impl := &mockRetriever{hits: []domain.Hit{
		{ID: "doc-1", Text: "Capacity planning guidance.", Distance: 0.2, Source: "implementation"},
	}}
	gen := &mockGenerator{output: "The capacity plan covers projected load."}
	svc := newTestService(nil, map[string]Retriever{"implementation": impl}, gen)

	res, err := svc.Draft(context.Background(), DraftRequest{
		Phase:    "Implementation",
		Template: "Capacity Plan",
		Section:  "Scope",
		Details:  "Claims processing portal, 10k users.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Draft != "The capacity plan covers projected load." {
		t.Errorf("unexpected draft: %q", res.Draft)
	}
	if res.Disclaimed {
		t.Error("did not expect assumptions block for strong evidence")
	}
	if impl.retrieveCalls != 1 {
		t.Fatalf("expected 1 retrieval, got %d", impl.retrieveCalls)
	}
	wantQuery := "Implementation Phase | Template: Capacity Plan | Section: Scope\nClaims processing portal, 10k users."
	if impl.lastQuery.Text != wantQuery {
		t.Errorf("unexpected query text:\ngot  %q\nwant %q", impl.lastQuery.Text, wantQuery)
	}
	if !strings.Contains(gen.lastUser, "Draft the Scope section for the Capacity Plan in the Implementation Phase.") {
		t.Errorf("unexpected generation prompt: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "Concise, specific, 120-180 words.") {
		t.Error("expected default instructions when none provided")
	}
}

func TestDraft_UnknownPhase(t *testing.T) {
	gen := &mockGenerator{}
	svc := newTestService(nil, map[string]Retriever{
		"design":      &mockRetriever{},
		"requirement": &mockRetriever{},
	}, gen)

	_, err := svc.Draft(context.Background(), DraftRequest{Phase: "Testing"})
	if err == nil {
		t.Fatal("expected error for unknown phase")
	}
	if !errors.Is(err, domain.ErrUnknownPhase) {
		t.Errorf("expected ErrUnknownPhase, got %v", err)
	}
	if !strings.Contains(err.Error(), "design, requirement") {
		t.Errorf("expected error to list known phases, got %q", err.Error())
	}
	if gen.calls != 0 {
		t.Error("expected generator not called for unknown phase")
	}
}

func TestDraft_PhaseIsCaseInsensitive(t *testing.T) {
	impl := &mockRetriever{}
	gen := &mockGenerator{output: "draft"}
	svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

	if _, err := svc.Draft(context.Background(), DraftRequest{Phase: "DESIGN", Template: "SLA", Section: "Purpose", Details: "d"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if impl.retrieveCalls != 1 {
		t.Fatal("expected phase lookup to be case-insensitive")
	}
}

func TestDraft_CustomInstructionsPassThrough(t *testing.T) {
	impl := &mockRetriever{}
	gen := &mockGenerator{output: "draft"}
	svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

	_, err := svc.Draft(context.Background(), DraftRequest{
		Phase:        "design",
		Template:     "SLA",
		Section:      "Purpose",
		Details:      "d",
		Instructions: "Use bullet points.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.lastUser, "Use bullet points.") {
		t.Error("expected custom instructions in the prompt")
	}
	if strings.Contains(gen.lastUser, "Concise, specific,") {
		t.Error("did not expect default instructions when custom ones provided")
	}
}

func TestDraft_DisclaimerOnWeakEvidence(t *testing.T) {
	// Best similarity 0.2 < 0.35 * 0.75 = 0.2625: assumptions appended.
	impl := &mockRetriever{hits: []domain.Hit{
		{ID: "doc-1", Text: "weak", Distance: 0.8, Source: "design"},
	}}
	gen := &mockGenerator{output: "Base draft."}
	svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

	res, err := svc.Draft(context.Background(), DraftRequest{Phase: "design", Template: "SLA", Section: "Risks", Details: "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Disclaimed {
		t.Fatal("expected draft to be disclaimed")
	}
	if !strings.Contains(res.Draft, "Assumptions & Next Steps:") {
		t.Errorf("expected assumptions block, got %q", res.Draft)
	}
	if !strings.Contains(res.Draft, "- Confirm data categories and user groups.") {
		t.Error("expected full assumptions bullets")
	}
	if !strings.HasPrefix(res.Draft, "Base draft.") {
		t.Errorf("expected generated text before the block, got %q", res.Draft)
	}
}

func TestDraft_DisclaimerBoundary(t *testing.T) {
	gen := &mockGenerator{output: "Draft."}

	tests := []struct {
		name       string
		similarity float64
		disclaimed bool
	}{
		{"exactly at threshold not disclaimed", 0.2625, false},
		{"just below threshold disclaimed", 0.2624, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			impl := &mockRetriever{hits: []domain.Hit{
				{ID: "doc-1", Text: "x", Distance: 1.0 - tc.similarity, Source: "design"},
			}}
			svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

			res, err := svc.Draft(context.Background(), DraftRequest{Phase: "design", Template: "SLA", Section: "Purpose", Details: "d"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Disclaimed != tc.disclaimed {
				t.Errorf("Disclaimed = %v, want %v", res.Disclaimed, tc.disclaimed)
			}
		})
	}
}

func TestDraft_ZeroHitsAlwaysDisclaimed(t *testing.T) {
	impl := &mockRetriever{}
	gen := &mockGenerator{output: "Draft from nothing."}
	svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

	res, err := svc.Draft(context.Background(), DraftRequest{Phase: "design", Template: "SLA", Section: "Purpose", Details: "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Disclaimed {
		t.Error("expected disclaimer when nothing was retrieved")
	}
	if !strings.Contains(gen.lastUser, "(no strong matches)") {
		t.Error("expected sentinel context in prompt")
	}
}

func TestDraft_StrongEvidenceSurvivesFilter(t *testing.T) {
	// Floor 0.45: similarities 0.9 and 0.8 both survive and appear in
	// the prompt in ascending-distance order.
	impl := &mockRetriever{hits: []domain.Hit{
		{ID: "doc-1", Text: "first block", Distance: 0.1, Source: "design"},
		{ID: "doc-2", Text: "second block", Distance: 0.2, Source: "design"},
	}}
	gen := &mockGenerator{output: "Draft."}
	svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

	res, err := svc.Draft(context.Background(), DraftRequest{Phase: "design", Template: "SLA", Section: "Purpose", Details: "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Disclaimed {
		t.Error("did not expect disclaimer for strong evidence")
	}
	first := strings.Index(gen.lastUser, "first block")
	second := strings.Index(gen.lastUser, "second block")
	if first == -1 || second == -1 || first > second {
		t.Errorf("expected both blocks in order, got prompt %q", gen.lastUser)
	}
}

func TestDraft_GenerationErrorPropagates(t *testing.T) {
	impl := &mockRetriever{}
	gen := &mockGenerator{err: errors.New("chat api down")}
	svc := newTestService(nil, map[string]Retriever{"design": impl}, gen)

	if _, err := svc.Draft(context.Background(), DraftRequest{Phase: "design", Template: "SLA", Section: "Purpose", Details: "d"}); err == nil {
		t.Fatal("expected error when generation fails")
	}
}
