// Package chi exposes the assistant over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eplc-ai/ragd/internal/domain"
	"github.com/eplc-ai/ragd/internal/usecase/assistant"
	healthuc "github.com/eplc-ai/ragd/internal/usecase/health"
)

const maxQuestionLen = 8192

// assistantService is the consumer interface for the assistant usecase.
type assistantService interface {
	Answer(ctx context.Context, question string) (assistant.AnswerResult, error)
	Draft(ctx context.Context, req assistant.DraftRequest) (assistant.DraftResult, error)
}

// healthService is the consumer interface for health checks.
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server wires HTTP routes to the usecases.
type Server struct {
	assistant assistantService
	health    healthService
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(assistantSvc assistantService, healthSvc healthService, logger *zap.Logger) *Server {
	return &Server{
		assistant: assistantSvc,
		health:    healthSvc,
		logger:    logger,
	}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/answers", s.handleAnswer)
	r.Post("/v1/drafts", s.handleDraft)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type answerRequest struct {
	Question string `json:"question"`
}

type citationItem struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

type answerResponse struct {
	Success   bool           `json:"success"`
	Answer    string         `json:"answer,omitempty"`
	Citations []citationItem `json:"citations,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(question) > maxQuestionLen {
		writeError(w, http.StatusBadRequest, "question is too long")
		return
	}

	res, err := s.assistant.Answer(r.Context(), question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	citations := make([]citationItem, 0, len(res.Citations))
	for _, c := range res.Citations {
		citations = append(citations, citationItem{ID: c.ID, Source: string(c.Source)})
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Success:   true,
		Answer:    res.Answer,
		Citations: citations,
	})
}

type draftRequest struct {
	Phase        string `json:"phase"`
	Template     string `json:"template"`
	Section      string `json:"section"`
	Details      string `json:"details"`
	Instructions string `json:"instructions,omitempty"`
}

type draftResponse struct {
	Success    bool   `json:"success"`
	Draft      string `json:"draft,omitempty"`
	Disclaimed bool   `json:"disclaimed,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Phase) == "" {
		writeError(w, http.StatusBadRequest, "phase is required")
		return
	}
	if strings.TrimSpace(req.Template) == "" {
		writeError(w, http.StatusBadRequest, "template is required")
		return
	}
	if strings.TrimSpace(req.Section) == "" {
		writeError(w, http.StatusBadRequest, "section is required")
		return
	}
	if strings.TrimSpace(req.Details) == "" {
		writeError(w, http.StatusBadRequest, "details are required")
		return
	}

	res, err := s.assistant.Draft(r.Context(), assistant.DraftRequest{
		Phase:        req.Phase,
		Template:     req.Template,
		Section:      req.Section,
		Details:      req.Details,
		Instructions: req.Instructions,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Success:    true,
		Draft:      res.Draft,
		Disclaimed: res.Disclaimed,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrUnknownPhase):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmbeddingProvider),
		errors.Is(err, domain.ErrGenerationProvider),
		errors.Is(err, domain.ErrEmptyGeneration):
		writeError(w, http.StatusBadGateway, safeDomainMessage(err))
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmbeddingProvider,
		domain.ErrGenerationProvider,
		domain.ErrEmptyGeneration,
		domain.ErrDimensionMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
