// Package api wires the connector's HTTP surface: dataset queries, uploads,
// the LLM tool-calling facade, analysis, and the voice query shortcut.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voxdata/connector/internal/audit"
	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/inference"
	"github.com/voxdata/connector/internal/ingest"
	"github.com/voxdata/connector/internal/pipeline"
	"github.com/voxdata/connector/internal/server"
)

// Handler carries the connector's request handlers and their dependencies.
type Handler struct {
	svc      *pipeline.Service
	ingestor *ingest.Ingestor
	analyzer *inference.Analyzer
	audit    *audit.Store
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Handler)

// WithAuditStore exposes the query log under /admin/queries.
func WithAuditStore(s *audit.Store) Option {
	return func(h *Handler) { h.audit = s }
}

func NewHandler(svc *pipeline.Service, ingestor *ingest.Ingestor, analyzer *inference.Analyzer, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:      svc,
		ingestor: ingestor,
		analyzer: analyzer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts all routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/data/{source}", h.handleGetData)
	r.Post("/upload/{source}", h.handleUpload)
	r.Get("/llm/tools", h.handleTools)
	r.Post("/llm/query", h.handleToolQuery)
	r.Post("/analyze", h.handleAnalyze)
	r.Post("/query", h.handleVoiceQuery)
	if h.audit != nil {
		r.Get("/admin/queries", h.handleRecentQueries)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders any error as the canonical error body and records it in
// the request log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	server.AddError(r.Context(), err)

	var qe *domain.QueryError
	if !errors.As(err, &qe) {
		qe = domain.ErrServer("%v", err)
	}
	writeJSON(w, qe.HTTPStatusCode(), map[string]any{"error": qe})
}
