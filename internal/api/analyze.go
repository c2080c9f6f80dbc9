package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/inference"
	"github.com/voxdata/connector/internal/store"
)

const analyzeSnapshotLimit = 50

// AnalyzeRequest is the body of POST /analyze. Source narrows the snapshot to
// one dataset; empty means all three.
type AnalyzeRequest struct {
	Query     string `json:"query"`
	Source    string `json:"source"`
	ModelType string `json:"model_type"`
}

// handleAnalyze runs a free-text question over a snapshot of the datasets.
// Sources that fail to load are skipped with a warning so one corrupt file
// does not take the whole analysis down.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.ErrInvalidRequest("invalid request body: %v", err))
		return
	}
	if req.Query == "" {
		writeError(w, r, domain.ErrInvalidRequest("query is required").WithParam("query"))
		return
	}

	sources := []string{req.Source}
	if req.Source == "" {
		sources = sources[:0]
		for s := range store.SourceFiles {
			sources = append(sources, s)
		}
		sort.Strings(sources)
	} else if !store.Recognized(req.Source) {
		writeError(w, r, domain.ErrInvalidRequest("unknown source: %s", req.Source).WithParam("source"))
		return
	}

	snapshots := make(map[string][]any)
	var used []string
	for _, src := range sources {
		env, err := h.svc.Fetch(r.Context(), src, domain.QueryParams{Limit: analyzeSnapshotLimit})
		if err != nil {
			h.logger.Warn("skipping source for analysis", "source", src, "error", err)
			continue
		}
		if len(env.Data) == 0 {
			continue
		}
		snapshots[src] = env.Data
		used = append(used, src)
	}
	if len(snapshots) == 0 {
		writeError(w, r, domain.ErrInvalidRequest("No data available. Upload data first."))
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Query, snapshots, inference.ModelType(req.ModelType))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis":     result,
		"sources_used": used,
	})
}
