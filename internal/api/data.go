package api

import (
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/server"
)

const maxUploadBytes = 10 << 20

// handleGetData serves GET /data/{source}.
func (h *Handler) handleGetData(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	server.AddLogField(r.Context(), "source", source)

	params, err := queryParamsFromURL(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	env, err := h.svc.Fetch(r.Context(), source, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func queryParamsFromURL(r *http.Request) (domain.QueryParams, error) {
	var params domain.QueryParams
	q := r.URL.Query()

	var err error
	if params.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return params, err
	}
	if params.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return params, err
	}
	params.Status = q.Get("status")
	params.Priority = q.Get("priority")
	params.Metric = q.Get("metric")

	if v := q.Get("voice"); v != "" {
		voice, err := strconv.ParseBool(v)
		if err != nil {
			return params, domain.ErrInvalidRequest("voice must be a boolean").WithParam("voice")
		}
		params.Voice = voice
	}
	return params, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidRequest("%s must be an integer", name).WithParam(name)
	}
	return n, nil
}

// handleUpload serves POST /upload/{source} with a multipart file field named
// "file", containing JSON or CSV.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	server.AddLogField(r.Context(), "source", source)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, domain.ErrInvalidRequest("expected multipart form upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.ErrInvalidRequest("missing file field").WithParam("file"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, r, domain.ErrServer("reading upload: %v", err))
		return
	}
	if !utf8.Valid(content) {
		writeError(w, r, domain.ErrInvalidRequest("file must be UTF-8 encoded"))
		return
	}

	n, err := h.ingestor.Ingest(r.Context(), source, header.Filename, content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"source":  source,
		"records": n,
	})
}
