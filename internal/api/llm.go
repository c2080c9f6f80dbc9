package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/voxdata/connector/internal/audit"
	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/llmtools"
	"github.com/voxdata/connector/internal/server"
)

// handleTools serves GET /llm/tools?provider=openai|anthropic. The payload
// goes straight into the provider's "tools" request parameter.
func (h *Handler) handleTools(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		provider = "openai"
	}

	switch strings.ToLower(provider) {
	case "openai":
		writeJSON(w, http.StatusOK, map[string]any{"tools": llmtools.OpenAITools()})
	case "anthropic":
		writeJSON(w, http.StatusOK, map[string]any{"tools": llmtools.AnthropicTools()})
	default:
		writeError(w, r, domain.ErrInvalidRequest("provider must be 'openai' or 'anthropic'").WithParam("provider"))
	}
}

// ToolCallRequest is the body of POST /llm/query: a tool_use block forwarded
// from the LLM.
type ToolCallRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// handleToolQuery executes an LLM tool call. Unknown tool names are boundary
// validation errors; unknown sources inside a known tool cannot happen since
// the tool list is closed.
func (h *Handler) handleToolQuery(w http.ResponseWriter, r *http.Request) {
	var req ToolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.ErrInvalidRequest("invalid request body: %v", err))
		return
	}
	server.AddLogField(r.Context(), "tool", req.Tool)

	source, ok := llmtools.SourceForTool(req.Tool)
	if !ok {
		writeError(w, r, domain.ErrInvalidRequest(
			"unknown tool: %s. Use %s.", req.Tool, strings.Join(llmtools.ToolNames(), ", ")).WithParam("tool"))
		return
	}

	env, err := h.svc.Fetch(r.Context(), source, queryParamsFromArguments(req.Arguments))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// queryParamsFromArguments maps loosely-typed LLM arguments onto QueryParams.
// Arguments the schema doesn't define are ignored rather than rejected; LLMs
// routinely invent extras.
func queryParamsFromArguments(args map[string]any) domain.QueryParams {
	var params domain.QueryParams
	params.Limit = intArgument(args["limit"])
	params.Offset = intArgument(args["offset"])
	params.Status, _ = args["status"].(string)
	params.Priority, _ = args["priority"].(string)
	params.Metric, _ = args["metric"].(string)
	params.Voice, _ = args["voice"].(bool)
	return params
}

func intArgument(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return 0
}

// VoiceQueryRequest is the body of POST /query.
type VoiceQueryRequest struct {
	Query string `json:"query"`
}

// handleVoiceQuery routes a free-text voice query to one of the retrieval
// tools by keyword and executes it. A real deployment would let the LLM pick
// the tool; this endpoint is the offline shortcut.
func (h *Handler) handleVoiceQuery(w http.ResponseWriter, r *http.Request) {
	var req VoiceQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.ErrInvalidRequest("invalid request body: %v", err))
		return
	}

	tool, params, ok := routeVoiceQuery(req.Query)
	if !ok {
		writeError(w, r, domain.ErrInvalidRequest("could not route query; try 'churn rate' or 'support tickets'").WithParam("query"))
		return
	}
	server.AddLogField(r.Context(), "tool", tool)

	source, _ := llmtools.SourceForTool(tool)
	env, err := h.svc.Fetch(r.Context(), source, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"voice_query": req.Query,
		"tool_used":   tool,
		"results":     env.Metadata.ReturnedResults,
		"data":        env,
	})
}

func routeVoiceQuery(query string) (string, domain.QueryParams, bool) {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "churn") || strings.Contains(q, "revenue"):
		return llmtools.ToolAnalytics, domain.QueryParams{Limit: 10, Voice: true}, true
	case strings.Contains(q, "customer"):
		return llmtools.ToolCRM, domain.QueryParams{Limit: 5, Voice: true}, true
	case strings.Contains(q, "ticket") || strings.Contains(q, "support"):
		return llmtools.ToolSupport, domain.QueryParams{Status: domain.TicketStatusOpen, Voice: true}, true
	default:
		return "", domain.QueryParams{}, false
	}
}

// handleRecentQueries serves GET /admin/queries from the audit log.
func (h *Handler) handleRecentQueries(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := h.audit.RecentQueries(r.Context(), limit)
	if err != nil {
		writeError(w, r, domain.ErrServer("reading audit log: %v", err))
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"queries": entries})
}
