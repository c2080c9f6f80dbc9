// Package llmtools defines the function-calling tool schemas exposed to LLMs
// and the mapping from tool names to data sources. The same three retrieval
// tools are rendered in OpenAI function format and Anthropic input_schema
// format.
package llmtools

// Tool names.
const (
	ToolCRM       = "get_crm_data"
	ToolSupport   = "get_support_tickets"
	ToolAnalytics = "get_analytics"
)

var toolSources = map[string]string{
	ToolCRM:       "crm",
	ToolSupport:   "support",
	ToolAnalytics: "analytics",
}

// SourceForTool resolves a tool name to its data source.
func SourceForTool(tool string) (string, bool) {
	source, ok := toolSources[tool]
	return source, ok
}

// ToolNames lists the recognized tools, for error messages.
func ToolNames() []string {
	return []string{ToolCRM, ToolSupport, ToolAnalytics}
}

type toolSpec struct {
	name        string
	description string
	params      map[string]any
}

func commonParams() map[string]any {
	return map[string]any{
		"limit": map[string]any{
			"type":        "integer",
			"description": "Maximum number of results to return (1-50). Default 10. Use for voice: keep low.",
			"minimum":     1,
			"maximum":     50,
		},
		"offset": map[string]any{
			"type":        "integer",
			"description": "Number of results to skip for pagination. Ignored when voice=true.",
			"minimum":     0,
		},
		"voice": map[string]any{
			"type":        "boolean",
			"description": "When true, limits to 10 items for voice-optimized responses. Recommended for voice conversations.",
			"default":     false,
		},
	}
}

func specs() []toolSpec {
	crm := commonParams()
	crm["status"] = map[string]any{
		"type":        "string",
		"enum":        []string{"active", "inactive"},
		"description": "Filter customers by status.",
	}

	support := commonParams()
	support["status"] = map[string]any{
		"type":        "string",
		"enum":        []string{"open", "closed"},
		"description": "Filter tickets by status.",
	}
	support["priority"] = map[string]any{
		"type":        "string",
		"enum":        []string{"low", "medium", "high"},
		"description": "Filter tickets by priority.",
	}

	analytics := commonParams()
	analytics["metric"] = map[string]any{
		"type":        "string",
		"description": "Filter by metric name (e.g. daily_active_users).",
	}

	return []toolSpec{
		{
			name:        ToolCRM,
			description: "Retrieve customer CRM data. Use for questions about customers, accounts, or contact info.",
			params:      crm,
		},
		{
			name:        ToolSupport,
			description: "Retrieve support tickets. Use for questions about open/closed tickets, issues, or customer support.",
			params:      support,
		},
		{
			name:        ToolAnalytics,
			description: "Retrieve analytics and metrics. Use for questions about usage, daily active users, or performance metrics.",
			params:      analytics,
		},
	}
}

// OpenAITools returns the tool definitions in OpenAI Chat Completions format,
// ready for the request's "tools" parameter.
func OpenAITools() []map[string]any {
	tools := make([]map[string]any, 0, 3)
	for _, s := range specs() {
		tools = append(tools, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        s.name,
				"description": s.description,
				"parameters": map[string]any{
					"type":                 "object",
					"properties":           s.params,
					"required":             []string{},
					"additionalProperties": false,
				},
			},
		})
	}
	return tools
}

// AnthropicTools returns the tool definitions in Anthropic Messages format.
func AnthropicTools() []map[string]any {
	tools := make([]map[string]any, 0, 3)
	for _, s := range specs() {
		tools = append(tools, map[string]any{
			"name":        s.name,
			"description": s.description,
			"input_schema": map[string]any{
				"type":       "object",
				"properties": s.params,
				"required":   []string{},
			},
		})
	}
	return tools
}
