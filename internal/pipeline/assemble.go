package pipeline

import (
	"fmt"
	"time"

	"github.com/voxdata/connector/internal/domain"
)

// ContextMessage renders the human-readable result count annotation.
func ContextMessage(returned, total int) string {
	if total == 0 {
		return "No results"
	}
	if returned >= total {
		return fmt.Sprintf("Showing all %d results", total)
	}
	return fmt.Sprintf("Showing %d of %d results", returned, total)
}

// FreshnessMessage renders the data freshness annotation. With no
// source-specific freshness signal it reports the assembly instant.
func FreshnessMessage(now time.Time) string {
	return fmt.Sprintf("Data as of %s", now.UTC().Format(time.RFC3339))
}

// Assemble builds the response envelope around the reduced data. total is the
// count after filtering but before pagination or aggregation; when aggregation
// fired, returned is 1 while total still reflects the filtered collection (the
// "1 of N" reading is ambiguous for a voice listener, but it is the contract).
func Assemble(source string, dataType domain.DataType, total, returned int, data []any, params domain.QueryParams, now time.Time) domain.Envelope {
	contextMsg := ContextMessage(returned, total)
	freshness := FreshnessMessage(now)

	meta := domain.Metadata{
		TotalResults:    total,
		ReturnedResults: returned,
		DataFreshness:   freshness,
		DataType:        dataType,
		Source:          source,
		ContextMessage:  contextMsg,
	}

	if params.Voice && total > 0 {
		meta.VoiceSummary = voiceSummary(dataType, total, contextMsg, freshness, data)
	}

	return domain.Envelope{Data: data, Metadata: meta}
}

func voiceSummary(dataType domain.DataType, total int, contextMsg, freshness string, data []any) string {
	switch dataType {
	case domain.DataTypeCRM:
		return fmt.Sprintf("%d customers. %s", total, contextMsg)
	case domain.DataTypeSupport:
		return fmt.Sprintf("%d tickets. %s", total, contextMsg)
	case domain.DataTypeAnalytics:
		if len(data) == 1 {
			if agg, ok := data[0].(domain.AggregateSummary); ok {
				return agg.Summary
			}
		}
	}
	return fmt.Sprintf("%s. %s", contextMsg, freshness)
}

// EmptyEnvelope is the successful empty response used for unrecognized
// sources; keeping it a success rather than an error makes the tool-calling
// facade resilient to hallucinated source names.
func EmptyEnvelope(source string) domain.Envelope {
	return domain.Envelope{
		Data: []any{},
		Metadata: domain.Metadata{
			TotalResults:    0,
			ReturnedResults: 0,
			DataFreshness:   "unknown",
			DataType:        domain.DataTypeUnknown,
			Source:          source,
			ContextMessage:  "No results",
		},
	}
}
