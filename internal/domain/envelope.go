package domain

// DataType classifies a loaded collection. It is derived per fetch from the
// first record's variant, never stored.
type DataType string

const (
	DataTypeCRM       DataType = "tabular_crm"
	DataTypeSupport   DataType = "tabular_support"
	DataTypeAnalytics DataType = "time_series_analytics"
	DataTypeEmpty     DataType = "empty"
	DataTypeUnknown   DataType = "unknown"
)

// QueryParams carries the caller-supplied shaping parameters. A zero Limit
// means "use the configured default page size".
type QueryParams struct {
	Limit    int
	Offset   int
	Status   string
	Priority string
	Metric   string
	Voice    bool
}

// AggregatedType is the discriminator value carried by AggregateSummary so
// callers can detect the aggregated case without comparing shapes.
const AggregatedType = "aggregated"

// AggregateSummary replaces an oversized analytics collection in the response.
// It summarizes the whole filtered collection, not just one page.
type AggregateSummary struct {
	Type    string  `json:"type"`
	Metric  string  `json:"metric,omitempty"`
	Count   int     `json:"count"`
	Avg     float64 `json:"avg,omitempty"`
	Min     int     `json:"min,omitempty"`
	Max     int     `json:"max,omitempty"`
	Summary string  `json:"summary"`
}

// Metadata describes the shaped result set.
type Metadata struct {
	TotalResults    int      `json:"total_results"`
	ReturnedResults int      `json:"returned_results"`
	DataFreshness   string   `json:"data_freshness"`
	DataType        DataType `json:"data_type"`
	Source          string   `json:"source"`
	ContextMessage  string   `json:"context_message"`
	VoiceSummary    string   `json:"voice_summary,omitempty"`
}

// Envelope is the response of every query path: either a page of records or a
// single AggregateSummary, plus metadata.
type Envelope struct {
	Data     []any    `json:"data"`
	Metadata Metadata `json:"metadata"`
}
