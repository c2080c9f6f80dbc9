package pipeline

import "github.com/voxdata/connector/internal/domain"

// Identify classifies a collection by inspecting its first record only.
// Collections are homogeneous by invariant, so the first element is taken as
// representative; this trades per-record validation for speed. Callers that
// cannot guarantee homogeneity must not rely on the result.
func Identify(records []domain.Record) domain.DataType {
	if len(records) == 0 {
		return domain.DataTypeEmpty
	}

	switch records[0].(type) {
	case domain.AnalyticsPoint:
		return domain.DataTypeAnalytics
	case domain.Ticket:
		return domain.DataTypeSupport
	case domain.Customer:
		return domain.DataTypeCRM
	default:
		return domain.DataTypeUnknown
	}
}
