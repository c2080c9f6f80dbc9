package pipeline

import "github.com/voxdata/connector/internal/domain"

// Filter retains records matching every supplied predicate that applies to
// their variant. Predicates that do not apply to a variant are not enforced
// against it: filtering customers by priority keeps every customer. Matching
// is exact and case-sensitive; input order is preserved. With no predicates
// supplied the input is returned as-is.
func Filter(records []domain.Record, params domain.QueryParams) []domain.Record {
	if params.Status == "" && params.Priority == "" && params.Metric == "" {
		return records
	}

	result := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, params) {
			result = append(result, rec)
		}
	}
	return result
}

func matches(rec domain.Record, params domain.QueryParams) bool {
	switch r := rec.(type) {
	case domain.Customer:
		return params.Status == "" || r.Status == params.Status
	case domain.Ticket:
		if params.Status != "" && r.Status != params.Status {
			return false
		}
		return params.Priority == "" || r.Priority == params.Priority
	case domain.AnalyticsPoint:
		return params.Metric == "" || r.Metric == params.Metric
	default:
		return true
	}
}
