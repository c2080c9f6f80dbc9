package pipeline

import (
	"sort"

	"github.com/voxdata/connector/internal/domain"
)

// RankRecent orders records newest-first by their recency timestamp
// (created_at for customers and tickets, date for analytics points). The sort
// is stable: records with equal timestamps keep their relative input order.
// The input slice is not modified.
func RankRecent(records []domain.Record) []domain.Record {
	if len(records) == 0 {
		return records
	}

	ranked := make([]domain.Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RecencyKey().After(ranked[j].RecencyKey())
	})
	return ranked
}
