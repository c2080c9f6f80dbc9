package pipeline

import (
	"fmt"
	"math"

	"github.com/voxdata/connector/internal/domain"
)

// Thresholds are the named cutoffs driving the volume reducer. They are
// passed explicitly rather than read from ambient settings so the reducer can
// be exercised with arbitrary values.
type Thresholds struct {
	// AggregationThreshold is the analytics record count above which the raw
	// collection is replaced by a single AggregateSummary.
	AggregationThreshold int
	// VoiceMaxResults caps page size when voice mode is requested.
	VoiceMaxResults int
	// DefaultPageSize applies when the caller supplies no limit.
	DefaultPageSize int
	// MaxPageSize is the hard cap on any caller-supplied limit.
	MaxPageSize int
}

// DefaultThresholds returns the stock configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AggregationThreshold: 20,
		VoiceMaxResults:      10,
		DefaultPageSize:      10,
		MaxPageSize:          50,
	}
}

// Reduce shrinks a filtered, ranked collection to response volume. Analytics
// collections larger than the aggregation threshold collapse into one
// AggregateSummary computed over the whole collection, ignoring pagination.
// Everything else is paginated: voice mode forces a fixed small page from
// offset zero, otherwise the caller's limit (clamped to MaxPageSize) and
// offset (clamped to >= 0) slice the collection.
func Reduce(records []domain.Record, dataType domain.DataType, params domain.QueryParams, th Thresholds) (data []any, returned int, aggregated bool) {
	if dataType == domain.DataTypeAnalytics && len(records) > th.AggregationThreshold {
		return []any{Aggregate(records)}, 1, true
	}

	limit := params.Limit
	if limit <= 0 {
		limit = th.DefaultPageSize
	}
	offset := params.Offset
	if params.Voice {
		limit = th.VoiceMaxResults
		offset = 0
	}
	if limit > th.MaxPageSize {
		limit = th.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(records) {
		offset = len(records)
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}

	page := make([]any, 0, end-offset)
	for _, rec := range records[offset:end] {
		page = append(page, rec)
	}
	return page, len(page), false
}

// Aggregate summarizes analytics values into count, average, min, and max.
// An input with no analytics values degrades to a zero-count summary rather
// than dividing by zero.
func Aggregate(records []domain.Record) domain.AggregateSummary {
	var (
		metric string
		values []int
	)
	for _, rec := range records {
		if p, ok := rec.(domain.AnalyticsPoint); ok {
			values = append(values, p.Value)
			metric = p.Metric
		}
	}

	if len(values) == 0 {
		return domain.AggregateSummary{Type: domain.AggregatedType, Count: 0, Summary: "No data"}
	}

	sum := 0
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	avg := math.Round(float64(sum)/float64(len(values))*10) / 10

	return domain.AggregateSummary{
		Type:    domain.AggregatedType,
		Metric:  metric,
		Count:   len(values),
		Avg:     avg,
		Min:     minVal,
		Max:     maxVal,
		Summary: fmt.Sprintf("%s: %d data points, avg %.1f, range %d-%d", metric, len(values), avg, minVal, maxVal),
	}
}
