package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/store"
)

// Store loads the full record collection for a source.
type Store interface {
	Load(ctx context.Context, source string) ([]domain.Record, error)
}

// Recorder observes completed queries, e.g. for the audit log. Implementations
// must not affect the response; recording failures are logged and dropped.
type Recorder interface {
	RecordQuery(ctx context.Context, entry QueryRecord) error
}

// QueryRecord is the audit view of one orchestrated query.
type QueryRecord struct {
	Source          string
	DataType        domain.DataType
	TotalResults    int
	ReturnedResults int
	Voice           bool
	Aggregated      bool
	Duration        time.Duration
}

// Service sequences the pipeline stages for one source and parameter set. It
// is the single entry point shared by the REST endpoint and the LLM tool-call
// endpoint. Stateless and safe for concurrent use.
type Service struct {
	store      Store
	thresholds Thresholds
	logger     *slog.Logger
	recorder   Recorder
	now        func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithRecorder attaches a query recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the assembly-time clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st Store, th Thresholds, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      st,
		thresholds: th,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch runs load -> identify -> filter -> rank -> reduce -> assemble for the
// given source. An unrecognized source short-circuits to an empty success
// envelope without touching the store. Store failures propagate to the caller
// untranslated; no stage is retried.
func (s *Service) Fetch(ctx context.Context, source string, params domain.QueryParams) (domain.Envelope, error) {
	ctx, span := otel.Tracer("pipeline").Start(ctx, "pipeline.Fetch",
		trace.WithAttributes(attribute.String("source", source)))
	defer span.End()

	start := s.now()

	if !store.Recognized(source) {
		s.logger.Warn("unknown data source", slog.String("source", source))
		return EmptyEnvelope(source), nil
	}

	raw, err := s.store.Load(ctx, source)
	if err != nil {
		return domain.Envelope{}, err
	}

	dataType := Identify(raw)
	s.logger.Debug("identified data type",
		slog.String("source", source),
		slog.String("data_type", string(dataType)),
		slog.Int("raw_count", len(raw)),
	)

	filtered := Filter(raw, params)
	total := len(filtered)
	ranked := RankRecent(filtered)

	data, returned, aggregated := Reduce(ranked, dataType, params, s.thresholds)
	if aggregated {
		s.logger.Info("returning aggregated summary for large analytics dataset",
			slog.String("source", source), slog.Int("total", total))
	}

	env := Assemble(source, dataType, total, returned, data, params, s.now())

	s.logger.Info("data fetch complete",
		slog.String("source", source),
		slog.String("data_type", string(dataType)),
		slog.Int("returned", returned),
		slog.Int("total", total),
		slog.Bool("voice", params.Voice),
	)

	if s.recorder != nil {
		entry := QueryRecord{
			Source:          source,
			DataType:        dataType,
			TotalResults:    total,
			ReturnedResults: returned,
			Voice:           params.Voice,
			Aggregated:      aggregated,
			Duration:        s.now().Sub(start),
		}
		if err := s.recorder.RecordQuery(ctx, entry); err != nil {
			s.logger.Error("query audit record failed", slog.String("error", err.Error()))
		}
	}

	return env, nil
}
