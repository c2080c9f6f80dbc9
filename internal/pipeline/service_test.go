package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/voxdata/connector/internal/domain"
)

type stubStore struct {
	records []domain.Record
	err     error
	calls   int
}

func (s *stubStore) Load(_ context.Context, _ string) ([]domain.Record, error) {
	s.calls++
	return s.records, s.err
}

type captureRecorder struct {
	entries []QueryRecord
}

func (r *captureRecorder) RecordQuery(_ context.Context, entry QueryRecord) error {
	r.entries = append(r.entries, entry)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	t := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestFetchFilterThenPaginate(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.Record, 0, 10)
	for i := 1; i <= 10; i++ {
		status := "active"
		if i%2 == 0 {
			status = "inactive"
		}
		records = append(records, customer(i, base.AddDate(0, 0, i), status))
	}

	svc := NewService(&stubStore{records: records}, DefaultThresholds(), testLogger(), WithClock(fixedClock()))

	env, err := svc.Fetch(context.Background(), "crm", domain.QueryParams{Status: "active", Limit: 10})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if env.Metadata.TotalResults != 5 {
		t.Errorf("TotalResults = %d, want 5", env.Metadata.TotalResults)
	}
	if env.Metadata.ContextMessage != "Showing all 5 results" {
		t.Errorf("ContextMessage = %q", env.Metadata.ContextMessage)
	}
	prev := time.Now().AddDate(1, 0, 0)
	for _, item := range env.Data {
		c := item.(domain.Customer)
		if c.Status != "active" {
			t.Errorf("customer %d has status %s", c.CustomerID, c.Status)
		}
		if c.CreatedAt.After(prev) {
			t.Error("records not in newest-first order")
		}
		prev = c.CreatedAt
	}
}

func TestFetchEmptyCollection(t *testing.T) {
	svc := NewService(&stubStore{records: []domain.Record{}}, DefaultThresholds(), testLogger())

	env, err := svc.Fetch(context.Background(), "support", domain.QueryParams{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if env.Metadata.TotalResults != 0 || len(env.Data) != 0 {
		t.Errorf("env = %+v, want empty", env)
	}
	if env.Metadata.ContextMessage != "No results" {
		t.Errorf("ContextMessage = %q", env.Metadata.ContextMessage)
	}
	if env.Metadata.DataType != domain.DataTypeEmpty {
		t.Errorf("DataType = %s, want empty", env.Metadata.DataType)
	}
}

func TestFetchUnknownSourceSkipsStore(t *testing.T) {
	st := &stubStore{}
	svc := NewService(st, DefaultThresholds(), testLogger())

	env, err := svc.Fetch(context.Background(), "unknown_source", domain.QueryParams{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if st.calls != 0 {
		t.Errorf("store invoked %d times, want 0", st.calls)
	}
	if env.Metadata.DataType != domain.DataTypeUnknown || env.Metadata.TotalResults != 0 {
		t.Errorf("metadata = %+v", env.Metadata)
	}
}

func TestFetchStoreErrorPropagates(t *testing.T) {
	wantErr := domain.ErrResourceNotFound("no backing resource for source %q", "crm")
	svc := NewService(&stubStore{err: wantErr}, DefaultThresholds(), testLogger())

	_, err := svc.Fetch(context.Background(), "crm", domain.QueryParams{})
	if !errors.Is(err, wantErr) {
		t.Errorf("Fetch() error = %v, want %v", err, wantErr)
	}
}

func TestFetchAggregationEndToEnd(t *testing.T) {
	records := make([]domain.Record, 0, 25)
	for i := 0; i < 25; i++ {
		records = append(records, point("daily_active_users", domain.NewDate(2024, time.March, 1+i), 100+i))
	}

	svc := NewService(&stubStore{records: records}, DefaultThresholds(), testLogger(), WithClock(fixedClock()))

	env, err := svc.Fetch(context.Background(), "analytics", domain.QueryParams{Voice: true})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// total keeps the pre-aggregation filtered count while returned is 1.
	if env.Metadata.TotalResults != 25 || env.Metadata.ReturnedResults != 1 {
		t.Errorf("counts = %d/%d, want 25/1", env.Metadata.TotalResults, env.Metadata.ReturnedResults)
	}
	agg, ok := env.Data[0].(domain.AggregateSummary)
	if !ok {
		t.Fatalf("Data[0] is %T, want AggregateSummary", env.Data[0])
	}
	if env.Metadata.VoiceSummary != agg.Summary {
		t.Errorf("VoiceSummary = %q, want aggregate summary", env.Metadata.VoiceSummary)
	}
}

func TestFetchRecordsAudit(t *testing.T) {
	rec := &captureRecorder{}
	records := []domain.Record{customer(1, time.Now(), "active")}
	svc := NewService(&stubStore{records: records}, DefaultThresholds(), testLogger(), WithRecorder(rec))

	if _, err := svc.Fetch(context.Background(), "crm", domain.QueryParams{Voice: true}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.Source != "crm" || entry.DataType != domain.DataTypeCRM || !entry.Voice {
		t.Errorf("entry = %+v", entry)
	}
	if entry.TotalResults != 1 || entry.ReturnedResults != 1 {
		t.Errorf("entry counts = %d/%d", entry.TotalResults, entry.ReturnedResults)
	}
}
