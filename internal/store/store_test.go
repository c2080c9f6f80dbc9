package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/voxdata/connector/internal/domain"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func queryErr(t *testing.T, err error) *domain.QueryError {
	t.Helper()
	var qe *domain.QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("error %v is not a *domain.QueryError", err)
	}
	return qe
}

func TestLoadCRM(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "customers.json", `[
		{"customer_id": 1, "name": "Alice", "email": "alice@example.com", "created_at": "2024-01-02T10:00:00Z", "status": "active"},
		{"customer_id": 2, "name": "Bob", "email": "bob@example.com", "created_at": "2024-01-03T10:00:00Z", "status": "inactive"}
	]`)

	records, err := NewFileStore(dir).Load(context.Background(), "crm")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	c, ok := records[0].(domain.Customer)
	if !ok {
		t.Fatalf("records[0] is %T, want Customer", records[0])
	}
	if c.CustomerID != 1 || c.Status != "active" {
		t.Errorf("unexpected customer: %+v", c)
	}
}

func TestLoadAnalytics(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "analytics.json", `[{"metric": "signups", "date": "2024-05-01", "value": 42}]`)

	records, err := NewFileStore(dir).Load(context.Background(), "analytics")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p, ok := records[0].(domain.AnalyticsPoint)
	if !ok {
		t.Fatalf("records[0] is %T, want AnalyticsPoint", records[0])
	}
	if p.Metric != "signups" || p.Value != 42 || p.Date.String() != "2024-05-01" {
		t.Errorf("unexpected point: %+v", p)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := NewFileStore(t.TempDir()).Load(context.Background(), "support")
	if err == nil {
		t.Fatal("Load() expected error for absent resource")
	}
	if qe := queryErr(t, err); qe.Type != domain.ErrorTypeNotFound {
		t.Errorf("Type = %s, want %s", qe.Type, domain.ErrorTypeNotFound)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `{{{`},
		{name: "not an array", content: `{"ticket_id": 1}`},
		{name: "wrong field type", content: `[{"ticket_id": "one", "customer_id": 2, "subject": "s", "priority": "low", "created_at": "2024-01-01T00:00:00Z", "status": "open"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir, "support_tickets.json", tt.content)

			_, err := NewFileStore(dir).Load(context.Background(), "support")
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if qe := queryErr(t, err); qe.Type != domain.ErrorTypeMalformedData {
				t.Errorf("Type = %s, want %s", qe.Type, domain.ErrorTypeMalformedData)
			}
		})
	}
}

func TestLoadUnrecognizedSource(t *testing.T) {
	_, err := NewFileStore(t.TempDir()).Load(context.Background(), "billing")
	if err == nil {
		t.Fatal("Load() expected error")
	}
	if qe := queryErr(t, err); qe.Type != domain.ErrorTypeInvalidRequest {
		t.Errorf("Type = %s, want %s", qe.Type, domain.ErrorTypeInvalidRequest)
	}
}

func TestLoadEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "support_tickets.json", `[]`)

	records, err := NewFileStore(dir).Load(context.Background(), "support")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}
