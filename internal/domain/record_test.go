package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		p := AnalyticsPoint{Metric: "daily_active_users", Date: NewDate(2024, time.March, 5), Value: 120}
		b, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		want := `{"metric":"daily_active_users","date":"2024-03-05","value":120}`
		if string(b) != want {
			t.Errorf("Marshal() = %s, want %s", b, want)
		}
	})

	t.Run("unmarshal", func(t *testing.T) {
		var p AnalyticsPoint
		if err := json.Unmarshal([]byte(`{"metric":"signups","date":"2023-12-31","value":7}`), &p); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got := p.Date.String(); got != "2023-12-31" {
			t.Errorf("Date = %s, want 2023-12-31", got)
		}
	})

	t.Run("rejects non-date string", func(t *testing.T) {
		var p AnalyticsPoint
		if err := json.Unmarshal([]byte(`{"metric":"x","date":"not-a-date","value":1}`), &p); err == nil {
			t.Error("Unmarshal() expected error for invalid date")
		}
	})

	t.Run("rejects timestamp", func(t *testing.T) {
		var p AnalyticsPoint
		if err := json.Unmarshal([]byte(`{"metric":"x","date":"2024-03-05T10:00:00Z","value":1}`), &p); err == nil {
			t.Error("Unmarshal() expected error for timestamp with time component")
		}
	})
}

func TestEnvelopeRoundTrip(t *testing.T) {
	created := time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
	env := Envelope{
		Data: []any{
			Customer{CustomerID: 1, Name: "Alice Johnson", Email: "alice@example.com", CreatedAt: created, Status: CustomerStatusActive},
		},
		Metadata: Metadata{
			TotalResults:    5,
			ReturnedResults: 1,
			DataFreshness:   "Data as of 2024-06-02T00:00:00Z",
			DataType:        DataTypeCRM,
			Source:          "crm",
			ContextMessage:  "Showing 1 of 5 results",
			VoiceSummary:    "5 customers. Showing 1 of 5 results",
		},
	}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Envelope
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Metadata != env.Metadata {
		t.Errorf("Metadata = %+v, want %+v", got.Metadata, env.Metadata)
	}
	if len(got.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(got.Data))
	}
	row, ok := got.Data[0].(map[string]any)
	if !ok {
		t.Fatalf("Data[0] is %T, want object", got.Data[0])
	}
	if row["customer_id"] != float64(1) || row["status"] != "active" {
		t.Errorf("record fields not preserved: %v", row)
	}
	if row["created_at"] != "2024-06-01T09:30:00Z" {
		t.Errorf("created_at = %v, want 2024-06-01T09:30:00Z", row["created_at"])
	}
}

func TestAggregateSummaryRoundTrip(t *testing.T) {
	agg := AggregateSummary{
		Type:    AggregatedType,
		Metric:  "daily_active_users",
		Count:   21,
		Avg:     110.5,
		Min:     100,
		Max:     120,
		Summary: "daily_active_users: 21 data points, avg 110.5, range 100-120",
	}

	b, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got AggregateSummary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != agg {
		t.Errorf("round trip = %+v, want %+v", got, agg)
	}
	if got.Type != "aggregated" {
		t.Errorf("Type = %q, want aggregated", got.Type)
	}
}
