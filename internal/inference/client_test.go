package inference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/testutil"
)

func TestSummarizeReplayed(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "hf_summarize")
	defer cleanup()

	c := NewClient("test-key", WithHTTPClient(testutil.VCRHTTPClient(r)))

	got, err := c.Summarize(context.Background(), `{"crm":[{"customer_id":1}]}`, 150)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(got, "Alice Johnson") {
		t.Errorf("Summarize() = %q, want recorded summary", got)
	}
}

func TestCallMissingAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.Summarize(context.Background(), "text", 150)
	if err == nil {
		t.Fatal("expected error without API key")
	}
	var qe *domain.QueryError
	if !errors.As(err, &qe) || qe.Type != domain.ErrorTypeUpstream {
		t.Errorf("error = %v, want upstream QueryError", err)
	}
}

func TestCallErrorPaths(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSub string
	}{
		{name: "http error status", status: http.StatusServiceUnavailable, body: `model loading`, wantSub: "status 503"},
		{name: "error inside 200 body", status: http.StatusOK, body: `{"error":"Model facebook/bart-large-cnn is overloaded"}`, wantSub: "overloaded"},
		{name: "unexpected shape", status: http.StatusOK, body: `[{"something_else":"x"}]`, wantSub: "summary_text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("secret", WithBaseURL(srv.URL))
			_, err := c.Summarize(context.Background(), "text", 150)
			if err == nil {
				t.Fatal("expected error")
			}
			var qe *domain.QueryError
			if !errors.As(err, &qe) || qe.Type != domain.ErrorTypeUpstream {
				t.Fatalf("error = %v, want upstream QueryError", err)
			}
			if !strings.Contains(qe.Message, tt.wantSub) {
				t.Errorf("message = %q, want substring %q", qe.Message, tt.wantSub)
			}
			if gotAuth != "Bearer secret" {
				t.Errorf("Authorization = %q", gotAuth)
			}
		})
	}
}

func TestTextQA(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ModelTextQA) {
			t.Errorf("path = %q, want text QA model", r.URL.Path)
		}
		w.Write([]byte(`[{"generated_text":"Three tickets are open."}]`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	got, err := c.TextQA(context.Background(), "Question: how many open tickets?", 256)
	if err != nil {
		t.Fatalf("TextQA() error = %v", err)
	}
	if got != "Three tickets are open." {
		t.Errorf("TextQA() = %q", got)
	}
}
