// Package inference is the client for the external Hugging Face Inference
// API. The core pipeline never calls it; the analyze endpoint hands it an
// already-filtered snapshot plus a free-text query and consumes the answer.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/voxdata/connector/internal/domain"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models"

// Hosted model IDs.
const (
	ModelSummarization = "facebook/bart-large-cnn"
	ModelTextQA        = "google/flan-t5-small"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the Hugging Face Inference API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize condenses text with the hosted summarization model.
func (c *Client) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	payload := map[string]any{
		"inputs":     text,
		"parameters": map[string]any{"max_length": maxLength},
	}
	raw, err := c.call(ctx, ModelSummarization, payload)
	if err != nil {
		return "", err
	}
	return extractField(raw, "summary_text")
}

// TextQA answers a question from context using the hosted text QA model.
func (c *Client) TextQA(ctx context.Context, prompt string, maxLength int) (string, error) {
	payload := map[string]any{
		"inputs":     prompt,
		"parameters": map[string]any{"max_length": maxLength},
	}
	raw, err := c.call(ctx, ModelTextQA, payload)
	if err != nil {
		return "", err
	}
	return extractField(raw, "generated_text")
}

func (c *Client) call(ctx context.Context, modelID string, payload any) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, domain.ErrUpstream("inference API key not configured; set huggingface.api_key")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.ErrServer("encoding inference request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+modelID, bytes.NewReader(body))
	if err != nil {
		return nil, domain.ErrServer("building inference request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrUpstream("inference request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrUpstream("reading inference response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrUpstream("model %s returned status %d: %s", modelID, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	// The API reports model failures inside a 200 body.
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
		return nil, domain.ErrUpstream("model %s: %s", modelID, errBody.Error)
	}

	return respBody, nil
}

// extractField pulls a string field from either the single-object or the
// list-of-objects response shape the API uses.
func extractField(raw json.RawMessage, field string) (string, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		if s, ok := list[0][field].(string); ok {
			return s, nil
		}
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if s, ok := obj[field].(string); ok {
			return s, nil
		}
	}

	return "", domain.ErrUpstream("inference response missing %q: %s", field, truncateForError(raw))
}

func truncateForError(raw []byte) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
