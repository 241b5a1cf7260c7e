package docquery

import (
	"context"
	"fmt"
	"time"

	dombatch "github.com/kailas-cloud/docquery/internal/domain/batch"
	domllm "github.com/kailas-cloud/docquery/internal/domain/llm"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
)

// Summarize generates a summary of one document, from its PDF when
// available and from its abstract otherwise.
func (c *Client) Summarize(ctx context.Context, id string, req SummaryRequest) (_ Summary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summarize", start, err) }()

	r, err := toInternalRequest([]string{id}, req)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	res, err := c.summarySvc.Summarize(c.withLogger(ctx), r)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return fromInternalSummary(res), nil
}

// SummarizeBatch summarizes several documents concurrently. Per-document
// failures are reported in the results, in input order.
func (c *Client) SummarizeBatch(ctx context.Context, ids []string, req SummaryRequest) (_ []BatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summarize_batch", start, err) }()

	r, err := toInternalRequest(ids, req)
	if err != nil {
		return nil, fmt.Errorf("summarize batch: %w", err)
	}
	results, err := c.summarySvc.SummarizeBatch(c.withLogger(ctx), r)
	if err != nil {
		return nil, fmt.Errorf("summarize batch: %w", err)
	}
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{ID: r.ID(), OK: r.Status() == dombatch.StatusOK, Err: r.Err()}
		if out[i].OK {
			out[i].Summary = fromInternalSummary(r.Value())
		}
	}
	return out, nil
}

// Models lists the supported models and whether their provider is configured.
func (c *Client) Models() []ModelInfo {
	infos := c.models.Models()
	out := make([]ModelInfo, len(infos))
	for i, m := range infos {
		out[i] = fromInternalModel(m)
	}
	return out
}

func toInternalRequest(ids []string, req SummaryRequest) (domsum.Request, error) {
	var opts domllm.Options
	if req.MaxTokens != 0 {
		var err error
		if opts, err = domllm.ParseOptions(map[string]any{"max_tokens": req.MaxTokens}); err != nil {
			return domsum.Request{}, err
		}
	}
	return domsum.Request{IDs: ids, Model: req.Model, Options: opts}, nil
}
