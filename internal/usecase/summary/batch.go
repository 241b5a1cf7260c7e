package summary

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/docquery/internal/domain"
	dombatch "github.com/kailas-cloud/docquery/internal/domain/batch"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
)

// SummarizeBatch runs one independent pipeline per id with bounded fan-out.
// Results keep request order; one item's failure never affects the others.
// Request-level problems (no ids, unknown or unavailable model) fail the whole call.
func (s *Service) SummarizeBatch(ctx context.Context, req domsum.Request) ([]dombatch.Result[domsum.Result], error) {
	if len(req.IDs) == 0 {
		return nil, domain.NewInvalidInput("ids", "", "must contain at least one document id")
	}

	results := make([]dombatch.Result[domsum.Result], len(req.IDs))
	if len(req.IDs) > s.cfg.MaxBatchSize {
		for i, id := range req.IDs {
			results[i] = dombatch.NewError[domsum.Result](id,
				fmt.Errorf("batch size exceeds %d: %w", s.cfg.MaxBatchSize, domain.ErrInvalidInput))
		}
		return results, nil
	}

	spec, err := s.llm.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, id := range req.IDs {
		g.Go(func() error {
			res, err := s.summarizeOne(gctx, id, spec, req.Options)
			if err != nil {
				results[i] = dombatch.NewError[domsum.Result](id, err)
				return nil
			}
			results[i] = dombatch.NewOK(id, res)
			return nil
		})
	}
	_ = g.Wait() // items never return errors

	return results, nil
}
