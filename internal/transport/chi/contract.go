package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/docquery/internal/domain/batch"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
	healthuc "github.com/kailas-cloud/docquery/internal/usecase/health"
	llmuc "github.com/kailas-cloud/docquery/internal/usecase/llm"
)

// Searcher answers catalog queries.
type Searcher interface {
	Search(ctx context.Context, f filter.Filter) (result.Result, error)
	GetByID(ctx context.Context, id string) (domdoc.Document, error)
	Facets(ctx context.Context, query string) (facet.Set, error)
}

// Summarizer produces document summaries.
type Summarizer interface {
	Summarize(ctx context.Context, req domsum.Request) (domsum.Result, error)
	SummarizeBatch(ctx context.Context, req domsum.Request) ([]dombatch.Result[domsum.Result], error)
}

// ModelLister reports the model table.
type ModelLister interface {
	Models() []llmuc.ModelInfo
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
