package docquery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	dombatch "github.com/kailas-cloud/docquery/internal/domain/batch"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
	healthuc "github.com/kailas-cloud/docquery/internal/usecase/health"
	llmuc "github.com/kailas-cloud/docquery/internal/usecase/llm"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, f filter.Filter) (result.Result, error)
	getFn    func(ctx context.Context, id string) (domdoc.Document, error)
	facetsFn func(ctx context.Context, query string) (facet.Set, error)
}

func (m *mockSearchUC) Search(ctx context.Context, f filter.Filter) (result.Result, error) {
	return m.searchFn(ctx, f)
}

func (m *mockSearchUC) GetByID(ctx context.Context, id string) (domdoc.Document, error) {
	return m.getFn(ctx, id)
}

func (m *mockSearchUC) Facets(ctx context.Context, query string) (facet.Set, error) {
	return m.facetsFn(ctx, query)
}

// --- summaryUseCase mock ---

type mockSummaryUC struct {
	summarizeFn func(ctx context.Context, req domsum.Request) (domsum.Result, error)
	batchFn     func(ctx context.Context, req domsum.Request) ([]dombatch.Result[domsum.Result], error)
}

func (m *mockSummaryUC) Summarize(ctx context.Context, req domsum.Request) (domsum.Result, error) {
	return m.summarizeFn(ctx, req)
}

func (m *mockSummaryUC) SummarizeBatch(
	ctx context.Context, req domsum.Request,
) ([]dombatch.Result[domsum.Result], error) {
	return m.batchFn(ctx, req)
}

// --- modelLister mock ---

type mockModels struct {
	models []llmuc.ModelInfo
}

func (m *mockModels) Models() []llmuc.ModelInfo { return m.models }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- store mock ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return nil
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) Close() { m.closed = true }

// --- helpers ---

func testClient(searchSvc searchUseCase, summarySvc summaryUseCase) *Client {
	return &Client{
		searchSvc:  searchSvc,
		summarySvc: summarySvc,
		bounds:     filter.DefaultBounds(),
	}
}

func strPtr(s string) *string { return &s }
