package summary

import (
	"context"
	"io"

	"github.com/kailas-cloud/docquery/internal/domain"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
	"github.com/kailas-cloud/docquery/internal/pdftext"
	"github.com/kailas-cloud/docquery/internal/repository/summarycache"
)

// DocumentReader resolves documents by ID.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (domdoc.Document, error)
}

// Fetcher downloads a PDF into request-scoped storage.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.PDFFile, error)
}

// Extractor reads a word-budgeted text prefix from a PDF.
type Extractor interface {
	ExtractFrom(ctx context.Context, r io.ReaderAt, size int64, budget int) (pdftext.Result, error)
}

// Completer resolves models and generates completions.
type Completer interface {
	Resolve(model string) (llm.Spec, error)
	Complete(ctx context.Context, spec llm.Spec, system, user string, opts llm.Options) (string, error)
}

// Cache stores generated summaries. Implementations never fail the caller.
type Cache interface {
	Get(ctx context.Context, k summarycache.Key) (domsum.Result, bool)
	Put(ctx context.Context, k summarycache.Key, r domsum.Result)
}
