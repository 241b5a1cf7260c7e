package search

import (
	"context"

	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
)

// Repository defines the storage contract for catalog queries.
type Repository interface {
	Search(ctx context.Context, f filter.Filter) (result.Result, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Facets(ctx context.Context, term string) (facet.Set, error)
}
