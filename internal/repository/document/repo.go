package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/db"
	"github.com/kailas-cloud/docquery/internal/domain"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
	"github.com/kailas-cloud/docquery/internal/logger"
)

// querier is the consumer interface for the relational store (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements usecase/search.Repository over PostgreSQL.
type Repo struct {
	q querier
}

// New creates a document repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// Search returns one page of documents matching f plus the total match count.
func (r *Repo) Search(ctx context.Context, f filter.Filter) (result.Result, error) {
	sq, err := buildSearch(f)
	if err != nil {
		return result.Result{}, fmt.Errorf("build search query: %w", err)
	}
	logger.FromContext(ctx).Debug("search query", zap.Stringer("query", sq))

	var total int
	if err := r.q.QueryRow(ctx, sq.count.SQL, sq.count.Args...).Scan(&total); err != nil {
		return result.Result{}, &db.Error{Op: db.OpCount, Err: err}
	}
	if total == 0 || f.Offset() >= total {
		return result.New(total, []domdoc.Document{}, f.PageSize(), f.Offset()), nil
	}

	docs, err := r.queryDocuments(ctx, sq.page, sq.columns, f.PageSize())
	if err != nil {
		return result.Result{}, err
	}
	return result.New(total, docs, f.PageSize(), f.Offset()), nil
}

// Get returns a document by ID, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	q, err := buildGet(id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("build get query: %w", err)
	}

	var a domdoc.Attributes
	dest, err := scanTargets(&a, allColumns)
	if err != nil {
		return domdoc.Document{}, err
	}
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return domdoc.Document{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return domdoc.Reconstruct(a), nil
}

// Facets counts distinct values per facet category, optionally restricted
// to documents whose title or abstract contains term.
func (r *Repo) Facets(ctx context.Context, term string) (facet.Set, error) {
	set := make(facet.Set, len(facetColumns))
	for _, cat := range facet.Categories() {
		q, err := buildFacet(facetColumns[cat], term)
		if err != nil {
			return nil, fmt.Errorf("build facet query: %w", err)
		}
		values, err := r.queryFacet(ctx, q)
		if err != nil {
			return nil, err
		}
		set[cat] = values
	}
	return set, nil
}

func (r *Repo) queryDocuments(ctx context.Context, q *db.Query, cols []string, capacity int) ([]domdoc.Document, error) {
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	docs := make([]domdoc.Document, 0, capacity)
	for rows.Next() {
		var a domdoc.Attributes
		dest, err := scanTargets(&a, cols)
		if err != nil {
			return nil, err
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		docs = append(docs, domdoc.Reconstruct(a))
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return docs, nil
}

func (r *Repo) queryFacet(ctx context.Context, q *db.Query) ([]facet.Value, error) {
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFacets, Err: err}
	}
	defer rows.Close()

	values := []facet.Value{}
	for rows.Next() {
		var v facet.Value
		var count int64
		if err := rows.Scan(&v.Value, &count); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		v.Count = int(count)
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFacets, Err: err}
	}
	return values, nil
}
