package docquery

import (
	"context"
	"fmt"
	"time"
)

// Search returns one page of documents matching q.
func (c *Client) Search(ctx context.Context, q Query) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	f, err := toInternalFilter(q, c.bounds)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	res, err := c.searchSvc.Search(c.withLogger(ctx), f)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalResult(res), nil
}

// Get retrieves a document by ID.
func (c *Client) Get(ctx context.Context, id string) (_ Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	d, err := c.searchSvc.GetByID(c.withLogger(ctx), id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Facets counts attribute values of the documents matching term.
// An empty term counts the whole catalog.
func (c *Client) Facets(ctx context.Context, term string) (_ Facets, err error) {
	start := time.Now()
	defer func() { c.obs.observe("facets", start, err) }()

	set, err := c.searchSvc.Facets(c.withLogger(ctx), term)
	if err != nil {
		return nil, fmt.Errorf("facets: %w", err)
	}
	return fromInternalFacets(set), nil
}
