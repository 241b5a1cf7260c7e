package result

import domdoc "github.com/kailas-cloud/docquery/internal/domain/document"

// Result is one page of matching documents.
type Result struct {
	total     int
	documents []domdoc.Document
	pageSize  int
	offset    int
}

// New creates a search result page.
func New(total int, documents []domdoc.Document, pageSize, offset int) Result {
	return Result{total: total, documents: documents, pageSize: pageSize, offset: offset}
}

// Total returns the number of matching documents, independent of paging.
func (r Result) Total() int { return r.total }

// Documents returns the documents on this page.
func (r Result) Documents() []domdoc.Document { return r.documents }

// PageSize returns the requested page size.
func (r Result) PageSize() int { return r.pageSize }

// Offset returns the zero-based row offset.
func (r Result) Offset() int { return r.offset }

// Page returns the one-based page number: offset/pageSize + 1, or 1 when pageSize is 0.
func (r Result) Page() int {
	if r.pageSize <= 0 {
		return 1
	}
	return r.offset/r.pageSize + 1
}
