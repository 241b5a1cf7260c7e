package docquery

import "time"

// Document is a catalog entry. Optional text attributes are empty when unset.
type Document struct {
	ID                string
	Title             string
	Abstract          string
	DocumentDate      *time.Time
	DocumentType      string
	MajorDocumentType string
	VolumeNumber      *int
	TotalVolumeNumber *int
	URL               string
	Language          string
	Country           string
	Author            string
	Publisher         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Query is a document search. Zero fields do not constrain the search;
// PageSize 0 selects the client default.
type Query struct {
	Term              string
	Country           string
	Language          string
	DocumentType      string
	MajorDocumentType string
	StartDate         *time.Time
	EndDate           *time.Time
	Fields            []string
	PageSize          int
	Offset            int
}

// SearchResult is one page of matching documents.
type SearchResult struct {
	Total     int
	Page      int
	PageSize  int
	Offset    int
	Documents []Document
}

// FacetValue is a distinct attribute value and its document count.
type FacetValue struct {
	Value string
	Count int
}

// Facets maps a facet category (countries, languages, document_types)
// to its values, most frequent first.
type Facets map[string][]FacetValue

// SummaryRequest selects the model and response size of a summary.
// Empty Model selects the default model; MaxTokens 0 uses the default limit.
type SummaryRequest struct {
	Model     string
	MaxTokens int
}

// Summary is a generated document summary.
type Summary struct {
	DocumentID string
	Text       string
	Model      string
	Source     string // "pdf" or "abstract"
	Elapsed    time.Duration
}

// BatchResult is the outcome of one document in a batch summary.
type BatchResult struct {
	ID      string
	OK      bool
	Summary Summary
	Err     error
}

// ModelInfo describes a supported model.
type ModelInfo struct {
	ID        string
	Provider  string
	WireModel string
	Available bool
	Default   bool
}
