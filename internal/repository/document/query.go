package document

import (
	"strings"

	"github.com/kailas-cloud/docquery/internal/db"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
)

const table = "documents"

// Column names of the documents table.
const (
	colID                = "id"
	colTitle             = "title"
	colAbstract          = "abstract"
	colDocumentDate      = "docdt"
	colDocumentType      = "docty"
	colMajorDocumentType = "majdocty"
	colVolumeNumber      = "volnb"
	colTotalVolumeNumber = "totvolnb"
	colURL               = "url"
	colLanguage          = "lang"
	colCountry           = "country"
	colAuthor            = "author"
	colPublisher         = "publisher"
	colCreatedAt         = "created_at"
	colUpdatedAt         = "updated_at"
)

// allColumns is the projection allow-list, in output order.
var allColumns = []string{
	colID, colTitle, colAbstract, colDocumentDate, colDocumentType, colMajorDocumentType,
	colVolumeNumber, colTotalVolumeNumber, colURL, colLanguage, colCountry,
	colAuthor, colPublisher, colCreatedAt, colUpdatedAt,
}

var knownColumns = func() map[string]struct{} {
	m := make(map[string]struct{}, len(allColumns))
	for _, c := range allColumns {
		m[c] = struct{}{}
	}
	return m
}()

// facetColumns maps facet categories to the counted column.
var facetColumns = map[facet.Category]string{
	facet.Countries:     colCountry,
	facet.Languages:     colLanguage,
	facet.DocumentTypes: colMajorDocumentType,
}

// searchQuery is a built search: the count query shares the page query's predicate.
type searchQuery struct {
	count   *db.Query
	page    *db.Query
	columns []string
}

// String re-describes the search for logs.
func (q *searchQuery) String() string {
	return "count: " + q.count.String() + "; page: " + q.page.String()
}

// projection maps requested names through the allow-list. Unknown names are
// dropped, duplicates collapsed, id always comes first. No names selects all columns.
func projection(fields []string) []string {
	if len(fields) == 0 {
		out := make([]string, len(allColumns))
		copy(out, allColumns)
		return out
	}

	seen := map[string]struct{}{colID: {}}
	out := []string{colID}
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if _, ok := knownColumns[f]; !ok {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// likePattern escapes LIKE metacharacters and wraps term in %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// applyTerm adds the case-insensitive substring clause over title and abstract.
func applyTerm(b *db.SelectBuilder, term string) {
	if term == "" {
		return
	}
	p := likePattern(term)
	b.Where(`(title ILIKE ? ESCAPE '\' OR abstract ILIKE ? ESCAPE '\')`, p, p)
}

// applyFilter adds the filter's clauses in a fixed order.
func applyFilter(b *db.SelectBuilder, f filter.Filter) {
	applyTerm(b, f.Term())
	if v := f.Country(); v != "" {
		b.Where(colCountry+" = ?", v)
	}
	if v := f.Language(); v != "" {
		b.Where(colLanguage+" = ?", v)
	}
	if v := f.DocumentType(); v != "" {
		b.Where(colDocumentType+" = ?", v)
	}
	if v := f.MajorDocumentType(); v != "" {
		b.Where(colMajorDocumentType+" = ?", v)
	}
	if d := f.StartDate(); d != nil {
		b.Where(colDocumentDate+" >= ?", *d)
	}
	if d := f.EndDate(); d != nil {
		b.Where(colDocumentDate+" <= ?", *d)
	}
}

// buildSearch translates a filter into a count query and a paginated page query.
func buildSearch(f filter.Filter) (*searchQuery, error) {
	cols := projection(f.Fields())

	b := db.Select(table).Columns(cols...)
	applyFilter(b, f)
	b.OrderBy(colCreatedAt+" DESC", colID+" ASC").Page(f.PageSize(), f.Offset())

	count, err := b.BuildCount()
	if err != nil {
		return nil, err
	}
	page, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &searchQuery{count: count, page: page, columns: cols}, nil
}

// buildGet selects every column of one document.
func buildGet(id string) (*db.Query, error) {
	return db.Select(table).Columns(allColumns...).Where(colID+" = ?", id).Build()
}

// buildFacet counts distinct non-empty values of col, most frequent first.
func buildFacet(col, term string) (*db.Query, error) {
	b := db.Select(table).
		Columns(col, "COUNT(*)").
		Where(col + " IS NOT NULL").
		Where(col + " <> ''")
	applyTerm(b, term)
	return b.GroupBy(col).OrderBy("COUNT(*) DESC", col+" ASC").Build()
}
