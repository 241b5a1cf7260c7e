package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docquery/internal/db"
	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
)

var newest = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSearch_CountryAndStartDate(t *testing.T) {
	mock := newMockPool(t)
	f := mustFilter(t, filter.Params{Country: "FR", StartDate: date("2020-01-01"), PageSize: 10})
	start := *date("2020-01-01")

	mock.ExpectQuery("SELECT COUNT(*) FROM documents WHERE country = $1 AND docdt >= $2").
		WithArgs("FR", start).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery(selectAll+" WHERE country = $1 AND docdt >= $2 ORDER BY created_at DESC, id ASC LIMIT $3 OFFSET $4").
		WithArgs("FR", start, 10, 0).
		WillReturnRows(fullRows(mock, 10, newest))

	res, err := New(mock).Search(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total() != 15 {
		t.Errorf("Total = %d, want 15", res.Total())
	}
	if len(res.Documents()) != 10 {
		t.Errorf("len(Documents) = %d, want 10", len(res.Documents()))
	}
	if res.Page() != 1 {
		t.Errorf("Page = %d, want 1", res.Page())
	}

	d := res.Documents()[0]
	if d.ID() != "doc-1" || d.Country() != "FR" || d.Abstract() != "Abstract of doc-1" {
		t.Errorf("unexpected first document: %+v", d.Attributes())
	}
	if d.TotalVolumeNumber() != nil || d.Author() != "" {
		t.Error("NULL columns must stay empty")
	}
	if d.VolumeNumber() == nil || *d.VolumeNumber() != 1 {
		t.Errorf("VolumeNumber = %v", d.VolumeNumber())
	}
	if !d.CreatedAt().Equal(newest) {
		t.Errorf("CreatedAt = %v", d.CreatedAt())
	}
	prev := res.Documents()[0].CreatedAt()
	for _, doc := range res.Documents()[1:] {
		if doc.CreatedAt().After(prev) {
			t.Fatal("documents must be ordered most recent first")
		}
		prev = doc.CreatedAt()
	}
}

func TestSearch_SecondPage(t *testing.T) {
	mock := newMockPool(t)
	f := mustFilter(t, filter.Params{PageSize: 10, Offset: 10})

	mock.ExpectQuery("SELECT COUNT(*) FROM documents").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery(selectAll+" ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(10, 10).
		WillReturnRows(fullRows(mock, 5, newest))

	res, err := New(mock).Search(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents()) != 5 {
		t.Errorf("len(Documents) = %d, want 5", len(res.Documents()))
	}
	if res.Page() != 2 {
		t.Errorf("Page = %d, want 2", res.Page())
	}
}

func TestSearch_OffsetPastTotalSkipsPageQuery(t *testing.T) {
	mock := newMockPool(t)
	f := mustFilter(t, filter.Params{PageSize: 10, Offset: 40})

	mock.ExpectQuery("SELECT COUNT(*) FROM documents").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(15))

	res, err := New(mock).Search(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total() != 15 || len(res.Documents()) != 0 {
		t.Errorf("got total=%d docs=%d", res.Total(), len(res.Documents()))
	}
	if res.Documents() == nil {
		t.Error("documents should be an empty slice, not nil")
	}
}

func TestSearch_InjectionTermMatchesNothing(t *testing.T) {
	mock := newMockPool(t)
	term := "' OR '1'='1"
	f := mustFilter(t, filter.Params{Term: term})

	mock.ExpectQuery(`SELECT COUNT(*) FROM documents WHERE (title ILIKE $1 ESCAPE '\' OR abstract ILIKE $2 ESCAPE '\')`).
		WithArgs("%"+term+"%", "%"+term+"%").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))

	res, err := New(mock).Search(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total() != 0 || len(res.Documents()) != 0 {
		t.Errorf("expected no matches, got %d", res.Total())
	}
}

func TestSearch_Projection(t *testing.T) {
	mock := newMockPool(t)
	f := mustFilter(t, filter.Params{Fields: []string{"title", "unknown"}, PageSize: 2})

	mock.ExpectQuery("SELECT COUNT(*) FROM documents").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT id, title FROM documents ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(2, 0).
		WillReturnRows(mock.NewRows([]string{"id", "title"}).
			AddRow("a", "Alpha").
			AddRow("b", "Beta"))

	res, err := New(mock).Search(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docs := res.Documents()
	if len(docs) != 2 || docs[0].Title() != "Alpha" || docs[1].ID() != "b" {
		t.Fatalf("unexpected documents: %v", docs)
	}
	if docs[0].Abstract() != "" {
		t.Error("unprojected fields must be empty")
	}
}

func TestSearch_CountError(t *testing.T) {
	mock := newMockPool(t)
	f := mustFilter(t, filter.Params{})

	mock.ExpectQuery("SELECT COUNT(*) FROM documents").
		WillReturnError(errors.New("connection refused"))

	_, err := New(mock).Search(context.Background(), f)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpCount {
		t.Fatalf("expected db.Error with op COUNT, got %v", err)
	}
}

func TestSearch_PageError(t *testing.T) {
	mock := newMockPool(t)
	f := mustFilter(t, filter.Params{})

	mock.ExpectQuery("SELECT COUNT(*) FROM documents").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(selectAll+" ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(10, 0).
		WillReturnError(errors.New("statement timeout"))

	_, err := New(mock).Search(context.Background(), f)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSelect {
		t.Fatalf("expected db.Error with op SELECT, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(selectAll+" WHERE id = $1").
		WithArgs("doc-42").
		WillReturnRows(mock.NewRows(allColumns).AddRow(fullRow("doc-42", newest)...))

	doc, err := New(mock).Get(context.Background(), "doc-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-42" || doc.URL() != "https://docs.example.org/doc-42.pdf" {
		t.Errorf("unexpected document: %+v", doc.Attributes())
	}
	if doc.Language() != "French" || doc.MajorDocumentType() != "Publications & Research" {
		t.Errorf("unexpected document: %+v", doc.Attributes())
	}
}

func TestGet_NotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(selectAll+" WHERE id = $1").
		WithArgs("missing").
		WillReturnRows(mock.NewRows(allColumns))

	_, err := New(mock).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(selectAll+" WHERE id = $1").
		WithArgs("x").
		WillReturnError(errors.New("connection reset"))

	_, err := New(mock).Get(context.Background(), "x")
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("store errors must not look like not found")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestFacets(t *testing.T) {
	mock := newMockPool(t)
	facetSQL := func(col string) string {
		return "SELECT " + col + ", COUNT(*) FROM documents WHERE " + col + " IS NOT NULL AND " + col +
			" <> '' GROUP BY " + col + " ORDER BY COUNT(*) DESC, " + col + " ASC"
	}

	mock.ExpectQuery(facetSQL("country")).
		WillReturnRows(mock.NewRows([]string{"country", "count"}).
			AddRow("FR", int64(15)).
			AddRow("DE", int64(5)))
	mock.ExpectQuery(facetSQL("lang")).
		WillReturnRows(mock.NewRows([]string{"lang", "count"}).AddRow("French", int64(15)))
	mock.ExpectQuery(facetSQL("majdocty")).
		WillReturnRows(mock.NewRows([]string{"majdocty", "count"}))

	set, err := New(mock).Facets(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	countries := set[facet.Countries]
	if len(countries) != 2 || countries[0].Value != "FR" || countries[0].Count != 15 {
		t.Errorf("countries = %v", countries)
	}
	if len(set[facet.Languages]) != 1 {
		t.Errorf("languages = %v", set[facet.Languages])
	}
	if types, ok := set[facet.DocumentTypes]; !ok || len(types) != 0 {
		t.Errorf("document_types = %v, want present and empty", types)
	}
}

func TestFacets_Error(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT country, COUNT(*) FROM documents WHERE country IS NOT NULL AND country <> ''" +
		` AND (title ILIKE $1 ESCAPE '\' OR abstract ILIKE $2 ESCAPE '\')` +
		" GROUP BY country ORDER BY COUNT(*) DESC, country ASC").
		WithArgs("%energy%", "%energy%").
		WillReturnError(errors.New("too many connections"))

	_, err := New(mock).Facets(context.Background(), "energy")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpFacets {
		t.Fatalf("expected db.Error with op FACETS, got %v", err)
	}
}
