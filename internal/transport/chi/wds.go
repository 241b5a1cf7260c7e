package chi

import (
	"encoding/xml"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
)

// legacySearchParams are the query parameters of GET /api/v3/wds.
type legacySearchParams struct {
	Format     *string
	Qterm      *string
	Fl         *string
	Rows       *int
	Os         *int
	CountExact *string
	LangExact  *string
	Docty      *string
	Majdocty   *string
	Strdate    *string
	Enddate    *string
}

func bindLegacySearchParams(q url.Values) (legacySearchParams, error) {
	var p legacySearchParams
	binds := []struct {
		name string
		dest any
	}{
		{"format", &p.Format},
		{"qterm", &p.Qterm},
		{"fl", &p.Fl},
		{"rows", &p.Rows},
		{"os", &p.Os},
		{"count_exact", &p.CountExact},
		{"lang_exact", &p.LangExact},
		{"docty", &p.Docty},
		{"majdocty", &p.Majdocty},
		{"strdate", &p.Strdate},
		{"enddate", &p.Enddate},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return legacySearchParams{}, domain.NewInvalidInput(b.name, q.Get(b.name), "invalid format")
		}
	}
	return p, nil
}

// filterParams converts bound parameters into filter input.
func (p legacySearchParams) filterParams() (filter.Params, error) {
	if p.Rows != nil && *p.Rows == 0 {
		return filter.Params{}, domain.NewInvalidInput("rows", "0", "must be at least 1")
	}
	start, err := filter.ParseDate("strdate", deref(p.Strdate))
	if err != nil {
		return filter.Params{}, err
	}
	end, err := filter.ParseDate("enddate", deref(p.Enddate))
	if err != nil {
		return filter.Params{}, err
	}
	return filter.Params{
		Term:              deref(p.Qterm),
		Country:           deref(p.CountExact),
		Language:          deref(p.LangExact),
		DocumentType:      deref(p.Docty),
		MajorDocumentType: deref(p.Majdocty),
		StartDate:         start,
		EndDate:           end,
		Fields:            filter.SplitFields(deref(p.Fl)),
		PageSize:          derefInt(p.Rows),
		Offset:            derefInt(p.Os),
	}, nil
}

// legacyFormat validates format, defaulting to json.
func legacyFormat(v *string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(deref(v)))
	switch f {
	case "":
		return "json", nil
	case "json", "xml":
		return f, nil
	}
	return "", domain.NewInvalidInput("format", deref(v), "supported formats: json, xml")
}

// LegacySearch handles GET /api/v3/wds.
func (s *Server) LegacySearch(w http.ResponseWriter, r *http.Request) {
	params, err := bindLegacySearchParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	format, err := legacyFormat(params.Format)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	fp, err := params.filterParams()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	f, err := filter.New(fp, s.bounds)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.search.Search(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	docs := res.Documents()
	if format == "xml" {
		out := xmlSearchResponse{
			Total:     res.Total(),
			Rows:      res.PageSize(),
			Os:        res.Offset(),
			Page:      res.Page(),
			Documents: make([]xmlDocument, len(docs)),
		}
		for i := range docs {
			out.Documents[i] = xmlDocumentFrom(&docs[i])
		}
		writeXML(w, http.StatusOK, out)
		return
	}

	out := legacySearchResponse{
		Total:     res.Total(),
		Rows:      res.PageSize(),
		Os:        res.Offset(),
		Page:      res.Page(),
		Documents: make(legacyDocuments, len(docs)),
	}
	for i := range docs {
		out.Documents[i] = legacyDocumentFrom(&docs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type facetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// LegacyFacets handles GET /api/v3/wds/facets.
func (s *Server) LegacyFacets(w http.ResponseWriter, r *http.Request) {
	var query *string
	if err := runtime.BindQueryParameter("form", true, false, "query", r.URL.Query(), &query); err != nil {
		s.handleDomainError(w, r, domain.NewInvalidInput("query", "", "invalid format"))
		return
	}

	set, err := s.search.Facets(r.Context(), deref(query))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make(map[string][]facetValue, len(set))
	for cat, values := range set {
		items := make([]facetValue, len(values))
		for i, v := range values {
			items[i] = facetValue{Value: v.Value, Count: v.Count}
		}
		out[string(cat)] = items
	}
	writeJSON(w, http.StatusOK, out)
}

// LegacyGetDocument handles GET /api/v3/wds/{id}. The "D" envelope prefix is accepted.
func (s *Server) LegacyGetDocument(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.handleDomainError(w, r, domain.NewInvalidInput("id", chi.URLParam(r, "id"), "invalid format"))
		return
	}

	// ids that genuinely start with "D" are retried verbatim
	stripped := stripLegacyPrefix(id)
	doc, err := s.search.GetByID(r.Context(), stripped)
	if errors.Is(err, domain.ErrNotFound) && stripped != id {
		doc, err = s.search.GetByID(r.Context(), id)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, legacyDocumentFrom(&doc))
}

func stripLegacyPrefix(id string) string {
	if len(id) > len(legacyIDPrefix) && strings.HasPrefix(id, legacyIDPrefix) {
		return id[len(legacyIDPrefix):]
	}
	return id
}

func writeXML(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	_ = enc.Encode(v)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
