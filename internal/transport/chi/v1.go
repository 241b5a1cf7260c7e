package chi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/docquery/internal/domain"
	dombatch "github.com/kailas-cloud/docquery/internal/domain/batch"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
)

type v1SearchRequest struct {
	ID                *string `json:"id"`
	SearchText        *string `json:"search_text"`
	Title             *string `json:"title"`
	Abstract          *string `json:"abstract"`
	DocType           *string `json:"doc_type"`
	MajorDocumentType *string `json:"major_document_type"`
	Language          *string `json:"language"`
	Country           *string `json:"country"`
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
	MaxResults        *int    `json:"max_results"`
}

type v1SearchResponse struct {
	Results      []v1Document `json:"results"`
	ResultCount  int          `json:"result_count"`
	SearchTimeMs int64        `json:"search_time_ms"`
}

// term picks search_text, then title, then abstract.
func (req *v1SearchRequest) term() string {
	for _, p := range []*string{req.SearchText, req.Title, req.Abstract} {
		if v := strings.TrimSpace(deref(p)); v != "" {
			return v
		}
	}
	return ""
}

func (s *Server) v1Filter(req *v1SearchRequest) (filter.Filter, error) {
	size := s.v1MaxResults
	if req.MaxResults != nil {
		if *req.MaxResults < 1 {
			return filter.Filter{}, domain.NewInvalidInput("max_results", strconv.Itoa(*req.MaxResults), "must be at least 1")
		}
		size = *req.MaxResults
	}
	start, err := parseV1Date("start_date", deref(req.StartDate))
	if err != nil {
		return filter.Filter{}, err
	}
	end, err := parseV1Date("end_date", deref(req.EndDate))
	if err != nil {
		return filter.Filter{}, err
	}

	f, err := filter.New(filter.Params{
		Term:              req.term(),
		Country:           deref(req.Country),
		Language:          deref(req.Language),
		DocumentType:      deref(req.DocType),
		MajorDocumentType: deref(req.MajorDocumentType),
		StartDate:         start,
		EndDate:           end,
		PageSize:          size,
	}, s.bounds)
	if err != nil {
		var ie *domain.InvalidInputError
		if errors.As(err, &ie) && ie.Field == "rows" {
			return filter.Filter{}, domain.NewInvalidInput("max_results", ie.Value, ie.Reason)
		}
		return filter.Filter{}, err
	}
	return f, nil
}

// parseV1Date accepts YYYY-MM-DD or an RFC 3339 timestamp.
func parseV1Date(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if len(v) > len(filter.DateLayout) {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t, nil
		}
	}
	return filter.ParseDate(field, v)
}

// V1Search handles POST /v1/search. An id short-circuits to a single lookup.
func (s *Server) V1Search(w http.ResponseWriter, r *http.Request) {
	var req v1SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start := time.Now()

	if id := strings.TrimSpace(deref(req.ID)); id != "" {
		doc, err := s.search.GetByID(r.Context(), id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusOK, v1SearchResponse{Results: []v1Document{}, SearchTimeMs: elapsedMs(start)})
		case err != nil:
			s.handleDomainError(w, r, err)
		default:
			writeJSON(w, http.StatusOK, v1SearchResponse{
				Results:      []v1Document{v1DocumentFrom(&doc)},
				ResultCount:  1,
				SearchTimeMs: elapsedMs(start),
			})
		}
		return
	}

	f, err := s.v1Filter(&req)
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
	out := v1SearchResponse{
		Results:      make([]v1Document, len(docs)),
		ResultCount:  res.Total(),
		SearchTimeMs: elapsedMs(start),
	}
	for i := range docs {
		out.Results[i] = v1DocumentFrom(&docs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type v1SummaryRequest struct {
	IDs          []string       `json:"ids"`
	Model        string         `json:"model"`
	ModelOptions map[string]any `json:"model_options"`
	// LegacyOptions is the camelCase spelling older clients send.
	LegacyOptions map[string]any `json:"modelOptions"`
}

func (req *v1SummaryRequest) toDomain() (domsum.Request, error) {
	raw := req.ModelOptions
	if raw == nil {
		raw = req.LegacyOptions
	}
	opts, err := llm.ParseOptions(raw)
	if err != nil {
		return domsum.Request{}, err
	}
	return domsum.Request{IDs: req.IDs, Model: req.Model, Options: opts}, nil
}

type v1SummaryResponse struct {
	SummaryText   string `json:"summary_text"`
	SummaryTimeMs int64  `json:"summary_time_ms"`
	Model         string `json:"model"`
	DocumentID    string `json:"document_id"`
	Source        string `json:"source"`
}

func v1SummaryFrom(r domsum.Result) v1SummaryResponse {
	return v1SummaryResponse{
		SummaryText:   r.Text,
		SummaryTimeMs: r.ElapsedMs,
		Model:         string(r.Model),
		DocumentID:    r.DocumentID,
		Source:        string(r.Source),
	}
}

// V1Summary handles POST /v1/summary.
func (s *Server) V1Summary(w http.ResponseWriter, r *http.Request) {
	var req v1SummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sr, err := req.toDomain()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.summary.Summarize(r.Context(), sr)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v1SummaryFrom(res))
}

type v1BatchItem struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	SummaryText   *string        `json:"summary_text,omitempty"`
	SummaryTimeMs *int64         `json:"summary_time_ms,omitempty"`
	Source        *string        `json:"source,omitempty"`
	Error         *ErrorResponse `json:"error,omitempty"`
}

type v1BatchResponse struct {
	Model     string        `json:"model,omitempty"`
	Results   []v1BatchItem `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// V1SummaryBatch handles POST /v1/summary/batch.
func (s *Server) V1SummaryBatch(w http.ResponseWriter, r *http.Request) {
	var req v1SummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sr, err := req.toDomain()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.summary.SummarizeBatch(r.Context(), sr)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := v1BatchResponse{Results: make([]v1BatchItem, len(results))}
	for i, res := range results {
		out.Results[i] = s.batchItemFrom(res)
		if res.Status() == dombatch.StatusOK {
			out.Succeeded++
			out.Model = string(res.Value().Model)
		} else {
			out.Failed++
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) batchItemFrom(r dombatch.Result[domsum.Result]) v1BatchItem {
	item := v1BatchItem{ID: r.ID(), Status: string(r.Status())}
	if r.Err() != nil {
		_, resp := s.classify(r.Err())
		item.Error = &resp
		return item
	}
	v := r.Value()
	src := string(v.Source)
	item.SummaryText = &v.Text
	item.SummaryTimeMs = &v.ElapsedMs
	item.Source = &src
	return item
}

type v1Model struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	WireModel string `json:"wire_model"`
	Available bool   `json:"available"`
	Default   bool   `json:"default"`
}

type v1ModelsResponse struct {
	Models       []v1Model `json:"models"`
	DefaultModel string    `json:"default_model"`
}

// V1Models handles GET /v1/models.
func (s *Server) V1Models(w http.ResponseWriter, _ *http.Request) {
	infos := s.models.Models()
	out := v1ModelsResponse{Models: make([]v1Model, len(infos))}
	for i, m := range infos {
		out.Models[i] = v1Model{
			ID:        string(m.ID),
			Provider:  string(m.Provider),
			WireModel: m.WireName,
			Available: m.Available,
			Default:   m.Default,
		}
		if m.Default {
			out.DefaultModel = string(m.ID)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

