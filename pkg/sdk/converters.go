package docquery

import (
	"time"

	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
	llmuc "github.com/kailas-cloud/docquery/internal/usecase/llm"
)

func toInternalFilter(q Query, b filter.Bounds) (filter.Filter, error) {
	return filter.New(filter.Params{
		Term:              q.Term,
		Country:           q.Country,
		Language:          q.Language,
		DocumentType:      q.DocumentType,
		MajorDocumentType: q.MajorDocumentType,
		StartDate:         q.StartDate,
		EndDate:           q.EndDate,
		Fields:            q.Fields,
		PageSize:          q.PageSize,
		Offset:            q.Offset,
	}, b)
}

func fromInternalDocument(d domdoc.Document) Document {
	a := d.Attributes()
	return Document{
		ID:                a.ID,
		Title:             a.Title,
		Abstract:          d.Abstract(),
		DocumentDate:      a.DocumentDate,
		DocumentType:      d.DocumentType(),
		MajorDocumentType: d.MajorDocumentType(),
		VolumeNumber:      a.VolumeNumber,
		TotalVolumeNumber: a.TotalVolumeNumber,
		URL:               d.URL(),
		Language:          d.Language(),
		Country:           d.Country(),
		Author:            d.Author(),
		Publisher:         d.Publisher(),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func fromInternalResult(r result.Result) SearchResult {
	docs := r.Documents()
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = fromInternalDocument(d)
	}
	return SearchResult{
		Total:     r.Total(),
		Page:      r.Page(),
		PageSize:  r.PageSize(),
		Offset:    r.Offset(),
		Documents: out,
	}
}

func fromInternalFacets(set facet.Set) Facets {
	out := make(Facets, len(set))
	for cat, values := range set {
		vs := make([]FacetValue, len(values))
		for i, v := range values {
			vs[i] = FacetValue{Value: v.Value, Count: v.Count}
		}
		out[string(cat)] = vs
	}
	return out
}

func fromInternalSummary(r domsum.Result) Summary {
	return Summary{
		DocumentID: r.DocumentID,
		Text:       r.Text,
		Model:      string(r.Model),
		Source:     string(r.Source),
		Elapsed:    time.Duration(r.ElapsedMs) * time.Millisecond,
	}
}

func fromInternalModel(m llmuc.ModelInfo) ModelInfo {
	return ModelInfo{
		ID:        string(m.ID),
		Provider:  string(m.Provider),
		WireModel: m.WireName,
		Available: m.Available,
		Default:   m.Default,
	}
}
