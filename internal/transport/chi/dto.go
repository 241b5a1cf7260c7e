package chi

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"time"

	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
)

// legacyIDPrefix is prepended to document ids in the legacy envelope.
const legacyIDPrefix = "D"

// legacyDocument is a document on the legacy surface. Fields that were not
// projected are omitted.
type legacyDocument struct {
	ID                string     `json:"id"`
	Title             string     `json:"title,omitempty"`
	Abstract          *string    `json:"abstract,omitempty"`
	DocumentDate      *time.Time `json:"documentDate,omitempty"`
	DocumentType      *string    `json:"documentType,omitempty"`
	MajorDocumentType *string    `json:"majorDocumentType,omitempty"`
	VolumeNumber      *int       `json:"volumeNumber,omitempty"`
	TotalVolumeNumber *int       `json:"totalVolumeNumber,omitempty"`
	URL               *string    `json:"url,omitempty"`
	Language          *string    `json:"language,omitempty"`
	Country           *string    `json:"country,omitempty"`
	Author            *string    `json:"author,omitempty"`
	Publisher         *string    `json:"publisher,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// v1Document is a document on the v1 surface.
type v1Document struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Abstract          *string    `json:"abstract"`
	DocumentDate      *time.Time `json:"document_date"`
	DocumentType      *string    `json:"document_type"`
	MajorDocumentType *string    `json:"major_document_type"`
	VolumeNumber      *int       `json:"volume_number"`
	TotalVolumeNumber *int       `json:"total_volume_number"`
	URL               *string    `json:"url"`
	Language          *string    `json:"language"`
	Country           *string    `json:"country"`
	Author            *string    `json:"author"`
	Publisher         *string    `json:"publisher"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

func legacyDocumentFrom(d *domdoc.Document) legacyDocument {
	a := d.Attributes()
	return legacyDocument{
		ID:                a.ID,
		Title:             a.Title,
		Abstract:          a.Abstract,
		DocumentDate:      a.DocumentDate,
		DocumentType:      a.DocumentType,
		MajorDocumentType: a.MajorDocumentType,
		VolumeNumber:      a.VolumeNumber,
		TotalVolumeNumber: a.TotalVolumeNumber,
		URL:               a.URL,
		Language:          a.Language,
		Country:           a.Country,
		Author:            a.Author,
		Publisher:         a.Publisher,
		CreatedAt:         timePtr(a.CreatedAt),
		UpdatedAt:         timePtr(a.UpdatedAt),
	}
}

func v1DocumentFrom(d *domdoc.Document) v1Document {
	a := d.Attributes()
	return v1Document{
		ID:                a.ID,
		Title:             a.Title,
		Abstract:          a.Abstract,
		DocumentDate:      a.DocumentDate,
		DocumentType:      a.DocumentType,
		MajorDocumentType: a.MajorDocumentType,
		VolumeNumber:      a.VolumeNumber,
		TotalVolumeNumber: a.TotalVolumeNumber,
		URL:               a.URL,
		Language:          a.Language,
		Country:           a.Country,
		Author:            a.Author,
		Publisher:         a.Publisher,
		CreatedAt:         timePtr(a.CreatedAt),
		UpdatedAt:         timePtr(a.UpdatedAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// legacyDocuments is the "D<id>" keyed documents object. It marshals in
// slice order, which is the search order.
type legacyDocuments []legacyDocument

// MarshalJSON implements json.Marshaler.
func (ds legacyDocuments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range ds {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(legacyIDPrefix + ds[i].ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ds[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// legacySearchResponse is the JSON envelope of GET /api/v3/wds.
type legacySearchResponse struct {
	Total     int             `json:"total"`
	Rows      int             `json:"rows"`
	Os        int             `json:"os"`
	Page      int             `json:"page"`
	Documents legacyDocuments `json:"documents"`
}

// xmlSearchResponse is the XML envelope of GET /api/v3/wds?format=xml.
type xmlSearchResponse struct {
	XMLName   xml.Name      `xml:"documents"`
	Total     int           `xml:"total"`
	Rows      int           `xml:"rows"`
	Os        int           `xml:"os"`
	Page      int           `xml:"page"`
	Documents []xmlDocument `xml:"documents>document"`
}

type xmlDocument struct {
	Key               string `xml:"id,attr"`
	ID                string `xml:"id"`
	Title             string `xml:"title"`
	Abstract          string `xml:"abstract"`
	DocumentDate      string `xml:"docdt"`
	Country           string `xml:"country"`
	Language          string `xml:"lang"`
	DocumentType      string `xml:"docty"`
	MajorDocumentType string `xml:"majdocty"`
	URL               string `xml:"url"`
}

func xmlDocumentFrom(d *domdoc.Document) xmlDocument {
	x := xmlDocument{
		Key:               legacyIDPrefix + d.ID(),
		ID:                d.ID(),
		Title:             d.Title(),
		Abstract:          d.Abstract(),
		Country:           d.Country(),
		Language:          d.Language(),
		DocumentType:      d.DocumentType(),
		MajorDocumentType: d.MajorDocumentType(),
		URL:               d.URL(),
	}
	if dt := d.DocumentDate(); dt != nil {
		x.DocumentDate = dt.Format(filter.DateLayout)
	}
	return x
}
