package document

import (
	"strings"
	"time"
)

// Attributes holds the stored fields of a catalog record, used for hydration.
// Optional fields are nil when absent or not projected.
type Attributes struct {
	ID                string
	Title             string
	Abstract          *string
	DocumentType      *string
	MajorDocumentType *string
	Language          *string
	Country           *string
	Author            *string
	Publisher         *string
	URL               *string
	DocumentDate      *time.Time
	VolumeNumber      *int
	TotalVolumeNumber *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Document is a read-only catalog record. Content and model are transient
// and only set during summarization.
type Document struct {
	attrs   Attributes
	content string
	model   string
}

// Reconstruct creates a Document from stored attributes (storage hydration).
func Reconstruct(a Attributes) Document {
	return Document{attrs: a}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.attrs.ID }

// Title returns the document title.
func (d *Document) Title() string { return d.attrs.Title }

// Abstract returns the abstract or "" when absent.
func (d *Document) Abstract() string { return deref(d.attrs.Abstract) }

// HasAbstract reports whether a non-blank abstract is present.
func (d *Document) HasAbstract() bool { return strings.TrimSpace(d.Abstract()) != "" }

// DocumentType returns the document type (docty).
func (d *Document) DocumentType() string { return deref(d.attrs.DocumentType) }

// MajorDocumentType returns the major document type (majdocty).
func (d *Document) MajorDocumentType() string { return deref(d.attrs.MajorDocumentType) }

// Language returns the document language.
func (d *Document) Language() string { return deref(d.attrs.Language) }

// Country returns the document country.
func (d *Document) Country() string { return deref(d.attrs.Country) }

// Author returns the document author.
func (d *Document) Author() string { return deref(d.attrs.Author) }

// Publisher returns the document publisher.
func (d *Document) Publisher() string { return deref(d.attrs.Publisher) }

// URL returns the source PDF URL or "".
func (d *Document) URL() string { return deref(d.attrs.URL) }

// DocumentDate returns the document date, nil when absent.
func (d *Document) DocumentDate() *time.Time { return d.attrs.DocumentDate }

// VolumeNumber returns the volume number, nil when absent.
func (d *Document) VolumeNumber() *int { return d.attrs.VolumeNumber }

// TotalVolumeNumber returns the total volume count, nil when absent.
func (d *Document) TotalVolumeNumber() *int { return d.attrs.TotalVolumeNumber }

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.attrs.CreatedAt }

// UpdatedAt returns the last update timestamp.
func (d *Document) UpdatedAt() time.Time { return d.attrs.UpdatedAt }

// Attributes returns a copy of the stored attributes.
func (d *Document) Attributes() Attributes { return d.attrs }

// Content returns the transient summarization content.
func (d *Document) Content() string { return d.content }

// Model returns the transient model selection.
func (d *Document) Model() string { return d.model }

// WithContent returns a copy carrying the given content and model.
func (d *Document) WithContent(content, model string) Document {
	return Document{attrs: d.attrs, content: content, model: model}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
